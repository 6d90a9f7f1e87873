package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"
)

var (
	// ErrEmptyDocument is returned for zero-length uploads.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrUnsupportedType is returned when the payload is not a PDF, DOCX or plain text file.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoText is returned when decoding succeeds but yields no text.
	ErrNoText = errors.New("document contains no extractable text")
)

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error)
}

// TextExtractor is the default Extractor.
type TextExtractor struct{}

// ExtractText implements Extractor.
func (TextExtractor) ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	return ExtractTextFromBytes(ctx, data, mimeType, fileName)
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	normalized := DetectMimeType(data, mimeType, fileName)
	var (
		text string
		err  error
	)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimePlain:
		text, err = extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", normalized, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// DetectMimeType sniffs the payload, falling back to the declared type and file extension
// when the content is ambiguous (e.g. a DOCX that only sniffs as application/zip).
func DetectMimeType(data []byte, declared string, fileName string) string {
	detected := mimetype.Detect(data)
	for _, supported := range []string{MimePDF, MimeDOCX, MimePlain} {
		if isKind(detected, supported) {
			return supported
		}
	}

	if detected.Is("application/zip") {
		clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
		if clean == MimeDOCX || strings.EqualFold(filepath.Ext(fileName), ".docx") {
			return MimeDOCX
		}
	}
	return strings.ToLower(strings.Split(detected.String(), ";")[0])
}

// isKind reports whether m or one of its parents (text/csv -> text/plain) matches target.
func isKind(m *mimetype.MIME, target string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(target) {
			return true
		}
	}
	return false
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent())
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
}

// stripDocxXML keeps character data and turns paragraph, break and tab elements into whitespace.
func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
