package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, Rust</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("\xef\xbb\xbfSkills: Go, Rust\n"), "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if text != "Skills: Go, Rust" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	})

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract, got error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Fatalf("expected name in text, got %q", text)
	}
	if !strings.Contains(text, "Skills:\tGo, Rust") {
		t.Fatalf("expected tab-separated skills line, got %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildDocx(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("expected detected type in error, got %v", err)
	}
}

func TestExtractTextFromBytes_Empty(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), nil, "application/pdf", "a.pdf"); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := ExtractTextFromBytes(context.Background(), []byte("   \n\t"), "text/plain", "blank.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestExtractTextFromBytes_CorruptPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4\nthis is not really a pdf"), "application/pdf", "broken.pdf")
	if err == nil {
		t.Fatal("expected corrupt pdf to fail")
	}
}

func TestExtractTextFromBytes_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("hello"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		fileName string
		want     string
	}{
		{name: "pdf magic", data: []byte("%PDF-1.7\n..."), declared: "application/octet-stream", want: MimePDF},
		{name: "plain", data: []byte("hello world"), declared: "", want: MimePlain},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n0000"), declared: "image/png", want: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.data, tt.declared, tt.fileName); got != tt.want {
				t.Fatalf("DetectMimeType = %q, want %q", got, tt.want)
			}
		})
	}
}
