package main

// Extract a profile from a local file:
//   go run ./cmd/parsefile -file ./resume.pdf
// Use -text to print only the acquired document text.

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"profile-extractor/internal/bootstrap"
	"profile-extractor/internal/extract"
	"profile-extractor/internal/extraction"
	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/config"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to document (pdf, docx or txt)")
	mimeType := flag.String("mime", "", "Declared MIME type (optional, detected when empty)")
	outPath := flag.String("out", "", "Path to write profile JSON (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (openai or gemini)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	textOnly := flag.Bool("text", false, "Print extracted text and exit")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}
	fileName := filepath.Base(*filePath)
	declared := extract.DetectMimeType(data, *mimeType, fileName)

	ctx := context.Background()
	if *textOnly {
		text, err := extract.ExtractTextFromBytes(ctx, data, declared, fileName)
		if err != nil {
			exitErr(fmt.Sprintf("extract text: %v", err))
		}
		fmt.Println(text)
		return
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))
	cfg.LLMModel = *model
	client, err := bootstrap.BuildLLM(cfg)
	if err != nil {
		exitErr(err.Error())
	}
	schema, err := profile.NewSchema()
	if err != nil {
		exitErr(fmt.Sprintf("profile schema: %v", err))
	}

	svc := extraction.NewService(client, schema, cfg.LLMProvider)
	res, err := svc.Extract(ctx, extraction.Document{
		Data:     data,
		FileName: fileName,
		MimeType: declared,
	})
	if err != nil {
		exitErr(fmt.Sprintf("extract profile: %v", err))
	}

	raw, err := json.Marshal(res.Profile)
	if err != nil {
		exitErr(fmt.Sprintf("encode profile: %v", err))
	}
	pretty, err := prettyJSON(raw)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	_, _ = os.Stdout.Write([]byte("\n"))

	for _, note := range res.Notes {
		_, _ = fmt.Fprintf(os.Stderr, "note: %s\n", note)
	}
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
