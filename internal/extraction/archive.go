package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"profile-extractor/internal/shared/storage/object"
	"profile-extractor/internal/shared/util"
)

const archivePrefix = "failed-outputs"

// Archive keeps raw provider output and the source document of failed extractions.
type Archive struct {
	Store object.ObjectStore
	Now   func() time.Time
}

// FailureRecord is the diagnostic payload written for one failed extraction.
type FailureRecord struct {
	ExtractionID string    `json:"extractionId"`
	Stage        Stage     `json:"stage"`
	Error        string    `json:"error"`
	Model        string    `json:"model,omitempty"`
	PromptHash   string    `json:"promptHash,omitempty"`
	FileName     string    `json:"fileName,omitempty"`
	MimeType     string    `json:"mimeType,omitempty"`
	RawOutput    string    `json:"rawOutput,omitempty"`
	Notes        []string  `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Save writes rec and, when present, the source document. It returns the record key.
func (a *Archive) Save(ctx context.Context, rec FailureRecord, document []byte) (string, error) {
	if a == nil || a.Store == nil {
		return "", nil
	}
	now := time.Now().UTC()
	if a.Now != nil {
		now = a.Now().UTC()
	}
	rec.CreatedAt = now
	dir := path.Join(archivePrefix, now.Format("2006/01/02"))

	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode failure record: %w", err)
	}
	key := path.Join(dir, rec.ExtractionID+".json")
	if _, err := a.Store.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("archive failure record: %w", err)
	}

	if len(document) > 0 {
		name, err := util.SanitizeFileName(rec.FileName)
		if err != nil {
			name = "document"
		}
		docKey := path.Join(dir, rec.ExtractionID+"_"+name)
		contentType := rec.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if _, err := a.Store.Put(ctx, docKey, contentType, bytes.NewReader(document)); err != nil {
			return key, fmt.Errorf("archive source document: %w", err)
		}
	}
	return key, nil
}
