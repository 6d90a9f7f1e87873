package extraction

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// fileFields are the multipart fields accepted for the document, in lookup order.
var fileFields = []string{"file", "resume", "document"}

// Handler wires HTTP handlers to the extraction service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches extraction routes. Extra middleware (rate limits) runs before the handler.
func (h *Handler) RegisterRoutes(rg gin.IRoutes, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.extract)
	rg.POST("/extract", handlers...)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := formFile(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "no_document", ErrNoDocument.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_document", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_document", "unable to read file", nil)
		return
	}

	id := uuid.NewString()
	c.Set("extractionId", id)
	c.Header("X-Extraction-Id", id)

	result, err := h.Svc.Extract(c.Request.Context(), Document{
		ID:       id,
		Data:     data,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	respond.OK(c, result.Profile)
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	var firstErr error
	for _, field := range fileFields {
		fh, err := c.FormFile(field)
		if err == nil {
			return fh, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
	}
	return nil, firstErr
}

func writeError(c *gin.Context, err error) {
	var stageErr *StageError
	var failure *profile.ExtractionFailure
	switch {
	case errors.Is(err, ErrNoDocument):
		respond.Error(c, http.StatusBadRequest, "no_document", err.Error(), nil)
	case errors.As(err, &stageErr) && stageErr.Stage == StageText:
		respond.Error(c, http.StatusUnprocessableEntity, "text_acquisition_failed", "could not read text from document", gin.H{"reason": stageErr.Err.Error()})
	case errors.As(err, &stageErr) && stageErr.Stage == StageProvider:
		respond.Error(c, http.StatusBadGateway, "provider_failure", "extraction provider request failed", gin.H{"reason": stageErr.Err.Error()})
	case errors.As(err, &failure):
		respond.Error(c, http.StatusInternalServerError, "extraction_failure", "extraction produced an invalid record", gin.H{"reason": failure.Err.Error()})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "extraction failed", nil)
	}
}
