package shares

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-extractor/internal/shared/server/respond"
)

const maxShareBodyBytes = 1 << 20 // 1MB

// Handler wires HTTP handlers to the share service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches share routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/share", h.create)
	rg.GET("/share/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxShareBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "share payload exceeds limit", gin.H{"maxBytes": maxShareBodyBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}

	id, err := h.Svc.Create(c.Request.Context(), json.RawMessage(body))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be valid JSON", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "share_creation_failed", "failed to create share", nil)
		}
		return
	}

	c.Set("shareId", id)
	respond.JSON(c, http.StatusCreated, gin.H{"shareId": id})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("shareId", id)

	data, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "share_not_found", "share not found or expired", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to fetch share", nil)
		}
		return
	}

	respond.RawJSON(c, http.StatusOK, data)
}
