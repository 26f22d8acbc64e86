package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/domain"
)

// ImageReader reads stored image bytes by address.
type ImageReader interface {
	Open(ctx context.Context, addr string) ([]byte, error)
}

type ImageHandler struct {
	images ImageReader
}

func NewImageHandler(images ImageReader) *ImageHandler {
	return &ImageHandler{images: images}
}

// HandleServe streams a stored image.
// GET /images/*addr
func (h *ImageHandler) HandleServe(c *gin.Context) {
	addr := strings.TrimPrefix(c.Param("addr"), "/")
	if addr == "" || strings.Contains(addr, "..") {
		writeError(c, http.StatusBadRequest, "invalid image address")
		return
	}

	data, err := h.images.Open(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(c, http.StatusNotFound, "image not found")
			return
		}
		writeServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
