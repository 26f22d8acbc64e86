package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/service"
)

type AreaHandler struct {
	areas *service.AreaService
}

func NewAreaHandler(areas *service.AreaService) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// HandleList returns all areas and their count.
// GET /admin/area/list
func (h *AreaHandler) HandleList(c *gin.Context) {
	areas, err := h.areas.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": toAreaDTOs(areas), "total": len(areas)})
}
