package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/service"
)

// writeError sends a JSON error body in the {"success": false, "errMsg": ...} shape.
func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "errMsg": message})
}

// writeServiceError maps a service error onto an HTTP status.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

// writeOutcomeError maps a failed Outcome onto an HTTP status.
func writeOutcomeError(c *gin.Context, out service.Outcome) {
	status := http.StatusInternalServerError
	switch {
	case out.State == service.StateValidationFailed:
		status = http.StatusBadRequest
	case errors.Is(out.Err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(out.Err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if out.Err != nil && status == http.StatusInternalServerError {
		_ = c.Error(out.Err)
	}
	writeError(c, status, out.Reason)
}

// paramID parses a positive int64 path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, returning def when absent.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
