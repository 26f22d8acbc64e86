package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealthz responds with a 200 OK and a JSON body indicating the server is healthy.
func HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
