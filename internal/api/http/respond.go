package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogError records a handler failure server-side.
func LogError(op string, err error) {
	log.Printf("[error] %s: %v", op, err)
}

// ServerError logs the underlying failure and answers with a generic
// message. Driver and upstream error text never reaches the client.
func ServerError(c *gin.Context, op string, err error) {
	log.Printf("[error] %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}

// BadRequest answers a validation failure with the offending detail.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
