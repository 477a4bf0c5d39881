// Package handler exposes the harvest pipeline over HTTP for an external
// presentation layer.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func sendError(c *gin.Context, status int, title, message string) {
	c.JSON(status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     title,
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}
