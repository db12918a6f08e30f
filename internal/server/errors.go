package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/social-wizard/internal/prompt"
	"github.com/social-wizard/internal/storage"
)

// statusFor maps component errors onto HTTP status codes.
// Fetch, parse, generation and store failures are all 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation), errors.Is(err, prompt.ErrEmptyPool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes {"error": "<prefix>: <err>"} with the mapped status.
// Client errors carry the component message alone.
func (s *Server) fail(c *gin.Context, prefix string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && prefix != "" {
		msg = prefix + ": " + msg
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
