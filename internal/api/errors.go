package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

func abortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// fail maps store and domain errors to API responses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortMessage(c, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrStartOverlap), errors.Is(err, store.ErrEndOverlap):
		abortMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, track.ErrInvalidInterval):
		abortMessage(c, http.StatusBadRequest, err.Error())
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		abortMessage(c, http.StatusBadRequest, "name already in use")
	default:
		s.log.Error("request failed", "error", err)
		abortMessage(c, http.StatusInternalServerError, "internal error")
	}
}
