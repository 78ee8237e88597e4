package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
)

const userKey = "api.user"

// requireUser resolves the Authorization bearer token to a user and
// aborts with 401 when it can't.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortMessage(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.store.GetUserByToken(token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abortMessage(c, http.StatusUnauthorized, "invalid token")
				return
			}
			s.fail(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUserFrom(c *gin.Context) *store.User {
	return c.MustGet(userKey).(*store.User)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
