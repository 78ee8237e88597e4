package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
}

type userResponse struct {
	PublicID  string `json:"public_id"`
	Username  string `json:"username"`
	Token     string `json:"token,omitempty"`
	CreatedOn string `json:"created_on"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.CreateUser(req.Username)
	if err != nil {
		s.fail(c, err)
		return
	}
	// The token is shown once, on registration.
	c.JSON(http.StatusCreated, userResponse{
		PublicID:  user.PublicID,
		Username:  user.Username,
		Token:     user.Token,
		CreatedOn: user.CreatedOn.UTC().Format(time.RFC3339),
	})
}

func (s *Server) currentUser(c *gin.Context) {
	user := currentUserFrom(c)
	c.JSON(http.StatusOK, userResponse{
		PublicID:  user.PublicID,
		Username:  user.Username,
		CreatedOn: user.CreatedOn.UTC().Format(time.RFC3339),
	})
}
