package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

type createCycleRequest struct {
	Task  string     `json:"task" binding:"required"`
	Start time.Time  `json:"start" binding:"required"`
	End   *time.Time `json:"end"`
}

type updateCycleRequest struct {
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	ClearEnd bool       `json:"clear_end"`
	IsActive *bool      `json:"is_active"`
}

type cycleResponse struct {
	PublicID       string  `json:"public_id"`
	Task           string  `json:"task"`
	Start          string  `json:"start"`
	End            *string `json:"end"`
	IsActive       bool    `json:"is_active"`
	CreatedOn      string  `json:"created_on"`
	ModifiedOn     string  `json:"modified_on"`
	Duration       int64   `json:"duration"`
	ParsedDuration string  `json:"parsed_duration"`
}

func (s *Server) newCycleResponse(cy *store.Cycle, seconds int64) (cycleResponse, error) {
	t, err := s.store.TaskByID(cy.TaskID)
	if err != nil {
		return cycleResponse{}, err
	}
	var end *string
	if cy.End != nil {
		v := cy.End.UTC().Format(time.RFC3339)
		end = &v
	}
	return cycleResponse{
		PublicID:       cy.PublicID,
		Task:           t.PublicID,
		Start:          cy.Start.UTC().Format(time.RFC3339),
		End:            end,
		IsActive:       cy.IsActive,
		CreatedOn:      cy.CreatedOn.UTC().Format(time.RFC3339),
		ModifiedOn:     cy.ModifiedOn.UTC().Format(time.RFC3339),
		Duration:       seconds,
		ParsedDuration: track.FormatInterval(seconds),
	}, nil
}

func (s *Server) createCycle(c *gin.Context) {
	var req createCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	t, err := s.store.GetTask(user.ID, req.Task)
	if err != nil {
		s.fail(c, err)
		return
	}
	cy, err := s.store.CreateCycle(user.ID, t.ID, req.Start, req.End)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderCycle(c, http.StatusCreated, cy)
}

func (s *Server) listCycles(c *gin.Context) {
	user := currentUserFrom(c)

	var taskID *int64
	if publicID := c.Query("task"); publicID != "" {
		t, err := s.store.GetTask(user.ID, publicID)
		if err != nil {
			s.fail(c, err)
			return
		}
		taskID = &t.ID
	}

	cycles, err := s.store.ListCycles(user.ID, taskID)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]cycleResponse, 0, len(cycles))
	for i := range cycles {
		// List rows report 0 for open cycles.
		seconds, _ := (track.Span{Start: cycles[i].Start, End: cycles[i].End}).Seconds()
		resp, err := s.newCycleResponse(&cycles[i], seconds)
		if err != nil {
			s.fail(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCycle(c *gin.Context) {
	user := currentUserFrom(c)
	cy, err := s.store.GetCycle(user.ID, c.Param("public_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderCycle(c, http.StatusOK, cy)
}

func (s *Server) updateCycle(c *gin.Context) {
	var req updateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	cy, err := s.store.UpdateCycle(user.ID, c.Param("public_id"), store.CycleUpdate{
		Start:    req.Start,
		End:      req.End,
		ClearEnd: req.ClearEnd,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderCycle(c, http.StatusOK, cy)
}

func (s *Server) deleteCycle(c *gin.Context) {
	user := currentUserFrom(c)
	if err := s.store.DeleteCycle(user.ID, c.Param("public_id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// renderCycle writes a single cycle payload. A stored interval that fails
// the duration model surfaces as 422 rather than a silent zero.
func (s *Server) renderCycle(c *gin.Context, status int, cy *store.Cycle) {
	seconds, err := (track.Span{Start: cy.Start, End: cy.End}).Seconds()
	if err != nil {
		if errors.Is(err, track.ErrInvalidInterval) {
			abortMessage(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.fail(c, err)
		return
	}
	resp, err := s.newCycleResponse(cy, seconds)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, resp)
}
