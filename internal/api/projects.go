package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type projectResponse struct {
	PublicID       string `json:"public_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsActive       bool   `json:"is_active"`
	CreatedOn      string `json:"created_on"`
	ModifiedOn     string `json:"modified_on"`
	Duration       int64  `json:"duration"`
	ParsedDuration string `json:"parsed_duration"`
}

func newProjectResponse(p *store.Project, seconds int64) projectResponse {
	return projectResponse{
		PublicID:       p.PublicID,
		Name:           p.Name,
		Description:    p.Description,
		IsActive:       p.IsActive,
		CreatedOn:      p.CreatedOn.UTC().Format(time.RFC3339),
		ModifiedOn:     p.ModifiedOn.UTC().Format(time.RFC3339),
		Duration:       seconds,
		ParsedDuration: track.FormatInterval(seconds),
	}
}

func (s *Server) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	p, err := s.store.CreateProject(user.ID, req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProjectResponse(p, 0))
}

func (s *Server) listProjects(c *gin.Context) {
	user := currentUserFrom(c)
	projects, err := s.store.ListProjects(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	totals, err := s.store.ProjectDurationTotals(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i], totals[projects[i].ID]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProject(c *gin.Context) {
	user := currentUserFrom(c)
	p, err := s.store.GetProject(user.ID, c.Param("public_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	seconds, err := s.projectSeconds(p.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(p, seconds))
}

func (s *Server) updateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	p, err := s.store.UpdateProject(user.ID, c.Param("public_id"), store.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	seconds, err := s.projectSeconds(p.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(p, seconds))
}

func (s *Server) deleteProject(c *gin.Context) {
	user := currentUserFrom(c)
	if err := s.store.DeleteProject(user.ID, c.Param("public_id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// projectSeconds sums the project's tracked time in memory, skipping open
// and invalid cycles.
func (s *Server) projectSeconds(projectID int64) (int64, error) {
	cycles, err := s.store.CyclesByProject(projectID)
	if err != nil {
		return 0, err
	}
	return track.SumSeconds(cycleSpans(cycles)), nil
}

func cycleSpans(cycles []store.Cycle) []track.Span {
	spans := make([]track.Span, 0, len(cycles))
	for _, c := range cycles {
		spans = append(spans, track.Span{Start: c.Start, End: c.End})
	}
	return spans
}
