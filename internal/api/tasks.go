package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

type createTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Project     string `json:"project" binding:"required"`
}

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type taskResponse struct {
	PublicID       string `json:"public_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Project        string `json:"project"`
	IsActive       bool   `json:"is_active"`
	CreatedOn      string `json:"created_on"`
	ModifiedOn     string `json:"modified_on"`
	Duration       int64  `json:"duration"`
	ParsedDuration string `json:"parsed_duration"`
}

func (s *Server) newTaskResponse(t *store.Task, seconds int64) (taskResponse, error) {
	p, err := s.store.ProjectByID(t.ProjectID)
	if err != nil {
		return taskResponse{}, err
	}
	return taskResponse{
		PublicID:       t.PublicID,
		Name:           t.Name,
		Description:    t.Description,
		Project:        p.PublicID,
		IsActive:       t.IsActive,
		CreatedOn:      t.CreatedOn.UTC().Format(time.RFC3339),
		ModifiedOn:     t.ModifiedOn.UTC().Format(time.RFC3339),
		Duration:       seconds,
		ParsedDuration: track.FormatInterval(seconds),
	}, nil
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	p, err := s.store.GetProject(user.ID, req.Project)
	if err != nil {
		s.fail(c, err)
		return
	}
	t, err := s.store.CreateTask(user.ID, p.ID, req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.newTaskResponse(t, 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listTasks(c *gin.Context) {
	user := currentUserFrom(c)

	var projectID *int64
	if publicID := c.Query("project"); publicID != "" {
		p, err := s.store.GetProject(user.ID, publicID)
		if err != nil {
			s.fail(c, err)
			return
		}
		projectID = &p.ID
	}

	tasks, err := s.store.ListTasks(user.ID, projectID)
	if err != nil {
		s.fail(c, err)
		return
	}
	totals, err := s.store.TaskDurationTotals(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		resp, err := s.newTaskResponse(&tasks[i], totals[tasks[i].ID])
		if err != nil {
			s.fail(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTask(c *gin.Context) {
	user := currentUserFrom(c)
	t, err := s.store.GetTask(user.ID, c.Param("public_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	seconds, err := s.taskSeconds(t.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.newTaskResponse(t, seconds)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUserFrom(c)
	t, err := s.store.UpdateTask(user.ID, c.Param("public_id"), store.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	seconds, err := s.taskSeconds(t.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.newTaskResponse(t, seconds)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteTask(c *gin.Context) {
	user := currentUserFrom(c)
	if err := s.store.DeleteTask(user.ID, c.Param("public_id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) taskSeconds(taskID int64) (int64, error) {
	cycles, err := s.store.CyclesByTask(taskID)
	if err != nil {
		return 0, err
	}
	return track.SumSeconds(cycleSpans(cycles)), nil
}
