// Package api exposes the HTTP surface: bearer-token auth, CRUD for
// projects, tasks and cycles, analytics and report downloads.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
)

type Server struct {
	store  *store.Store
	log    *slog.Logger
	router *gin.Engine
}

// New wires the routes onto a fresh gin engine.
func New(st *store.Store, logger *slog.Logger) *Server {
	s := &Server{store: st, log: logger}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.health)

	v1 := router.Group("/v1")
	v1.POST("/users", s.createUser)

	auth := v1.Group("", s.requireUser())
	{
		auth.GET("/users/me", s.currentUser)

		auth.POST("/projects", s.createProject)
		auth.GET("/projects", s.listProjects)
		auth.GET("/projects/:public_id", s.getProject)
		auth.PATCH("/projects/:public_id", s.updateProject)
		auth.DELETE("/projects/:public_id", s.deleteProject)

		auth.POST("/tasks", s.createTask)
		auth.GET("/tasks", s.listTasks)
		auth.GET("/tasks/:public_id", s.getTask)
		auth.PATCH("/tasks/:public_id", s.updateTask)
		auth.DELETE("/tasks/:public_id", s.deleteTask)

		auth.POST("/cycles", s.createCycle)
		auth.GET("/cycles", s.listCycles)
		auth.GET("/cycles/:public_id", s.getCycle)
		auth.PATCH("/cycles/:public_id", s.updateCycle)
		auth.DELETE("/cycles/:public_id", s.deleteCycle)

		analytics := auth.Group("/analytics")
		{
			analytics.GET("/duration-ranking", s.durationRanking)
			analytics.GET("/open-tasks", s.openTasks)
			analytics.GET("/latest-tasks", s.latestTasks)
			analytics.GET("/total-time", s.totalTime)
		}

		reports := auth.Group("/reports")
		{
			reports.GET("/cycles.csv", s.cyclesCSV)
			reports.GET("/cycles.json", s.cyclesJSON)
		}
	}

	s.router = router
	return s
}

// Router returns the configured engine for http.Server or tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
