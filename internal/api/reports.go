package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/export"
)

func (s *Server) cyclesCSV(c *gin.Context) {
	user := currentUserFrom(c)
	report, err := s.store.CycleReport(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="cycles.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, report); err != nil {
		s.log.Error("write csv report", "error", err)
	}
}

func (s *Server) cyclesJSON(c *gin.Context) {
	user := currentUserFrom(c)
	report, err := s.store.CycleReport(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="cycles.json"`)
	c.Status(http.StatusOK)
	if err := export.WriteJSON(c.Writer, report); err != nil {
		s.log.Error("write json report", "error", err)
	}
}
