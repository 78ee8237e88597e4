package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

type rankingSeries struct {
	Labels []string `json:"labels"`
	Series []int64  `json:"series"`
}

type rankingResponse struct {
	Projects rankingSeries `json:"projects"`
	Tasks    rankingSeries `json:"tasks"`
}

func toRankingSeries(entries []store.RankingEntry) rankingSeries {
	out := rankingSeries{Labels: []string{}, Series: []int64{}}
	for _, e := range entries {
		out.Labels = append(out.Labels, e.Label)
		out.Series = append(out.Series, e.Seconds)
	}
	return out
}

func (s *Server) durationRanking(c *gin.Context) {
	user := currentUserFrom(c)
	tasks, err := s.store.TaskRanking(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	projects, err := s.store.ProjectRanking(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rankingResponse{
		Projects: toRankingSeries(projects),
		Tasks:    toRankingSeries(tasks),
	})
}

type openTaskResponse struct {
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	Project  string `json:"project_public_id"`
}

func (s *Server) openTasks(c *gin.Context) {
	user := currentUserFrom(c)
	tasks, err := s.store.OpenTasks(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]openTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, openTaskResponse{
			PublicID: t.PublicID,
			Name:     t.Name,
			Project:  t.ProjectPublicID,
		})
	}
	c.JSON(http.StatusOK, out)
}

type latestTaskResponse struct {
	PublicID       string `json:"public_id"`
	Name           string `json:"name"`
	Project        string `json:"project_public_id"`
	LastModifiedOn string `json:"last_modified_on"`
}

func (s *Server) latestTasks(c *gin.Context) {
	user := currentUserFrom(c)
	tasks, err := s.store.LatestTasks(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]latestTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, latestTaskResponse{
			PublicID:       t.PublicID,
			Name:           t.Name,
			Project:        t.ProjectPublicID,
			LastModifiedOn: t.LastModifiedOn.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// totalTime reports week/month/year aggregates around a reference date,
// today by default.
func (s *Server) totalTime(c *gin.Context) {
	reference := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			abortMessage(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		reference = parsed
	}

	user := currentUserFrom(c)
	entries, err := s.store.HistogramEntries(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, track.BuildHistogram(entries, reference))
}
