package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Projects
// ============================================================

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")

	w := c.do(http.MethodPost, "/v1/projects", gin.H{"name": "Website", "description": "client site"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created projectResponse
	decode(t, w, &created)
	require.NotEmpty(t, created.PublicID)
	require.Equal(t, "Website", created.Name)
	require.Equal(t, "client site", created.Description)
	require.True(t, created.IsActive)
	require.Equal(t, int64(0), created.Duration)
	require.Equal(t, "00:00:00", created.ParsedDuration)

	w = c.do(http.MethodGet, "/v1/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []projectResponse
	decode(t, w, &list)
	require.Len(t, list, 1)

	w = c.do(http.MethodPatch, "/v1/projects/"+created.PublicID, gin.H{"name": "Website v2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated projectResponse
	decode(t, w, &updated)
	require.Equal(t, "Website v2", updated.Name)
	require.Equal(t, "client site", updated.Description, "untouched fields survive a partial update")

	w = c.do(http.MethodDelete, "/v1/projects/"+created.PublicID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/v1/projects/"+created.PublicID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectDeactivateHidesFromList(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	publicID := c.createProject("Website")

	w := c.do(http.MethodPatch, "/v1/projects/"+publicID, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/v1/projects", nil)
	var list []projectResponse
	decode(t, w, &list)
	require.Empty(t, list)
}

func TestProjectOwnerIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	publicID := alice.createProject("Secret")

	w := bob.do(http.MethodGet, "/v1/projects/"+publicID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = bob.do(http.MethodGet, "/v1/projects", nil)
	var list []projectResponse
	decode(t, w, &list)
	require.Empty(t, list)
}

func TestDuplicateProjectName(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	c.createProject("Website")

	w := c.do(http.MethodPost, "/v1/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// A different owner may reuse the name.
	other := register(t, srv, "bob")
	w = other.do(http.MethodPost, "/v1/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
}

// ============================================================
// Tasks
// ============================================================

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	project := c.createProject("Website")

	w := c.do(http.MethodPost, "/v1/tasks", gin.H{"name": "Design", "project": project})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created taskResponse
	decode(t, w, &created)
	require.Equal(t, "Design", created.Name)
	require.Equal(t, project, created.Project)

	w = c.do(http.MethodGet, "/v1/tasks/"+created.PublicID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPatch, "/v1/tasks/"+created.PublicID, gin.H{"description": "landing page"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated taskResponse
	decode(t, w, &updated)
	require.Equal(t, "landing page", updated.Description)

	w = c.do(http.MethodDelete, "/v1/tasks/"+created.PublicID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = c.do(http.MethodGet, "/v1/tasks/"+created.PublicID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTaskUnknownProject(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")

	w := c.do(http.MethodPost, "/v1/tasks", gin.H{"name": "Design", "project": "missing"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTaskForeignProject(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	project := alice.createProject("Secret")

	w := bob.do(http.MethodPost, "/v1/tasks", gin.H{"name": "Sneaky", "project": project})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasksByProject(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	p1 := c.createProject("One")
	p2 := c.createProject("Two")
	c.createTask(p1, "A")
	c.createTask(p2, "B")

	w := c.do(http.MethodGet, "/v1/tasks?project="+p1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []taskResponse
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.Equal(t, "A", list[0].Name)

	w = c.do(http.MethodGet, "/v1/tasks", nil)
	decode(t, w, &list)
	require.Len(t, list, 2)
}

// ============================================================
// Cycles
// ============================================================

func TestCycleLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	project := c.createProject("Website")
	task := c.createTask(project, "Design")

	// Open cycle: no end, zero duration.
	w := c.createCycle(task, "2023-03-01T09:00:00Z", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created cycleResponse
	decode(t, w, &created)
	require.Equal(t, task, created.Task)
	require.Nil(t, created.End)
	require.Equal(t, int64(0), created.Duration)
	require.Equal(t, "00:00:00", created.ParsedDuration)

	// Closing it through PATCH yields the tracked duration.
	w = c.do(http.MethodPatch, "/v1/cycles/"+created.PublicID, gin.H{"end": "2023-03-01T10:30:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var closed cycleResponse
	decode(t, w, &closed)
	require.NotNil(t, closed.End)
	require.Equal(t, int64(5400), closed.Duration)
	require.Equal(t, "01:30:00", closed.ParsedDuration)

	// clear_end reopens it.
	w = c.do(http.MethodPatch, "/v1/cycles/"+created.PublicID, gin.H{"clear_end": true})
	require.Equal(t, http.StatusOK, w.Code)
	var reopened cycleResponse
	decode(t, w, &reopened)
	require.Nil(t, reopened.End)

	w = c.do(http.MethodDelete, "/v1/cycles/"+created.PublicID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = c.do(http.MethodGet, "/v1/cycles/"+created.PublicID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCycleEndBeforeStart(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	task := c.createTask(c.createProject("Website"), "Design")

	w := c.createCycle(task, "2023-03-01T10:00:00Z", strp("2023-03-01T09:00:00Z"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	require.Equal(t, "end datetime must not be lesser than start datetime", resp.Message)
}

func TestCreateCycleOverlap(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	task := c.createTask(c.createProject("Website"), "Design")

	w := c.createCycle(task, "2023-03-01T09:00:00Z", strp("2023-03-01T11:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Start falls inside the stored interval.
	w = c.createCycle(task, "2023-03-01T10:00:00Z", strp("2023-03-01T12:00:00Z"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	require.Equal(t, "start datetime already contained in another cycle interval", resp.Message)

	// End falls inside the stored interval.
	w = c.createCycle(task, "2023-03-01T08:00:00Z", strp("2023-03-01T10:00:00Z"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	require.Equal(t, "end datetime already contained in another cycle interval", resp.Message)

	// An open cycle is no obstacle for later closed ones.
	w = c.createCycle(task, "2023-03-01T12:00:00Z", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = c.createCycle(task, "2023-03-01T13:00:00Z", strp("2023-03-01T14:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestListCyclesByTask(t *testing.T) {
	srv := newTestServer(t)
	c := register(t, srv, "alice")
	project := c.createProject("Website")
	t1 := c.createTask(project, "Design")
	t2 := c.createTask(project, "Build")
	c.createCycle(t1, "2023-03-01T09:00:00Z", strp("2023-03-01T10:00:00Z"))
	c.createCycle(t2, "2023-03-01T11:00:00Z", strp("2023-03-01T12:00:00Z"))

	w := c.do(http.MethodGet, "/v1/cycles?task="+t1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []cycleResponse
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.Equal(t, t1, list[0].Task)

	w = c.do(http.MethodGet, "/v1/cycles", nil)
	decode(t, w, &list)
	require.Len(t, list, 2)
	// Newest start first.
	require.Equal(t, t2, list[0].Task)
}
