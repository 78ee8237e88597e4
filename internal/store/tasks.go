package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, public_id, project_id, name, description, is_active, created_by, modified_by, created_on, modified_on`

func (s *Store) CreateTask(owner, projectID int64, name, description string) (*Task, error) {
	now := formatTime(time.Now())
	res, err := s.db.Exec(
		`INSERT INTO tasks (public_id, project_id, name, description, created_by, modified_by, created_on, modified_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), projectID, name, description, owner, owner, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.TaskByID(id)
}

// GetTask returns the owner's active task with the given public id.
func (s *Store) GetTask(owner int64, publicID string) (*Task, error) {
	return scanTask(s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE public_id = ? AND created_by = ? AND is_active = 1`,
		publicID, owner,
	))
}

// TaskByID looks a task up by row id, regardless of owner or active flag.
func (s *Store) TaskByID(id int64) (*Task, error) {
	return scanTask(s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	))
}

// ListTasks returns the owner's active tasks ordered by name, optionally
// restricted to one project.
func (s *Store) ListTasks(owner int64, projectID *int64) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE created_by = ? AND is_active = 1`
	args := []any{owner}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update to the owner's active task.
func (s *Store) UpdateTask(owner int64, publicID string, upd TaskUpdate) (*Task, error) {
	t, err := s.GetTask(owner, publicID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.IsActive != nil {
		t.IsActive = *upd.IsActive
	}
	_, err = s.db.Exec(
		`UPDATE tasks SET name = ?, description = ?, is_active = ?, modified_by = ?, modified_on = ? WHERE id = ?`,
		t.Name, t.Description, boolToInt(t.IsActive), owner, formatTime(time.Now()), t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.TaskByID(t.ID)
}

// DeleteTask hard-deletes the owner's task and its cycles.
func (s *Store) DeleteTask(owner int64, publicID string) error {
	res, err := s.db.Exec(
		`DELETE FROM tasks WHERE public_id = ? AND created_by = ?`, publicID, owner,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var active int
	var createdOn, modifiedOn string
	err := row.Scan(&t.ID, &t.PublicID, &t.ProjectID, &t.Name, &t.Description, &active,
		&t.CreatedBy, &t.ModifiedBy, &createdOn, &modifiedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.IsActive = active == 1
	t.CreatedOn = parseTime(createdOn)
	t.ModifiedOn = parseTime(modifiedOn)
	return t, nil
}
