package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const projectColumns = `id, public_id, name, description, is_active, created_by, modified_by, created_on, modified_on`

func (s *Store) CreateProject(owner int64, name, description string) (*Project, error) {
	now := formatTime(time.Now())
	res, err := s.db.Exec(
		`INSERT INTO projects (public_id, name, description, created_by, modified_by, created_on, modified_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), name, description, owner, owner, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.ProjectByID(id)
}

// GetProject returns the owner's active project with the given public id.
func (s *Store) GetProject(owner int64, publicID string) (*Project, error) {
	return scanProject(s.db.QueryRow(
		`SELECT `+projectColumns+` FROM projects WHERE public_id = ? AND created_by = ? AND is_active = 1`,
		publicID, owner,
	))
}

// ProjectByID looks a project up by row id, regardless of owner or
// active flag.
func (s *Store) ProjectByID(id int64) (*Project, error) {
	return scanProject(s.db.QueryRow(
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id,
	))
}

// ListProjects returns the owner's active projects ordered by name.
func (s *Store) ListProjects(owner int64) ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT `+projectColumns+` FROM projects WHERE created_by = ? AND is_active = 1 ORDER BY name`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject applies a partial update to the owner's active project,
// stamping the acting user as modifier. Toggling IsActive is the
// activate/deactivate lifecycle.
func (s *Store) UpdateProject(owner int64, publicID string, upd ProjectUpdate) (*Project, error) {
	p, err := s.GetProject(owner, publicID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	_, err = s.db.Exec(
		`UPDATE projects SET name = ?, description = ?, is_active = ?, modified_by = ?, modified_on = ? WHERE id = ?`,
		p.Name, p.Description, boolToInt(p.IsActive), owner, formatTime(time.Now()), p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return s.ProjectByID(p.ID)
}

// DeleteProject hard-deletes the owner's project and, via cascading
// foreign keys, its tasks and cycles.
func (s *Store) DeleteProject(owner int64, publicID string) error {
	res, err := s.db.Exec(
		`DELETE FROM projects WHERE public_id = ? AND created_by = ?`, publicID, owner,
	)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	p := &Project{}
	var active int
	var createdOn, modifiedOn string
	err := row.Scan(&p.ID, &p.PublicID, &p.Name, &p.Description, &active,
		&p.CreatedBy, &p.ModifiedBy, &createdOn, &modifiedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.IsActive = active == 1
	p.CreatedOn = parseTime(createdOn)
	p.ModifiedOn = parseTime(modifiedOn)
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
