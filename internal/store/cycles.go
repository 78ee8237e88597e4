package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lfortes/tasktime/internal/track"
)

const cycleColumns = `id, public_id, task_id, dt_start, dt_end, is_active, created_by, modified_by, created_on, modified_on`

// CreateCycle validates the candidate interval against the task's existing
// closed cycles and inserts it. The whole validate-then-insert runs in one
// transaction on the store's single connection, so two overlapping
// candidates cannot both pass against a stale snapshot.
func (s *Store) CreateCycle(owner, taskID int64, start time.Time, end *time.Time) (*Cycle, error) {
	if end != nil && end.Before(start) {
		return nil, track.ErrInvalidInterval
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin cycle insert: %w", err)
	}
	defer tx.Rollback()

	if err := checkOverlap(tx, owner, taskID, 0, start, end); err != nil {
		return nil, err
	}

	now := formatTime(time.Now())
	var endStr any
	if end != nil {
		endStr = formatTime(*end)
	}
	res, err := tx.Exec(
		`INSERT INTO cycles (public_id, task_id, dt_start, dt_end, created_by, modified_by, created_on, modified_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), taskID, formatTime(start), endStr, owner, owner, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cycle: %w", err)
	}
	id, _ := res.LastInsertId()
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cycle insert: %w", err)
	}
	return s.cycleByID(id)
}

// UpdateCycle applies a partial update, re-running overlap validation with
// the merged candidate interval. The row's own id is excluded from the
// checks, so a cycle may always keep or shrink its current interval.
func (s *Store) UpdateCycle(owner int64, publicID string, upd CycleUpdate) (*Cycle, error) {
	c, err := s.GetCycle(owner, publicID)
	if err != nil {
		return nil, err
	}

	start := c.Start
	if upd.Start != nil {
		start = *upd.Start
	}
	end := c.End
	switch {
	case upd.ClearEnd:
		end = nil
	case upd.End != nil:
		end = upd.End
	}
	if end != nil && end.Before(start) {
		return nil, track.ErrInvalidInterval
	}
	active := c.IsActive
	if upd.IsActive != nil {
		active = *upd.IsActive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin cycle update: %w", err)
	}
	defer tx.Rollback()

	if err := checkOverlap(tx, owner, c.TaskID, c.ID, start, end); err != nil {
		return nil, err
	}

	var endStr any
	if end != nil {
		endStr = formatTime(*end)
	}
	_, err = tx.Exec(
		`UPDATE cycles SET dt_start = ?, dt_end = ?, is_active = ?, modified_by = ?, modified_on = ? WHERE id = ?`,
		formatTime(start), endStr, boolToInt(active), owner, formatTime(time.Now()), c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update cycle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cycle update: %w", err)
	}
	return s.cycleByID(c.ID)
}

// checkOverlap rejects a candidate whose start (and then end, when closed)
// falls inside another active, closed cycle of the same owner and task.
// Open cycles carry no upper bound and never block either check. The start
// check short-circuits the end check.
func checkOverlap(tx *sql.Tx, owner, taskID, selfID int64, start time.Time, end *time.Time) error {
	contains := func(point time.Time) (bool, error) {
		var n int
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM cycles
			 WHERE task_id = ? AND created_by = ? AND is_active = 1
			   AND id != ? AND dt_end IS NOT NULL
			   AND dt_start <= ? AND dt_end >= ?`,
			taskID, owner, selfID, formatTime(point), formatTime(point),
		).Scan(&n)
		if err != nil {
			return false, fmt.Errorf("overlap query: %w", err)
		}
		return n > 0, nil
	}

	hit, err := contains(start)
	if err != nil {
		return err
	}
	if hit {
		return ErrStartOverlap
	}
	if end != nil {
		hit, err = contains(*end)
		if err != nil {
			return err
		}
		if hit {
			return ErrEndOverlap
		}
	}
	return nil
}

// GetCycle returns the owner's active cycle with the given public id.
func (s *Store) GetCycle(owner int64, publicID string) (*Cycle, error) {
	return scanCycle(s.db.QueryRow(
		`SELECT `+cycleColumns+` FROM cycles WHERE public_id = ? AND created_by = ? AND is_active = 1`,
		publicID, owner,
	))
}

func (s *Store) cycleByID(id int64) (*Cycle, error) {
	return scanCycle(s.db.QueryRow(
		`SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id,
	))
}

// ListCycles returns the owner's active cycles, newest start first,
// optionally restricted to one task.
func (s *Store) ListCycles(owner int64, taskID *int64) ([]Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE created_by = ? AND is_active = 1`
	args := []any{owner}
	if taskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *taskID)
	}
	query += ` ORDER BY dt_start DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()
	return collectCycles(rows)
}

// CyclesByTask returns every cycle of a task regardless of active flag.
// Task and project durations are defined over this full set; the duration
// math itself decides what counts.
func (s *Store) CyclesByTask(taskID int64) ([]Cycle, error) {
	rows, err := s.db.Query(
		`SELECT `+cycleColumns+` FROM cycles WHERE task_id = ?`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("cycles by task: %w", err)
	}
	defer rows.Close()
	return collectCycles(rows)
}

// CyclesByProject returns every cycle under a project's tasks.
func (s *Store) CyclesByProject(projectID int64) ([]Cycle, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.public_id, c.task_id, c.dt_start, c.dt_end, c.is_active,
		        c.created_by, c.modified_by, c.created_on, c.modified_on
		 FROM cycles c
		 JOIN tasks t ON t.id = c.task_id
		 WHERE t.project_id = ?`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("cycles by project: %w", err)
	}
	defer rows.Close()
	return collectCycles(rows)
}

// DeleteCycle hard-deletes the owner's cycle.
func (s *Store) DeleteCycle(owner int64, publicID string) error {
	res, err := s.db.Exec(
		`DELETE FROM cycles WHERE public_id = ? AND created_by = ?`, publicID, owner,
	)
	if err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectCycles(rows *sql.Rows) ([]Cycle, error) {
	var cycles []Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, *c)
	}
	return cycles, rows.Err()
}

func scanCycle(row rowScanner) (*Cycle, error) {
	c := &Cycle{}
	var active int
	var start, createdOn, modifiedOn string
	var end sql.NullString
	err := row.Scan(&c.ID, &c.PublicID, &c.TaskID, &start, &end, &active,
		&c.CreatedBy, &c.ModifiedBy, &createdOn, &modifiedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan cycle: %w", err)
	}
	c.Start = parseTime(start)
	c.End = parseNullTime(end)
	c.IsActive = active == 1
	c.CreatedOn = parseTime(createdOn)
	c.ModifiedOn = parseTime(modifiedOn)
	return c, nil
}
