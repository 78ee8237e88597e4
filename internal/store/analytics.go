package store

import (
	"database/sql"
	"fmt"

	"github.com/lfortes/tasktime/internal/track"
)

// Analytics queries. All of them count only valid closed cycles
// (dt_end present and not before dt_start) under the owner's active
// projects and tasks; the cycle rows themselves must be active too.

// cycleSeconds is the SQL expression for a closed cycle's duration.
const cycleSeconds = `(strftime('%s', c.dt_end) - strftime('%s', c.dt_start))`

// TaskRanking returns the owner's top-5 tasks by total tracked seconds,
// descending. Ties break on ascending task id.
func (s *Store) TaskRanking(owner int64) ([]RankingEntry, error) {
	rows, err := s.db.Query(
		`SELECT t.name, SUM`+cycleSeconds+` AS total
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 JOIN cycles c ON c.task_id = t.id
		 WHERE t.created_by = ? AND t.is_active = 1 AND p.is_active = 1
		   AND c.created_by = ? AND c.is_active = 1
		   AND c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		 GROUP BY t.id
		 ORDER BY total DESC, t.id ASC
		 LIMIT 5`,
		owner, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("task ranking: %w", err)
	}
	defer rows.Close()
	return collectRanking(rows)
}

// ProjectRanking returns the owner's top-5 projects by total tracked
// seconds across their active tasks.
func (s *Store) ProjectRanking(owner int64) ([]RankingEntry, error) {
	rows, err := s.db.Query(
		`SELECT p.name, SUM`+cycleSeconds+` AS total
		 FROM projects p
		 JOIN tasks t ON t.project_id = p.id
		 JOIN cycles c ON c.task_id = t.id
		 WHERE p.created_by = ? AND p.is_active = 1
		   AND t.created_by = ? AND t.is_active = 1
		   AND c.created_by = ? AND c.is_active = 1
		   AND c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		 GROUP BY p.id
		 ORDER BY total DESC, p.id ASC
		 LIMIT 5`,
		owner, owner, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("project ranking: %w", err)
	}
	defer rows.Close()
	return collectRanking(rows)
}

func collectRanking(rows *sql.Rows) ([]RankingEntry, error) {
	var entries []RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(&e.Label, &e.Seconds); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// OpenTasks lists the owner's active tasks that have at least one active
// running cycle. No ordering is guaranteed.
func (s *Store) OpenTasks(owner int64) ([]OpenTask, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT t.public_id, t.name, p.public_id
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 JOIN cycles c ON c.task_id = t.id
		 WHERE t.created_by = ? AND t.is_active = 1 AND p.is_active = 1
		   AND c.created_by = ? AND c.is_active = 1 AND c.dt_end IS NULL`,
		owner, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []OpenTask
	for rows.Next() {
		var t OpenTask
		if err := rows.Scan(&t.PublicID, &t.Name, &t.ProjectPublicID); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// LatestTasks returns the owner's 5 active tasks with the most recently
// modified cycle, newest first. The ordering key is the cycle's
// modification timestamp, not the task's own.
func (s *Store) LatestTasks(owner int64) ([]LatestTask, error) {
	rows, err := s.db.Query(
		`SELECT t.public_id, t.name, p.public_id, MAX(c.modified_on) AS last_modified
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 JOIN cycles c ON c.task_id = t.id
		 WHERE t.created_by = ? AND t.is_active = 1 AND p.is_active = 1
		   AND c.created_by = ? AND c.is_active = 1
		 GROUP BY t.id
		 ORDER BY last_modified DESC
		 LIMIT 5`,
		owner, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("latest tasks: %w", err)
	}
	defer rows.Close()

	var tasks []LatestTask
	for rows.Next() {
		var t LatestTask
		var lastModified string
		if err := rows.Scan(&t.PublicID, &t.Name, &t.ProjectPublicID, &lastModified); err != nil {
			return nil, err
		}
		t.LastModifiedOn = parseTime(lastModified)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// HistogramEntries loads the owner's valid closed cycle rows for the
// period aggregator. Bucketing is done in memory by track.BuildHistogram.
func (s *Store) HistogramEntries(owner int64) ([]track.Entry, error) {
	rows, err := s.db.Query(
		`SELECT c.dt_start, `+cycleSeconds+`
		 FROM cycles c
		 JOIN tasks t ON t.id = c.task_id
		 JOIN projects p ON p.id = t.project_id
		 WHERE c.created_by = ? AND c.is_active = 1
		   AND c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		   AND t.is_active = 1 AND p.is_active = 1`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("histogram entries: %w", err)
	}
	defer rows.Close()

	var entries []track.Entry
	for rows.Next() {
		var start string
		var e track.Entry
		if err := rows.Scan(&start, &e.Seconds); err != nil {
			return nil, err
		}
		e.Start = parseTime(start)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TaskDurationTotals sums tracked seconds per task id over all of the
// owner's tasks. Open and invalid cycles contribute nothing, matching the
// in-memory duration model.
func (s *Store) TaskDurationTotals(owner int64) (map[int64]int64, error) {
	return s.durationTotals(
		`SELECT t.id, COALESCE(SUM`+cycleSeconds+`, 0)
		 FROM tasks t
		 JOIN cycles c ON c.task_id = t.id
		 WHERE t.created_by = ?
		   AND c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		 GROUP BY t.id`,
		owner,
	)
}

// ProjectDurationTotals sums tracked seconds per project id.
func (s *Store) ProjectDurationTotals(owner int64) (map[int64]int64, error) {
	return s.durationTotals(
		`SELECT p.id, COALESCE(SUM`+cycleSeconds+`, 0)
		 FROM projects p
		 JOIN tasks t ON t.project_id = p.id
		 JOIN cycles c ON c.task_id = t.id
		 WHERE p.created_by = ?
		   AND c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		 GROUP BY p.id`,
		owner,
	)
}

func (s *Store) durationTotals(query string, owner int64) (map[int64]int64, error) {
	rows, err := s.db.Query(query, owner)
	if err != nil {
		return nil, fmt.Errorf("duration totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int64)
	for rows.Next() {
		var id, secs int64
		if err := rows.Scan(&id, &secs); err != nil {
			return nil, err
		}
		totals[id] = secs
	}
	return totals, rows.Err()
}

// CycleReport returns the owner's active cycle history for export,
// newest start first. Open and invalid cycles report 0 seconds.
func (s *Store) CycleReport(owner int64) ([]ReportRow, error) {
	rows, err := s.db.Query(
		`SELECT c.public_id, p.name, t.name, c.dt_start, c.dt_end,
		        CASE WHEN c.dt_end IS NOT NULL AND c.dt_end >= c.dt_start
		             THEN `+cycleSeconds+` ELSE 0 END
		 FROM cycles c
		 JOIN tasks t ON t.id = c.task_id
		 JOIN projects p ON p.id = t.project_id
		 WHERE c.created_by = ? AND c.is_active = 1
		 ORDER BY c.dt_start DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("cycle report: %w", err)
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var r ReportRow
		var start string
		var end sql.NullString
		if err := rows.Scan(&r.CyclePublicID, &r.Project, &r.Task, &start, &end, &r.Seconds); err != nil {
			return nil, err
		}
		r.Start = parseTime(start)
		r.End = parseNullTime(end)
		report = append(report, r)
	}
	return report, rows.Err()
}
