package store

import "time"

// User owns every other entity. The token is the bearer credential the API
// layer resolves to an owner id.
type User struct {
	ID         int64
	PublicID   string
	Username   string
	Token      string
	IsActive   bool
	CreatedOn  time.Time
	ModifiedOn time.Time
}

type Project struct {
	ID          int64
	PublicID    string
	Name        string
	Description string
	IsActive    bool
	CreatedBy   int64
	ModifiedBy  int64
	CreatedOn   time.Time
	ModifiedOn  time.Time
}

type Task struct {
	ID          int64
	PublicID    string
	ProjectID   int64
	Name        string
	Description string
	IsActive    bool
	CreatedBy   int64
	ModifiedBy  int64
	CreatedOn   time.Time
	ModifiedOn  time.Time
}

// Cycle is one tracked interval. End is nil while the cycle is running.
type Cycle struct {
	ID         int64
	PublicID   string
	TaskID     int64
	Start      time.Time
	End        *time.Time
	IsActive   bool
	CreatedBy  int64
	ModifiedBy int64
	CreatedOn  time.Time
	ModifiedOn time.Time
}

// ProjectUpdate carries the mutable project fields for a partial update.
// Nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// TaskUpdate carries the mutable task fields for a partial update.
type TaskUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CycleUpdate carries the mutable cycle fields for a partial update.
// ClearEnd reopens the cycle; it wins over End.
type CycleUpdate struct {
	Start    *time.Time
	End      *time.Time
	ClearEnd bool
	IsActive *bool
}

// RankingEntry is one row of the duration ranking.
type RankingEntry struct {
	Label   string
	Seconds int64
}

// OpenTask is a task with at least one running cycle.
type OpenTask struct {
	PublicID        string
	Name            string
	ProjectPublicID string
}

// LatestTask is a task ordered by its most recently modified cycle.
type LatestTask struct {
	PublicID        string
	Name            string
	ProjectPublicID string
	LastModifiedOn  time.Time
}

// ReportRow is one line of the cycle history export.
type ReportRow struct {
	CyclePublicID string
	Project       string
	Task          string
	Start         time.Time
	End           *time.Time
	Seconds       int64
}
