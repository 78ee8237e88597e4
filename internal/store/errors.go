package store

import "errors"

var (
	// ErrNotFound is returned when a row doesn't exist or belongs to
	// another owner.
	ErrNotFound = errors.New("not found")

	// ErrStartOverlap is returned when a candidate cycle's start falls
	// inside another closed cycle of the same task.
	ErrStartOverlap = errors.New("start datetime already contained in another cycle interval")

	// ErrEndOverlap is the symmetric rejection for the candidate's end.
	ErrEndOverlap = errors.New("end datetime already contained in another cycle interval")
)
