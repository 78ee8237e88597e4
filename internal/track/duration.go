// Package track holds the time-tracking domain rules: cycle duration math,
// interval formatting and the period histogram. Everything here is a pure
// function over already-loaded rows so it can be tested without a database.
package track

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval marks a cycle whose end precedes its start.
var ErrInvalidInterval = errors.New("end datetime must not be lesser than start datetime")

// Span is a cycle's time interval. A nil End means the cycle is still open.
type Span struct {
	Start time.Time
	End   *time.Time
}

// Open reports whether the span has no end yet.
func (s Span) Open() bool {
	return s.End == nil
}

// Seconds returns the elapsed whole seconds of the span.
// An open span has duration 0. A span with End before Start returns
// ErrInvalidInterval.
func (s Span) Seconds() (int64, error) {
	if s.End == nil {
		return 0, nil
	}
	if s.End.Before(s.Start) {
		return 0, ErrInvalidInterval
	}
	return int64(s.End.Sub(s.Start).Seconds()), nil
}

// SumSeconds totals the durations of all closed, valid spans.
// Open and invalid spans contribute nothing; they never abort the sum.
func SumSeconds(spans []Span) int64 {
	var total int64
	for _, s := range spans {
		secs, err := s.Seconds()
		if err != nil {
			continue
		}
		total += secs
	}
	return total
}

// FormatInterval renders a total-seconds value as zero-padded HH:MM:SS.
// Hours are not wrapped at 24.
func FormatInterval(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
