// Package export renders cycle reports as CSV or JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

func WriteCSV(w io.Writer, report []store.ReportRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Header
	if err := cw.Write([]string{"Cycle", "Project", "Task", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, r := range report {
		endStr := ""
		if r.End != nil {
			endStr = r.End.UTC().Format(time.RFC3339)
		}
		row := []string{
			r.CyclePublicID,
			r.Project,
			r.Task,
			r.Start.UTC().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", r.Seconds),
			track.FormatInterval(r.Seconds),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
