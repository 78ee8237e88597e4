package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lfortes/tasktime/internal/store"
	"github.com/lfortes/tasktime/internal/track"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Cycles     []jsonCycle `json:"cycles"`
}

type jsonCycle struct {
	PublicID    string `json:"public_id"`
	Project     string `json:"project"`
	Task        string `json:"task"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func WriteJSON(w io.Writer, report []store.ReportRow) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(report),
		Cycles:     []jsonCycle{},
	}

	for _, r := range report {
		endStr := ""
		if r.End != nil {
			endStr = r.End.UTC().Format(time.RFC3339)
		}
		export.Cycles = append(export.Cycles, jsonCycle{
			PublicID:    r.CyclePublicID,
			Project:     r.Project,
			Task:        r.Task,
			Start:       r.Start.UTC().Format(time.RFC3339),
			End:         endStr,
			DurationSec: r.Seconds,
			Duration:    track.FormatInterval(r.Seconds),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
