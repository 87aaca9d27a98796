package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
	"github.com/pfrederiksen/kremlin-meetings/internal/output"
	"github.com/pfrederiksen/kremlin-meetings/internal/pipeline"
)

// ReportFormat specifies how the run is reported on stdout
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// Report contains data to be output after a run
type Report struct {
	RunID      string                 `json:"run_id"`
	Pages      int                    `json:"pages"`
	Records    int                    `json:"records"`
	Skipped    int                    `json:"skipped"`
	Excluded   int                    `json:"excluded"`
	Enriched   int                    `json:"enriched,omitempty"`
	StopReason string                 `json:"stop_reason"`
	State      string                 `json:"state"`
	Error      string                 `json:"error,omitempty"`
	Duration   string                 `json:"duration"`
	OutputPath string                 `json:"output_path"`
	Metrics    map[string]interface{} `json:"metrics,omitempty"`
	Meetings   []*meeting.Meeting     `json:"-"`
}

// newReport builds a report from a pipeline summary
func newReport(s *pipeline.Summary) *Report {
	r := &Report{
		RunID:      s.RunID,
		Pages:      s.Pages,
		Records:    s.Records,
		Skipped:    s.Skipped,
		Excluded:   s.Excluded,
		Enriched:   s.Enriched,
		StopReason: string(s.Reason),
		State:      string(s.State),
		Duration:   s.Duration.Round(time.Millisecond).String(),
		OutputPath: s.OutputPath,
		Metrics:    s.Metrics,
		Meetings:   s.Meetings,
	}
	if s.Err != nil {
		r.Error = s.Err.Error()
	}
	return r
}

// WriteReport writes the report in the specified format. Text reports show
// up to tableRows meetings in a table; zero hides the table.
func WriteReport(w io.Writer, report *Report, format ReportFormat, tableRows int) error {
	switch format {
	case ReportJSON:
		return writeJSON(w, report)
	case ReportText:
		return writeText(w, report, tableRows)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

// writeJSON outputs the run summary as JSON
func writeJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// writeText outputs the run as human-readable text
func writeText(w io.Writer, report *Report, tableRows int) error {
	if tableRows > 0 {
		if err := output.RenderTable(w, report.Meetings, tableRows); err != nil {
			return err
		}
	}

	if err := output.WriteSummary(w, report.Meetings); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Pages: %d, skipped: %d, excluded: %d (stopped: %s)\n",
		report.Pages, report.Skipped, report.Excluded, report.StopReason); err != nil {
		return err
	}
	if report.Error != "" {
		if _, err := fmt.Fprintf(w, "Stopped early: %s\n", report.Error); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Saved to %s\n", report.OutputPath)
	return err
}
