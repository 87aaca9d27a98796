package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

// PageFetcher returns the HTML of one listing page
type PageFetcher interface {
	Fetch(ctx context.Context, page int) (string, error)
}

// PageParser extracts the meetings of one listing page
type PageParser interface {
	ParseString(page int, html string) (*meeting.PageResult, error)
}

// MeetingEnricher adds article details to a meeting
type MeetingEnricher interface {
	Enrich(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error)
}

// MeetingWriter persists the collected meetings and returns the written path
type MeetingWriter interface {
	Write(meetings []*meeting.Meeting, name string) (string, error)
}

// State is the driver's position in its run
type State string

const (
	StateRunning         State = "running"
	StateStoppedNormally State = "stopped"
	StateStoppedOnError  State = "stopped_on_error"
)

// Summary describes a finished run
type Summary struct {
	RunID      string                 `json:"run_id"`
	Pages      int                    `json:"pages"`
	Records    int                    `json:"records"`
	Skipped    int                    `json:"skipped"`
	Excluded   int                    `json:"excluded"`
	Enriched   int                    `json:"enriched,omitempty"`
	Reason     StopReason             `json:"reason"`
	State      State                  `json:"state"`
	Err        error                  `json:"-"`
	Duration   time.Duration          `json:"duration"`
	OutputPath string                 `json:"output_path,omitempty"`
	Metrics    map[string]interface{} `json:"metrics,omitempty"`
	Meetings   []*meeting.Meeting     `json:"-"`
}

// Config wires the driver's collaborators. Enricher is optional.
type Config struct {
	Fetcher    PageFetcher
	Parser     PageParser
	Enricher   MeetingEnricher
	Writer     MeetingWriter
	OutputName string
	MaxPages   int
}

// Driver runs the scrape loop
type Driver struct {
	fetcher    PageFetcher
	parser     PageParser
	enricher   MeetingEnricher
	writer     MeetingWriter
	outputName string
	maxPages   int
}

// New creates a driver. A non-positive MaxPages means one page.
func New(cfg Config) *Driver {
	maxPages := cfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	return &Driver{
		fetcher:    cfg.Fetcher,
		parser:     cfg.Parser,
		enricher:   cfg.Enricher,
		writer:     cfg.Writer,
		outputName: cfg.OutputName,
		maxPages:   maxPages,
	}
}

// Run fetches pages until a stop condition and writes what was collected.
// The returned error is non-nil only when writing fails; the summary is
// returned in every case.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID: uuid.New().String(),
		State: StateRunning,
	}
	log := logger.Default().With(logger.Fields{"run_id": summary.RunID})
	log.Info("Starting scrape", logger.Fields{"max_pages": d.maxPages})

	acc := NewAccumulator(d.maxPages)

	for page := 0; summary.State == StateRunning; page++ {
		html, err := d.fetcher.Fetch(ctx, page)
		if err != nil {
			log.Error("Fetch failed, stopping", logger.Fields{"page": page}, err)
			logger.IncrCounter("pipeline.fetch_errors")
			_, summary.Reason = acc.ShouldStop(page, nil, err)
			summary.State = StateStoppedOnError
			summary.Err = err
			break
		}
		summary.Pages++
		logger.IncrCounter("pipeline.pages")

		result, err := d.parser.ParseString(page, html)
		if err != nil {
			log.Error("Parse failed, stopping", logger.Fields{"page": page}, err)
			summary.Reason = StopParseError
			summary.State = StateStoppedOnError
			summary.Err = err
			break
		}
		summary.Skipped += result.Skipped
		summary.Excluded += result.Excluded

		kept := d.enrich(ctx, log, result.Meetings, summary)
		total := acc.Append(kept)

		log.Info("Processed page", logger.Fields{
			"page":     page,
			"entries":  result.Entries,
			"kept":     len(kept),
			"skipped":  result.Skipped,
			"excluded": result.Excluded,
			"total":    total,
		})

		if stop, reason := acc.ShouldStop(page, result, nil); stop {
			summary.Reason = reason
			summary.State = StateStoppedNormally
		}
	}

	summary.Meetings = acc.Meetings()
	summary.Records = len(summary.Meetings)
	logger.SetGauge("pipeline.records", float64(summary.Records))

	path, err := d.writer.Write(summary.Meetings, d.outputName)
	summary.Duration = time.Since(start)
	logger.RecordTiming("pipeline.duration", summary.Duration)
	if err != nil {
		summary.Metrics = logger.GetMetricsSnapshot()
		log.Error("Failed to write output", logger.Fields{"records": summary.Records}, err)
		return summary, err
	}
	summary.OutputPath = path
	summary.Metrics = logger.GetMetricsSnapshot()

	log.Info("Scrape finished", logger.Fields{
		"pages":    summary.Pages,
		"records":  summary.Records,
		"reason":   string(summary.Reason),
		"state":    string(summary.State),
		"output":   path,
		"duration": summary.Duration.String(),
		"metrics":  summary.Metrics,
	})

	return summary, nil
}

// enrich returns the page's meetings with article details where available.
// A failed enrichment keeps the listing record.
func (d *Driver) enrich(ctx context.Context, log *logger.Logger, meetings []*meeting.Meeting, summary *Summary) []*meeting.Meeting {
	if d.enricher == nil {
		return meetings
	}

	out := make([]*meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		enriched, err := d.enricher.Enrich(ctx, m)
		if err != nil {
			log.Warn("Keeping meeting without details", logger.Fields{
				"meeting": m.ID,
				"title":   m.Title,
				"error":   err.Error(),
			})
			logger.IncrCounter("pipeline.enrich_failures")
			out = append(out, m)
			continue
		}
		summary.Enriched++
		out = append(out, enriched)
	}
	return out
}

// String renders the summary as a short status line
func (s *Summary) String() string {
	var b strings.Builder
	b.WriteString(string(s.State))
	if s.Reason != StopNone {
		b.WriteString(" (" + string(s.Reason) + ")")
	}
	return b.String()
}
