package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/kremlin-meetings/internal/calendar"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
	"github.com/pfrederiksen/kremlin-meetings/internal/storage"
)

// Format specifies the output file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

// Columns selects the CSV column set
type Columns string

const (
	// ColumnsFull is title,date,time,place,participants
	ColumnsFull Columns = "full"
	// ColumnsCompact is date,title
	ColumnsCompact Columns = "compact"
)

// DefaultBaseName is the output file name without extension
const DefaultBaseName = "kremlin_meetings"

// CalendarName labels the ICS export
const CalendarName = "Kremlin meetings"

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'csv', 'json' or 'ics')", name)
	}
}

// ParseColumns validates a column set name
func ParseColumns(name string) (Columns, error) {
	c := Columns(strings.ToLower(strings.TrimSpace(name)))
	switch c {
	case "":
		return ColumnsFull, nil
	case ColumnsFull, ColumnsCompact:
		return c, nil
	default:
		return "", fmt.Errorf("invalid columns: %s (must be 'full' or 'compact')", name)
	}
}

// DefaultFileName returns the output file name for a format
func DefaultFileName(format Format) string {
	return DefaultBaseName + "." + string(format)
}

// Header returns the CSV header row
func (c Columns) Header() []string {
	if c == ColumnsCompact {
		return []string{"date", "title"}
	}
	return []string{"title", "date", "time", "place", "participants"}
}

// Row returns the CSV cells of one meeting
func (c Columns) Row(m *meeting.Meeting) []string {
	if c == ColumnsCompact {
		return []string{m.DateString(), m.Title}
	}
	return []string{m.Title, m.DateString(), m.TimeString(), m.Place, m.ParticipantList()}
}

// WriteError reports a failure to produce the output file
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer serializes meetings into a file in the storage directory
type Writer struct {
	store   *storage.Storage
	format  Format
	columns Columns
}

// NewWriter creates a new Writer
func NewWriter(store *storage.Storage, format Format, columns Columns) *Writer {
	if format == "" {
		format = FormatCSV
	}
	if columns == "" {
		columns = ColumnsFull
	}
	return &Writer{store: store, format: format, columns: columns}
}

// Write serializes meetings into name, replacing any previous file. An empty
// name uses DefaultFileName. It returns the written path.
func (w *Writer) Write(meetings []*meeting.Meeting, name string) (string, error) {
	if name == "" {
		name = DefaultFileName(w.format)
	}

	path, err := w.store.WriteAtomic(name, func(out io.Writer) error {
		return Encode(out, meetings, w.format, w.columns)
	})
	if err != nil {
		return "", &WriteError{Path: w.store.Path(name), Err: err}
	}
	return path, nil
}

// Encode writes meetings in the given format
func Encode(w io.Writer, meetings []*meeting.Meeting, format Format, columns Columns) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, meetings, columns)
	case FormatJSON:
		return WriteJSON(w, meetings)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateBulkICS(meetings, CalendarName))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteCSV writes a header row and one row per meeting
func WriteCSV(w io.Writer, meetings []*meeting.Meeting, columns Columns) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range meetings {
		if err := cw.Write(columns.Row(m)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonDocument is the JSON file layout
type jsonDocument struct {
	MeetingCount int                `json:"meeting_count"`
	Meetings     []*meeting.Meeting `json:"meetings"`
}

// WriteJSON outputs meetings as indented JSON
func WriteJSON(w io.Writer, meetings []*meeting.Meeting) error {
	if meetings == nil {
		meetings = []*meeting.Meeting{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonDocument{MeetingCount: len(meetings), Meetings: meetings})
}
