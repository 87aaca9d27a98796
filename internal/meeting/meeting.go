package meeting

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyTitle is returned when a meeting is built without a title.
var ErrEmptyTitle = errors.New("meeting title is empty")

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Participant is one person attending a meeting
type Participant struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// String renders the participant as "Name (Position)"
func (p Participant) String() string {
	if p.Position == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Position)
}

// Meeting represents one meeting entry scraped from a listing page
type Meeting struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Date         time.Time     `json:"date"`
	HasTime      bool          `json:"has_time"`
	Place        string        `json:"place,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	URL          string        `json:"url,omitempty"`
	Summary      string        `json:"summary,omitempty"`
}

// GenerateID creates a deterministic ID from the normalized title and calendar date
func GenerateID(title string, date time.Time) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(title), " "))

	h := sha1.New()
	h.Write([]byte(normalized + "|" + date.Format(DateLayout)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Meeting with its ID populated. Whitespace in the title and
// place is collapsed.
func New(title string, date time.Time, hasTime bool, place, url string) (*Meeting, error) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil, ErrEmptyTitle
	}

	return &Meeting{
		ID:      GenerateID(title, date),
		Title:   title,
		Date:    date,
		HasTime: hasTime,
		Place:   strings.Join(strings.Fields(place), " "),
		URL:     url,
	}, nil
}

// DateString returns the calendar date as YYYY-MM-DD
func (m *Meeting) DateString() string {
	return m.Date.Format(DateLayout)
}

// TimeString returns the clock time as HH:MM, or "" when the listing had none
func (m *Meeting) TimeString() string {
	if !m.HasTime {
		return ""
	}
	return m.Date.Format(TimeLayout)
}

// ParticipantList flattens participants into one "; "-separated string
func (m *Meeting) ParticipantList() string {
	parts := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}

// WithDetails returns a copy of the meeting carrying article-page details.
// Empty values keep what the listing already provided.
func (m *Meeting) WithDetails(place, summary string, participants []Participant) *Meeting {
	out := *m
	if place = strings.Join(strings.Fields(place), " "); place != "" {
		out.Place = place
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		out.Summary = summary
	}
	if len(participants) > 0 {
		out.Participants = append([]Participant(nil), participants...)
	}
	return &out
}
