package pipeline

import (
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

// StopReason records why pagination ended
type StopReason string

const (
	StopNone       StopReason = ""
	StopBoundary   StopReason = "boundary"
	StopEmpty      StopReason = "empty"
	StopLimit      StopReason = "limit"
	StopFetchError StopReason = "fetch_error"
	StopParseError StopReason = "parse_error"
)

// Accumulator collects meetings across pages in page-then-document order
type Accumulator struct {
	maxPages int
	meetings []*meeting.Meeting
}

// NewAccumulator creates an accumulator for at most maxPages pages
func NewAccumulator(maxPages int) *Accumulator {
	return &Accumulator{
		maxPages: maxPages,
		meetings: make([]*meeting.Meeting, 0),
	}
}

// Append adds meetings and returns the running total
func (a *Accumulator) Append(meetings []*meeting.Meeting) int {
	a.meetings = append(a.meetings, meetings...)
	return len(a.meetings)
}

// Len returns the number of collected meetings
func (a *Accumulator) Len() int {
	return len(a.meetings)
}

// ShouldStop decides whether to request the page after page. A fetch error
// always stops; otherwise the parsed result or the page limit does.
func (a *Accumulator) ShouldStop(page int, result *meeting.PageResult, fetchErr error) (bool, StopReason) {
	if fetchErr != nil {
		return true, StopFetchError
	}
	if result != nil && !result.Continue {
		if result.End == meeting.PageEndEmpty {
			return true, StopEmpty
		}
		return true, StopBoundary
	}
	if page+1 >= a.maxPages {
		return true, StopLimit
	}
	return false, StopNone
}

// Meetings returns a copy of the collected meetings
func (a *Accumulator) Meetings() []*meeting.Meeting {
	out := make([]*meeting.Meeting, len(a.meetings))
	copy(out, a.meetings)
	return out
}
