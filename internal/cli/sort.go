package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

// SortOrder represents the available sorting options for the report table
type SortOrder string

const (
	SortByPage  SortOrder = "page"
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(name string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(name))) {
	case "", SortByPage:
		return SortByPage, nil
	case SortByDate:
		return SortByDate, nil
	case SortByTitle:
		return SortByTitle, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'page', 'date' or 'title')", name)
	}
}

// sortMeetings returns the meetings in the requested order. Page order is the
// order they were scraped in and leaves the slice untouched.
func sortMeetings(meetings []*meeting.Meeting, order SortOrder) []*meeting.Meeting {
	out := make([]*meeting.Meeting, len(meetings))
	copy(out, meetings)

	switch order {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return compareByDate(out[i], out[j])
		})
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(out[i], out[j])
		})
	}
	return out
}

// compareByDate orders meetings oldest first; untimed meetings come before
// timed ones on the same day
func compareByDate(i, j *meeting.Meeting) bool {
	if !i.Date.Equal(j.Date) {
		return i.Date.Before(j.Date)
	}
	if i.HasTime != j.HasTime {
		return !i.HasTime
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
