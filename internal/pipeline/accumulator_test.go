package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

func mustMeeting(t *testing.T, title string, date time.Time) *meeting.Meeting {
	t.Helper()
	m, err := meeting.New(title, date, false, "", "")
	if err != nil {
		t.Fatalf("meeting.New(%q) error: %v", title, err)
	}
	return m
}

func TestAccumulator_Append(t *testing.T) {
	acc := NewAccumulator(13)
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	if got := acc.Append([]*meeting.Meeting{mustMeeting(t, "A", day), mustMeeting(t, "B", day)}); got != 2 {
		t.Errorf("Append() = %d, want 2", got)
	}
	if got := acc.Append(nil); got != 2 {
		t.Errorf("Append(nil) = %d, want 2", got)
	}
	if got := acc.Append([]*meeting.Meeting{mustMeeting(t, "C", day)}); got != 3 {
		t.Errorf("Append() = %d, want 3", got)
	}

	meetings := acc.Meetings()
	for i, want := range []string{"A", "B", "C"} {
		if meetings[i].Title != want {
			t.Errorf("Meetings()[%d] = %q, want %q", i, meetings[i].Title, want)
		}
	}

	meetings[0] = nil
	if acc.Meetings()[0] == nil {
		t.Error("Meetings() should return a copy")
	}
}

func TestAccumulator_ShouldStop(t *testing.T) {
	acc := NewAccumulator(13)

	tests := []struct {
		name       string
		page       int
		result     *meeting.PageResult
		err        error
		wantStop   bool
		wantReason StopReason
	}{
		{"continue", 0, &meeting.PageResult{Continue: true}, nil, false, StopNone},
		{"fetch error", 3, nil, errors.New("boom"), true, StopFetchError},
		{"boundary", 2, &meeting.PageResult{End: meeting.PageEndBoundary}, nil, true, StopBoundary},
		{"empty page", 5, &meeting.PageResult{End: meeting.PageEndEmpty}, nil, true, StopEmpty},
		{"last page", 12, &meeting.PageResult{Continue: true}, nil, true, StopLimit},
		{"boundary on last page", 12, &meeting.PageResult{End: meeting.PageEndBoundary}, nil, true, StopBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop, reason := acc.ShouldStop(tt.page, tt.result, tt.err)
			if stop != tt.wantStop || reason != tt.wantReason {
				t.Errorf("ShouldStop() = %v, %q, want %v, %q", stop, reason, tt.wantStop, tt.wantReason)
			}
		})
	}
}
