package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

const articleHTML = `<html><body>
<h1 class="entry-title p-name">Meeting with Security Council permanent members</h1>
<div class="read__place p-location">Novo-Ogaryovo,
	Moscow Region</div>
<div class="read__lead entry-summary p-summary">The President held an operational meeting.</div>
<div class="cut">
	<h3 class="cut__title">Supplements</h3>
	<a class="cut__item" href="/supplement/6201">List of participants</a>
	<a class="cut__item" href="/supplement/6201">List of participants</a>
	<a class="cut__item" href="/supplement/6202">Second list</a>
	<a class="cut__item" href="/events/president/news/1">Related</a>
</div>
</body></html>`

const supplementHTML = `<html><body><div class="read__content">
<p>Anton Vaino – Chief of Staff of the Presidential Executive Office</p>
<p>Sergei Lavrov – Foreign Minister;</p>
<p> </p>
<p>Dmitry Peskov</p>
</div></body></html>`

func TestEnricher_Enrich(t *testing.T) {
	supplementHits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/events/president/news/76601", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML)) // nolint:errcheck
	})
	mux.HandleFunc("/supplement/6201", func(w http.ResponseWriter, r *http.Request) {
		supplementHits++
		w.Write([]byte(supplementHTML)) // nolint:errcheck
	})
	mux.HandleFunc("/supplement/6202", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := New(Options{BaseURL: server.URL, Pacer: noDelay()})
	e := NewEnricher(f, EnglishLayout)

	orig, _ := meeting.New("Meeting with Security Council permanent members",
		time.Date(2025, 4, 1, 19, 0, 0, 0, time.UTC), true, "", server.URL+"/events/president/news/76601")

	got, err := e.Enrich(context.Background(), orig)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}

	if got.Place != "Novo-Ogaryovo, Moscow Region" {
		t.Errorf("Place = %q", got.Place)
	}
	if got.Summary != "The President held an operational meeting." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if supplementHits != 1 {
		t.Errorf("supplement fetched %d times, want 1 (duplicate links collapse)", supplementHits)
	}

	want := []meeting.Participant{
		{Name: "Anton Vaino", Position: "Chief of Staff of the Presidential Executive Office"},
		{Name: "Sergei Lavrov", Position: "Foreign Minister"},
		{Name: "Dmitry Peskov"},
	}
	if len(got.Participants) != len(want) {
		t.Fatalf("Participants = %v, want %v", got.Participants, want)
	}
	for i := range want {
		if got.Participants[i] != want[i] {
			t.Errorf("participant %d = %+v, want %+v", i, got.Participants[i], want[i])
		}
	}

	if orig.Place != "" || len(orig.Participants) != 0 {
		t.Error("Enrich() modified the original meeting")
	}
}

func TestEnricher_NoURL(t *testing.T) {
	e := NewEnricher(New(Options{Pacer: noDelay()}), EnglishLayout)
	m := &meeting.Meeting{Title: "Talks"}

	got, err := e.Enrich(context.Background(), m)
	if err != nil || got != m {
		t.Errorf("Enrich() = %v, %v, want the same meeting back", got, err)
	}
}

func TestEnricher_ArticleFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	e := NewEnricher(New(Options{BaseURL: server.URL, Pacer: noDelay()}), EnglishLayout)
	m := &meeting.Meeting{Title: "Talks", URL: server.URL + "/events/president/news/9"}

	got, err := e.Enrich(context.Background(), m)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Enrich() error = %v, want *FetchError", err)
	}
	if got != m {
		t.Error("Enrich() should return the original meeting on failure")
	}
}

func TestParseParticipant(t *testing.T) {
	tests := []struct {
		line   string
		want   meeting.Participant
		wantOK bool
	}{
		{"Anton Vaino – Chief of Staff", meeting.Participant{Name: "Anton Vaino", Position: "Chief of Staff"}, true},
		{"Sergei Shoigu — Secretary of the Security Council.", meeting.Participant{Name: "Sergei Shoigu", Position: "Secretary of the Security Council"}, true},
		{"Yury Ushakov - Presidential Aide", meeting.Participant{Name: "Yury Ushakov", Position: "Presidential Aide"}, true},
		{"Maxim Oreshkin, Deputy Chief of Staff", meeting.Participant{Name: "Maxim Oreshkin", Position: "Deputy Chief of Staff"}, true},
		{"Dmitry Peskov", meeting.Participant{Name: "Dmitry Peskov"}, true},
		{"  ", meeting.Participant{}, false},
		{" – orphan position", meeting.Participant{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseParticipant(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseParticipant(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseParticipant(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
