package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

// URLFetcher retrieves a single page by URL
type URLFetcher interface {
	FetchURL(ctx context.Context, rawURL string) (string, error)
}

// participantSeparators split a supplement line into name and position,
// in order of preference
var participantSeparators = []string{" – ", " — ", " - ", ", "}

// Enricher follows a meeting to its article page for the place and lead,
// and to any supplement pages for the participant list
type Enricher struct {
	fetcher URLFetcher
	layout  Layout
}

// NewEnricher creates an enricher
func NewEnricher(fetcher URLFetcher, layout Layout) *Enricher {
	return &Enricher{fetcher: fetcher, layout: layout}
}

// Enrich returns a copy of m with article details filled in. Meetings without
// a URL are returned unchanged. A failing supplement page is logged and skipped.
func (e *Enricher) Enrich(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	if m.URL == "" {
		return m, nil
	}

	html, err := e.fetcher.FetchURL(ctx, m.URL)
	if err != nil {
		return m, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return m, fmt.Errorf("parsing article: %w", err)
	}

	place := collapse(doc.Find(e.layout.ArticlePlace).First().Text())
	lead := collapse(doc.Find(e.layout.ArticleLead).First().Text())

	var participants []meeting.Participant
	for _, link := range e.supplementLinks(doc, m.URL) {
		found, err := e.supplementParticipants(ctx, link)
		if err != nil {
			logger.Warn("Skipping supplement", logger.Fields{
				"meeting":    m.ID,
				"supplement": link,
				"error":      err.Error(),
			})
			continue
		}
		participants = append(participants, found...)
	}

	logger.Debug("Enriched meeting", logger.Fields{
		"meeting":      m.ID,
		"place":        place,
		"participants": len(participants),
	})

	return m.WithDetails(place, lead, participants), nil
}

func (e *Enricher) supplementLinks(doc *goquery.Document, articleURL string) []string {
	base, err := url.Parse(articleURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	doc.Find(e.layout.SupplementLinks).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links
}

func (e *Enricher) supplementParticipants(ctx context.Context, link string) ([]meeting.Participant, error) {
	html, err := e.fetcher.FetchURL(ctx, link)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing supplement: %w", err)
	}

	participants := make([]meeting.Participant, 0)
	doc.Find(e.layout.SupplementLines).Each(func(i int, sel *goquery.Selection) {
		if p, ok := ParseParticipant(sel.Text()); ok {
			participants = append(participants, p)
		}
	})
	return participants, nil
}

// ParseParticipant splits a line such as "Anton Vaino – Chief of Staff" into
// name and position. Lines without a separator are taken as a bare name.
func ParseParticipant(line string) (meeting.Participant, bool) {
	line = collapse(line)
	if line == "" || strings.HasPrefix(line, "–") || strings.HasPrefix(line, "—") || strings.HasPrefix(line, "-") {
		return meeting.Participant{}, false
	}

	for _, sep := range participantSeparators {
		if i := strings.Index(line, sep); i >= 0 {
			name := strings.TrimSpace(line[:i])
			position := strings.TrimRight(strings.TrimSpace(line[i+len(sep):]), ";.")
			if name == "" {
				return meeting.Participant{}, false
			}
			return meeting.Participant{Name: name, Position: position}, true
		}
	}

	return meeting.Participant{Name: strings.TrimRight(line, ";.")}, true
}
