package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/kremlin-meetings/internal/filter"
	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

// Parser extracts meetings from listing pages
type Parser struct {
	layout   Layout
	filter   *filter.Filter
	boundary time.Time
	base     *url.URL
}

// NewParser creates a parser. Entries dated before boundary end pagination;
// relative links are resolved against baseURL. A nil filter keeps every title.
func NewParser(layout Layout, f *filter.Filter, boundary time.Time, baseURL string) *Parser {
	if f == nil {
		f = filter.New(nil, nil)
	}
	base, _ := url.Parse(baseURL)
	return &Parser{
		layout:   layout,
		filter:   f,
		boundary: boundary,
		base:     base,
	}
}

// Boundary returns the earliest date a kept meeting may carry
func (p *Parser) Boundary() time.Time {
	return p.boundary
}

// Parse extracts the meetings of one listing page. Entries are expected in
// descending date order: the first entry before the boundary halts the page
// and the returned result has Continue set to false.
func (p *Parser) Parse(page int, r io.Reader) (*meeting.PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	result := &meeting.PageResult{
		Page:     page,
		Meetings: make([]*meeting.Meeting, 0),
		Continue: true,
	}

	entries := doc.Find(p.layout.Entries)
	result.Entries = entries.Length()
	if result.Entries == 0 {
		logger.Info("No entries on page", logger.Fields{"page": page})
		result.Continue = false
		result.End = meeting.PageEndEmpty
		return result, nil
	}

	// Nested entry markup matches twice
	seen := make(entrySet)
	loc := p.boundary.Location()

	entries.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		fields := logger.Fields{"page": page, "entry": i}

		title := p.entryTitle(sel)
		if title == "" {
			result.Skipped++
			logger.Warn("Skipping entry without title", fields)
			return true
		}
		fields["title"] = title

		dateSel := sel.Find(p.layout.Date).First()
		attr, _ := dateSel.Attr("datetime")
		rawDate := collapse(dateSel.Text())
		date, hasTime, err := meeting.ResolveDate(attr, rawDate, loc)
		if err != nil {
			result.Skipped++
			fields["raw_date"] = rawDate
			logger.Warn("Skipping entry with unparsable date", fields)
			return true
		}
		fields["date"] = date.Format(meeting.DateLayout)

		if !meeting.InRange(date, p.boundary) {
			result.Continue = false
			result.End = meeting.PageEndBoundary
			fields["boundary"] = p.boundary.Format(meeting.DateLayout)
			logger.Info("Reached range boundary", fields)
			return false
		}

		if keyword, excluded := p.filter.Excluded(title); excluded {
			result.Excluded++
			fields["keyword"] = keyword
			logger.Info("Excluding entry", fields)
			return true
		}
		if !p.filter.Included(title) {
			result.Excluded++
			logger.Info("Excluding entry outside include list", fields)
			return true
		}

		m, err := meeting.New(title, date, hasTime, p.entryPlace(sel), p.entryLink(sel))
		if err != nil {
			result.Skipped++
			logger.Warn("Skipping invalid entry", fields)
			return true
		}
		if !seen.add(m) {
			logger.Debug("Dropping duplicate entry", fields)
			return true
		}

		result.Meetings = append(result.Meetings, m)
		logger.Debug("Found entry", fields)
		return true
	})

	return result, nil
}

// entrySet tracks the links seen per meeting ID on one page. Entries sharing
// an ID are the same entry unless both carry different links.
type entrySet map[string]map[string]bool

func (s entrySet) add(m *meeting.Meeting) bool {
	links, ok := s[m.ID]
	if !ok {
		s[m.ID] = map[string]bool{m.URL: true}
		return true
	}
	if m.URL == "" || links[m.URL] || links[""] {
		return false
	}
	links[m.URL] = true
	return true
}

// ParseString is Parse for an in-memory document
func (p *Parser) ParseString(page int, html string) (*meeting.PageResult, error) {
	return p.Parse(page, strings.NewReader(html))
}

func (p *Parser) entryTitle(sel *goquery.Selection) string {
	if title := collapse(sel.Find(p.layout.Title).First().Text()); title != "" {
		return title
	}
	return collapse(sel.Find(p.layout.Link).First().Text())
}

func (p *Parser) entryPlace(sel *goquery.Selection) string {
	if p.layout.Place == "" {
		return ""
	}
	return collapse(sel.Find(p.layout.Place).First().Text())
}

func (p *Parser) entryLink(sel *goquery.Selection) string {
	href, ok := sel.Find(p.layout.Link).First().Attr("href")
	if !ok {
		return ""
	}
	return p.resolve(href)
}

func (p *Parser) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if p.base == nil {
		return ref.String()
	}
	return p.base.ResolveReference(ref).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
