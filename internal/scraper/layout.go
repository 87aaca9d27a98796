package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pagination selects how a page index becomes a listing URL
type Pagination int

const (
	// PaginateQuery appends ?page=N (English site)
	PaginateQuery Pagination = iota
	// PaginatePath appends /page/N, with the first page at the bare URL (Russian site)
	PaginatePath
)

// Layout holds every structural assumption about the site's markup.
// Selectors are goquery (CSS) selectors evaluated relative to an entry
// unless noted otherwise.
type Layout struct {
	Name           string
	Pagination     Pagination
	PageParam      string
	AcceptLanguage string

	// Listing page
	Entries string // relative to the document
	Title   string
	Date    string
	Place   string
	Link    string

	// Article and supplement pages, relative to the document
	ArticlePlace    string
	ArticleLead     string
	SupplementLinks string
	SupplementLines string
}

const (
	EnglishBaseURL = "http://en.kremlin.ru/events/president/news"
	RussianBaseURL = "http://kremlin.ru/events/president/news"
)

// EnglishLayout matches en.kremlin.ru
var EnglishLayout = Layout{
	Name:           "en",
	Pagination:     PaginateQuery,
	PageParam:      "page",
	AcceptLanguage: "en-US,en;q=0.5",

	Entries: "div.hentry, div.h-entry",
	Title:   "span.entry-title, span.p-name",
	Date:    "time.published, time.dt-published",
	Place:   "span.hentry__location, span.p-location",
	Link:    "a[href]",

	ArticlePlace:    "div.read__place, div.p-location",
	ArticleLead:     "div.read__lead, div.entry-summary",
	SupplementLinks: "a.cut__item[href*='/supplement/']",
	SupplementLines: "div.read__content p",
}

// RussianLayout matches kremlin.ru, which shares the markup but paginates by path
var RussianLayout = func() Layout {
	l := EnglishLayout
	l.Name = "ru"
	l.Pagination = PaginatePath
	l.AcceptLanguage = "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7"
	return l
}()

// LayoutFor returns the layout for a locale code ("en" or "ru")
func LayoutFor(locale string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "en":
		return EnglishLayout, nil
	case "ru":
		return RussianLayout, nil
	default:
		return Layout{}, fmt.Errorf("unknown locale: %s (must be 'en' or 'ru')", locale)
	}
}

// PageURL builds the listing URL for a zero-based page index.
// The site numbers its pages from 1.
func (l Layout) PageURL(base string, index int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	n := index + 1
	switch l.Pagination {
	case PaginatePath:
		if n > 1 {
			u.Path = strings.TrimRight(u.Path, "/") + "/page/" + strconv.Itoa(n)
		}
	default:
		param := l.PageParam
		if param == "" {
			param = "page"
		}
		q := u.Query()
		q.Set(param, strconv.Itoa(n))
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
