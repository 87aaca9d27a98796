package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrPageOutOfRange is returned for page indexes outside [0, MaxPages)
	ErrPageOutOfRange = errors.New("page index out of range")
	// ErrDisallowed is returned when robots.txt forbids the URL
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// FetchError describes a failed listing or article request.
// Page is -1 for requests that are not listing pages.
type FetchError struct {
	Page       int
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	if e.URL == "" {
		return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("fetching page %d (%s): %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
