package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
)

const (
	DefaultMaxPages = 13
	Timeout         = 30 * time.Second
	DefaultDelayMin = 1 * time.Second
	DefaultDelayMax = 3 * time.Second

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// Options configures a Fetcher. Zero values take the defaults above.
type Options struct {
	BaseURL       string
	Layout        Layout
	MaxPages      int
	Timeout       time.Duration
	UserAgents    []string
	DelayMin      time.Duration
	DelayMax      time.Duration
	RespectRobots bool

	// Client and Pacer replace the defaults when set
	Client *http.Client
	Pacer  *Pacer
}

// Fetcher retrieves listing and article pages one request at a time
type Fetcher struct {
	client   *http.Client
	url      string
	layout   Layout
	maxPages int
	agents   *UserAgentPool
	pacer    *Pacer
	robots   *RobotsGate
}

// New creates a new Fetcher
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = Timeout
		}
		client = &http.Client{Timeout: timeout}
	}

	layout := opts.Layout
	if layout.Entries == "" {
		layout = EnglishLayout
	}

	base := opts.BaseURL
	if base == "" {
		base = EnglishBaseURL
		if layout.Name == RussianLayout.Name {
			base = RussianBaseURL
		}
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	pacer := opts.Pacer
	if pacer == nil {
		min, max := opts.DelayMin, opts.DelayMax
		if min == 0 && max == 0 {
			min, max = DefaultDelayMin, DefaultDelayMax
		}
		pacer = NewPacer(min, max, nil)
	}

	f := &Fetcher{
		client:   client,
		url:      base,
		layout:   layout,
		maxPages: maxPages,
		agents:   NewUserAgentPool(opts.UserAgents),
		pacer:    pacer,
	}
	if opts.RespectRobots {
		f.robots = NewRobotsGate(client, RobotsAgent)
	}
	return f
}

// BaseURL returns the listing URL pages are built from
func (f *Fetcher) BaseURL() string {
	return f.url
}

// Fetch retrieves the listing page with the given zero-based index
func (f *Fetcher) Fetch(ctx context.Context, page int) (string, error) {
	if page < 0 || page >= f.maxPages {
		return "", &FetchError{Page: page, Err: ErrPageOutOfRange}
	}

	pageURL, err := f.layout.PageURL(f.url, page)
	if err != nil {
		return "", &FetchError{Page: page, Err: err}
	}

	body, status, err := f.get(ctx, pageURL, logger.Fields{"page": page})
	if err != nil {
		return "", &FetchError{Page: page, URL: pageURL, StatusCode: status, Err: err}
	}
	return body, nil
}

// FetchURL retrieves an arbitrary page (articles, supplements) with the same
// pacing and headers as listing pages
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (string, error) {
	body, status, err := f.get(ctx, rawURL, logger.Fields{})
	if err != nil {
		return "", &FetchError{Page: -1, URL: rawURL, StatusCode: status, Err: err}
	}
	return body, nil
}

// get performs one paced GET and returns the body of a 2xx response
func (f *Fetcher) get(ctx context.Context, rawURL string, fields logger.Fields) (string, int, error) {
	fields["url"] = rawURL

	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		logger.Warn("Skipping URL disallowed by robots.txt", fields)
		logger.IncrCounter("fetch.disallowed")
		return "", 0, ErrDisallowed
	}

	delay, err := f.pacer.Wait(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("waiting before request: %w", err)
	}

	agent := f.agents.Next()
	fields["user_agent"] = agent
	fields["delay"] = delay.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", agent)
	req.Header.Set("Accept", acceptHeader)
	if f.layout.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.layout.AcceptLanguage)
	}

	logger.IncrCounter("fetch.attempts")
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		logger.Error("Request failed", fields, err)
		return "", 0, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.IncrCounter("fetch.failures")
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		logger.Error("Request failed", fields, err)
		return "", resp.StatusCode, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		logger.Error("Reading response failed", fields, err)
		return "", resp.StatusCode, fmt.Errorf("reading body: %w", err)
	}

	elapsed := time.Since(start)
	logger.RecordTiming("fetch.duration", elapsed)
	fields["bytes"] = len(data)
	fields["duration"] = elapsed.String()
	logger.Info("Fetched page", fields)

	return string(data), resp.StatusCode, nil
}
