package scraper

import (
	"context"
	"net/http"

	"github.com/benjaminestes/robots/v2"
	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
)

// RobotsAgent is the product token matched against robots.txt groups
const RobotsAgent = "kremlin-meetings"

// RobotsGate answers whether a URL may be requested, reading robots.txt once per host
type RobotsGate struct {
	client  *http.Client
	agent   string
	testers map[string]func(string) bool
}

// NewRobotsGate creates a gate that fetches robots.txt with client
func NewRobotsGate(client *http.Client, agent string) *RobotsGate {
	if agent == "" {
		agent = RobotsAgent
	}
	return &RobotsGate{
		client:  client,
		agent:   agent,
		testers: make(map[string]func(string) bool),
	}
}

// Allowed reports whether rawURL may be fetched. A robots.txt that cannot be
// read is treated as a server error, which disallows everything on that host.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) bool {
	rtxtURL, err := robots.Locate(rawURL)
	if err != nil {
		return false
	}

	tester, ok := g.testers[rtxtURL]
	if !ok {
		tester = g.load(ctx, rtxtURL)
		g.testers[rtxtURL] = tester
	}
	return tester(rawURL)
}

func (g *RobotsGate) load(ctx context.Context, rtxtURL string) func(string) bool {
	unavailable := func() func(string) bool {
		rtxt, _ := robots.From(http.StatusServiceUnavailable, nil)
		return rtxt.Tester(g.agent)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rtxtURL, nil)
	if err != nil {
		return unavailable()
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Warn("robots.txt unavailable", logger.Fields{"url": rtxtURL, "error": err.Error()})
		return unavailable()
	}
	defer resp.Body.Close()

	rtxt, err := robots.From(resp.StatusCode, resp.Body)
	if err != nil {
		logger.Warn("robots.txt unreadable", logger.Fields{"url": rtxtURL, "status": resp.StatusCode})
		return unavailable()
	}

	logger.Debug("Loaded robots.txt", logger.Fields{"url": rtxtURL, "status": resp.StatusCode})
	return rtxt.Tester(g.agent)
}
