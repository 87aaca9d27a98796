package scraper

import (
	"context"
	"math/rand"
	"time"
)

// DefaultUserAgents is the rotation pool used when none is configured
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// UserAgentPool hands out User-Agent strings round-robin
type UserAgentPool struct {
	agents []string
	next   int
}

// NewUserAgentPool creates a pool; an empty list falls back to DefaultUserAgents
func NewUserAgentPool(agents []string) *UserAgentPool {
	pool := make([]string, 0, len(agents))
	for _, a := range agents {
		if a != "" {
			pool = append(pool, a)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, DefaultUserAgents...)
	}
	return &UserAgentPool{agents: pool}
}

// Next returns the next agent in the rotation
func (p *UserAgentPool) Next() string {
	agent := p.agents[p.next%len(p.agents)]
	p.next++
	return agent
}

// Len returns the pool size
func (p *UserAgentPool) Len() int {
	return len(p.agents)
}

// Pacer waits a random duration in [min, max] before each request
type Pacer struct {
	min   time.Duration
	max   time.Duration
	rnd   *rand.Rand
	sleep func(context.Context, time.Duration) error
}

// NewPacer creates a pacer. A nil source seeds from the clock.
func NewPacer(min, max time.Duration, src rand.Source) *Pacer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if max < min {
		max = min
	}
	return &Pacer{
		min:   min,
		max:   max,
		rnd:   rand.New(src),
		sleep: sleepContext,
	}
}

// Next returns the next delay without sleeping
func (p *Pacer) Next() time.Duration {
	if p.max <= p.min {
		return p.min
	}
	return p.min + time.Duration(p.rnd.Int63n(int64(p.max-p.min)+1))
}

// Wait sleeps for the next delay, returning early if ctx is cancelled
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	d := p.Next()
	return d, p.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
