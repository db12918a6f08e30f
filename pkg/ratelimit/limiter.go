package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages multiple rate limiters for different services
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates a new multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AddLimiter adds a new rate limiter for a service
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(name string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter allows an event
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("limiter %s not found", name)
	}

	return limiter.Wait(ctx)
}

// Default rate limiter names
const (
	LimiterAnthropic = "anthropic"
	LimiterImage     = "image"
	LimiterScrape    = "scrape"
	LimiterSlack     = "slack"
	LimiterRSS       = "rss"
)

// Limits holds per-service request budgets
type Limits struct {
	AnthropicPerMinute int
	ImagePerMinute     int
	ScrapePerMinute    int
}

// NewLimiter creates a limiter for every outbound service.
// Zero or negative budgets fall back to the defaults.
func NewLimiter(l Limits) *MultiLimiter {
	m := NewMultiLimiter()

	// Anthropic: 10 requests per minute by default, burst 2
	m.AddLimiter(LimiterAnthropic, perMinute(l.AnthropicPerMinute, 10), 2)

	// Image backends are slow and metered, burst 1
	m.AddLimiter(LimiterImage, perMinute(l.ImagePerMinute, 5), 1)

	// Scrape targets: be polite, burst 5
	m.AddLimiter(LimiterScrape, perMinute(l.ScrapePerMinute, 30), 5)

	// Slack chat.postMessage tier: ~1 per second per channel
	m.AddLimiter(LimiterSlack, 1, 3)

	// RSS: No strict limit, but be polite - 1 per second, burst 10
	m.AddLimiter(LimiterRSS, 1, 10)

	return m
}

func perMinute(n, fallback int) float64 {
	if n <= 0 {
		n = fallback
	}
	return float64(n) / 60
}
