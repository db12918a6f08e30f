package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortWait(t *testing.T, m *MultiLimiter, name string) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	return m.Wait(ctx, name)
}

func TestUnknownLimiter(t *testing.T) {
	err := NewMultiLimiter().Wait(t.Context(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestNewLimiterRegistersEveryService(t *testing.T) {
	m := NewLimiter(Limits{})

	for _, name := range []string{LimiterAnthropic, LimiterImage, LimiterScrape, LimiterSlack, LimiterRSS} {
		assert.NoError(t, shortWait(t, m, name), name)
	}
}

func TestBurst(t *testing.T) {
	m := NewLimiter(Limits{ImagePerMinute: 1})

	assert.NoError(t, shortWait(t, m, LimiterImage))
	assert.Error(t, shortWait(t, m, LimiterImage))

	for i := 0; i < 3; i++ {
		assert.NoError(t, shortWait(t, m, LimiterSlack))
	}
	assert.Error(t, shortWait(t, m, LimiterSlack))
}

func TestWaitHonoursContext(t *testing.T) {
	m := NewMultiLimiter()
	m.AddLimiter("slow", 1.0/3600, 1)
	require.NoError(t, m.Wait(t.Context(), "slow"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.Error(t, m.Wait(ctx, "slow"))
}

func TestPerMinute(t *testing.T) {
	assert.InDelta(t, 0.5, perMinute(30, 10), 1e-9)
	assert.InDelta(t, 10.0/60, perMinute(0, 10), 1e-9)
	assert.InDelta(t, 10.0/60, perMinute(-5, 10), 1e-9)
}
