package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(settings Settings) (*Breaker, *clock) {
	b := New("test", settings)
	c := &clock{t: time.Unix(1700000000, 0)}
	b.now = c.now
	return b, c
}

func fail() error    { return errDown }
func succeed() error { return nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	tests := []struct {
		name      string
		calls     []func() error
		wantState State
	}{
		{"successes stay closed", []func() error{succeed, succeed, succeed}, Closed},
		{"below threshold", []func() error{fail, fail}, Closed},
		{"success resets the run", []func() error{fail, fail, succeed, fail, fail}, Closed},
		{"threshold reached", []func() error{fail, fail, fail}, Open},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{Threshold: 3, Cooldown: time.Minute})
			for _, call := range tt.calls {
				b.Do(call)
			}
			assert.Equal(t, tt.wantState, b.State())
		})
	}
}

func TestBreakerFailsFastWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{Threshold: 1, Cooldown: time.Minute})
	require.ErrorIs(t, b.Do(fail), errDown)

	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerProbe(t *testing.T) {
	b, c := newTestBreaker(Settings{Threshold: 1, Cooldown: time.Minute})
	b.Do(fail)

	c.advance(time.Minute)
	assert.Equal(t, HalfOpen, b.State())

	// failed probe reopens for a full cooldown
	assert.ErrorIs(t, b.Do(fail), errDown)
	assert.Equal(t, Open, b.State())
	c.advance(30 * time.Second)
	assert.ErrorIs(t, b.Do(succeed), ErrOpen)

	c.advance(30 * time.Second)
	require.NoError(t, b.Do(succeed))
	assert.Equal(t, Closed, b.State())
	assert.Zero(t, b.Failures())
}

func TestBreakerSingleProbe(t *testing.T) {
	b, c := newTestBreaker(Settings{Threshold: 1, Cooldown: time.Second})
	b.Do(fail)
	c.advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- b.Do(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.ErrorIs(t, b.Do(succeed), ErrOpen)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Closed, b.State())
}

func TestBreakerIgnoresNonFailures(t *testing.T) {
	notFound := errors.New("not found")
	b, _ := newTestBreaker(Settings{
		Threshold: 1,
		IsFailure: func(err error) bool { return !errors.Is(err, notFound) },
	})

	assert.ErrorIs(t, b.Do(func() error { return notFound }), notFound)
	assert.Equal(t, Closed, b.State())
}

func TestBreakerStateChanges(t *testing.T) {
	var changes []string
	b, c := newTestBreaker(Settings{
		Threshold: 1,
		Cooldown:  time.Second,
		OnStateChange: func(name string, from, to State) {
			changes = append(changes, name+":"+from.String()+"->"+to.String())
		},
	})

	b.Do(fail)
	c.advance(time.Second)
	b.Do(succeed)

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, changes)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newTestBreaker(Settings{Threshold: 1})
	assert.Panics(t, func() {
		b.Do(func() error { panic("boom") })
	})
	assert.Equal(t, Open, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "unknown", State(9).String())
}
