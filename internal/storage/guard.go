package storage

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/resilience"
)

// BreakerOptions guards remote backends. A zero Threshold disables the guard.
type BreakerOptions struct {
	Threshold     int
	Cooldown      time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

// Guarded routes a backend's calls through a circuit breaker. Missing keys,
// bad keys and cancelled contexts are not held against the backend.
type Guarded struct {
	backend Backend
	breaker *resilience.Breaker
}

// Guard wraps backend with a breaker built from opts.
func Guard(backend Backend, opts BreakerOptions) *Guarded {
	return &Guarded{
		backend: backend,
		breaker: resilience.New(backendName(backend), resilience.Settings{
			Threshold:     opts.Threshold,
			Cooldown:      opts.Cooldown,
			IsFailure:     countsAgainstBackend,
			OnStateChange: opts.OnStateChange,
		}),
	}
}

func countsAgainstBackend(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidKey),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func (g *Guarded) Name() string { return backendName(g.backend) }

// Breaker exposes the breaker for health reporting.
func (g *Guarded) Breaker() *resilience.Breaker { return g.breaker }

// Unwrap returns the guarded backend.
func (g *Guarded) Unwrap() Backend { return g.backend }

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := g.breaker.Do(func() error {
		var err error
		data, err = g.backend.Get(ctx, key)
		return err
	})
	return data, err
}

func (g *Guarded) Put(ctx context.Context, key string, data []byte) error {
	return g.breaker.Do(func() error {
		return g.backend.Put(ctx, key, data)
	})
}

func (g *Guarded) Close() error {
	return g.backend.Close()
}
