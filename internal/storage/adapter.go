package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultKey is the fixed key the workspace tree lives under.
const DefaultKey = "codecraft-projects"

// Adapter binds one backend and one key into the load/save contract the
// workspace uses. Load never fails: missing or unreadable data is reported
// as absent. Save returns its error for accounting, but callers treat it
// as advisory.
type Adapter struct {
	backend  Backend
	key      string
	compress bool
	logger   *zap.Logger
}

// AdapterOption customizes an Adapter.
type AdapterOption func(*Adapter)

// WithCompression enables zstd compression of saved blobs.
func WithCompression(enabled bool) AdapterOption {
	return func(a *Adapter) { a.compress = enabled }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *zap.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter creates an adapter over backend. An empty key selects DefaultKey.
func NewAdapter(backend Backend, key string, opts ...AdapterOption) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	a := &Adapter{
		backend: backend,
		key:     key,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Backend returns the underlying backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Load returns the stored blob, decompressed, or false when there is none
// or it cannot be read.
func (a *Adapter) Load(ctx context.Context) ([]byte, bool) {
	blob, err := a.backend.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("Failed to load workspace blob",
				zap.String("key", a.key),
				zap.String("backend", backendName(a.backend)),
				zap.Error(err))
		}
		return nil, false
	}
	if len(blob) == 0 {
		return nil, false
	}

	data, err := Decompress(blob)
	if err != nil {
		a.logger.Warn("Stored workspace blob is corrupt",
			zap.String("key", a.key),
			zap.Int("bytes", len(blob)),
			zap.Error(err))
		return nil, false
	}
	return data, true
}

// Save stores data under the key. Failures are returned for the caller to
// log and count.
func (a *Adapter) Save(ctx context.Context, data []byte) error {
	blob := data
	if a.compress {
		blob = Compress(data)
	}
	if err := a.backend.Put(ctx, a.key, blob); err != nil {
		return fmt.Errorf("%s backend: put %s (%d bytes): %w", backendName(a.backend), a.key, len(blob), err)
	}
	return nil
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

func backendName(b Backend) string {
	if n, ok := b.(Named); ok {
		return n.Name()
	}
	return "custom"
}
