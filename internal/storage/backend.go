package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNotFound   = errors.New("storage: key not found")
	ErrInvalidKey = errors.New("storage: invalid key")
	ErrClosed     = errors.New("storage: backend closed")
)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Backend is a byte key-value store.
type Backend interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

// Named is implemented by backends that can describe themselves in logs.
type Named interface {
	Name() string
}

// ValidKey reports whether key is usable by every backend (it doubles as a
// file name and an object name).
func ValidKey(key string) bool {
	return keyRe.MatchString(key)
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Options selects and configures a backend.
type Options struct {
	Backend string // memory, file, sqlite, postgres, s3
	Path    string
	DSN     string
	S3      S3Options

	// Breaker guards the network backends (postgres, s3).
	Breaker BreakerOptions
}

// Open constructs the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Path)
	case "sqlite":
		return NewSQLite(ctx, opts.Path)
	case "postgres":
		pg, err := NewPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return guarded(pg, opts.Breaker), nil
	case "s3":
		s3, err := NewS3(opts.S3)
		if err != nil {
			return nil, err
		}
		return guarded(s3, opts.Breaker), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func guarded(b Backend, opts BreakerOptions) Backend {
	if opts.Threshold <= 0 {
		return b
	}
	return Guard(b, opts)
}
