// Package storage persists the serialized workspace tree.
//
// A Backend is a minimal byte key-value store (memory, file, sqlite,
// postgres, s3). The Adapter sits on top of one backend and one fixed key
// and gives the workspace the best-effort contract it needs: Load reports
// absence instead of failing, Save returns failures for the caller to
// count and log but never panics.
// Blobs may be zstd-compressed; Load recognizes compressed and plain blobs
// by the zstd frame magic.
//
// Open wraps the postgres and s3 backends in Guard, a circuit breaker that
// fails saves fast while the remote store is unreachable.
package storage
