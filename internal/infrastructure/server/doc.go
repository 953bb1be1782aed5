// Package server assembles the CodeCraft backend: configuration, storage,
// the workspace manager, the preview composer, the stream hub and the
// HTTP router with its middleware.
//
// Startup order:
//  1. Metrics and tracing
//  2. Storage backend and adapter (optional zstd compression)
//  3. Workspace load (stored, migrated, or first-run default)
//  4. Preview composer, live renderer and stream hub
//  5. Optional fsnotify watcher reloading external edits (file backend)
//  6. Gin router: recovery, tracing, metrics, CORS, rate limiting, routes
package server
