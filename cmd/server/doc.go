// Package main is the entry point for the CodeCraft backend server.
//
// The server owns the project workspace: it loads the persisted tree,
// serves the REST API the editor drives, streams tree events and preview
// documents over WebSocket, and exports projects as archives.
//
// Configuration is layered: defaults, then the TOML file named by -config
// or CODECRAFT_CONFIG, then environment variables (a .env file in the
// working directory is loaded first). -port and -dev override the result.
//
// Usage:
//
//	# File storage under ./data, JSON logs
//	./server
//
//	# Development logging on another port
//	./server -dev -port 9000
//
//	# Postgres storage
//	STORAGE_BACKEND=postgres STORAGE_DSN=postgres://... ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
