// Package cli implements the codecraft command line: offline access to the
// same workspace store the server uses.
//
// Every command opens the configured backend, loads the tree, does its
// work through workspace.Manager and closes the backend. Mutating commands
// (import, reset) persist exactly as the server would, so a running server
// with STORAGE_WATCH enabled picks the change up.
package cli
