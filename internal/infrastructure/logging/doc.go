// Package logging builds the zap loggers used across the server and CLI.
//
// The server logs JSON to stdout in production and colored console lines
// with -dev or LOG_DEV. The codecraft CLI logs to stderr so archives and
// preview documents written to stdout stay clean.
//
// Components get a named child logger:
//
//	logger := logging.NewDefault()
//	ws := logger.Component("workspace")
//	ws.Info("Workspace loaded", zap.Int("projects", 3))
package logging
