// Package ws streams workspace changes to editor clients over WebSocket.
//
// Every committed mutation is forwarded as an event, followed by the
// recomposed preview document, so an open preview pane can refresh without
// polling. Clients that fall behind are disconnected.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - preview: Ask for the current preview immediately
//
// Message Types (Server → Client):
//   - hello: Client ID and the current preview, sent once on connect
//   - event: A committed workspace change (type, scope, id, revision)
//   - preview: The recomposed preview document
//   - console: Preview console output relayed from another viewer
//   - pong: Reply to ping
//   - error: Unknown message type
//
// Example Usage:
//
//	hub := ws.NewHub(manager, live, logger).WithObserver(metrics)
//	go hub.Run(ctx)
//	router.GET("/api/stream", hub.HandleConnection)
package ws
