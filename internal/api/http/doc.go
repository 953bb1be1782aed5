// Package http provides the JSON REST API of the CodeCraft workspace.
//
// Endpoints:
//   - Health: /, /health, /metrics
//   - Tree: GET /api/tree, GET /api/stats, POST /api/reset
//   - Projects, folders, files: POST to create, PUT /:id to rename,
//     DELETE /:id, POST /:id/switch to select
//   - Editing: PUT /api/files/current/content
//   - Uploads: PUT|DELETE /api/upload-target, POST /api/uploads/validate,
//     POST /api/uploads (multipart, repeated "file" parts)
//   - Preview: GET /api/preview, GET /api/files/:id/diagnostics,
//     POST /api/console
//   - Export: GET /api/export?format=zip|tar.gz|tar.zst&minify=&exclude=
//   - Stream: GET /api/stream (WebSocket, see package ws)
//
// Status codes: 400 for invalid input, 404 for unknown ids or a missing
// selection, 409 when deleting the last project, folder or file, 413 for
// uploads above the ceiling.
//
// Example Usage:
//
//	handlers := http.NewHandlers(http.Deps{Manager: mgr, Live: live, Hub: hub})
//	handlers.Register(router, metrics.Handler())
package http
