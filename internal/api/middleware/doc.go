// Package middleware provides the HTTP middleware of the CodeCraft API.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - GlobalRateLimit: One bucket shared by every client
//   - RegisterValidators: notblank and filekind binding tags for request bodies
package middleware
