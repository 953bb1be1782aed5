/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
CodeCraft backend, tracking HTTP requests, workspace mutations, persistence,
uploads, preview rendering, exports and WebSocket clients.

# Features

- HTTP request metrics (latency, throughput, size)
- Workspace operation metrics (by operation and outcome)
- Persistence metrics (save duration, swallowed failures, load outcomes)
- Upload and export metrics
- Preview render duration and cache hit ratio
- WebSocket connection metrics

# Usage

	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

Each Metrics value owns its registry, so constructing several in one process
never trips duplicate registration.
*/
package monitoring
