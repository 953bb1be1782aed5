/*
Package tracing provides lightweight request tracing.

# Overview

Every HTTP request gets a trace and a span; long operations started by a
handler (upload ingestion, export) open child spans from the request
context. Finished spans are written to the zap logger by a background
collector, so tracing adds no external dependency.

# Usage

	tracer := tracing.New("codecraft", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "upload.ingest")
	fileID, err := manager.IngestUpload(ctx, upload)
	tracer.End(span, err)

# Trace Format

Traces use standard HTTP headers for propagation:
- X-Trace-ID: Unique identifier for entire request flow
- X-Span-ID: Identifier for current operation
*/
package tracing
