package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/api/middleware"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/api/ws"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// DefaultMaxRequestBytes caps a multipart upload request as a whole.
const DefaultMaxRequestBytes int64 = 64 << 20

// Deps are the collaborators the handlers need. Hub and Metrics may be nil.
type Deps struct {
	Manager         *workspace.Manager
	Live            *preview.Live
	Hub             *ws.Hub
	Metrics         *HandlerMetrics
	Tracer          *tracing.Tracer
	Logger          *zap.Logger
	MaxRequestBytes int64
}

// Handlers contains all HTTP handlers
type Handlers struct {
	manager         *workspace.Manager
	live            *preview.Live
	hub             *ws.Hub
	metrics         *HandlerMetrics
	tracer          *tracing.Tracer
	logger          *zap.Logger
	maxRequestBytes int64
	started         time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := d.Tracer
	if tracer == nil {
		tracer = tracing.New("codecraft", logger)
	}
	limit := d.MaxRequestBytes
	if limit <= 0 {
		limit = DefaultMaxRequestBytes
	}
	return &Handlers{
		manager:         d.Manager,
		live:            d.Live,
		hub:             d.Hub,
		metrics:         d.Metrics,
		tracer:          tracer,
		logger:          logger,
		maxRequestBytes: limit,
		started:         time.Now(),
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "CodeCraft",
		"version": Version,
	})
}

// Health reports workspace and persistence state. A failing store marks
// the service degraded but it keeps serving from memory.
func (h *Handlers) Health(c *gin.Context) {
	stats := h.manager.Stats()
	status := "healthy"
	if stats.LastSaveError != "" {
		status = "degraded"
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.Clients()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"uptime_seconds": time.Since(h.started).Seconds(),
		"workspace":      stats,
		"stream":         gin.H{"clients": clients},
	})
}

// Stats returns tree counts and, when metrics are enabled, the request
// counters.
func (h *Handlers) Stats(c *gin.Context) {
	resp := gin.H{"workspace": h.manager.Stats(), "sizes": h.manager.SizeStats()}
	if snap := h.metrics.Snapshot(); snap != nil {
		resp["metrics"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// Tree returns the whole project tree with the current selection.
func (h *Handlers) Tree(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Tree())
}

// fail maps a domain error onto a status code and writes it.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a body that did not bind.
func (h *Handlers) badRequest(c *gin.Context, err error) {
	msg := middleware.ValidationMessage(err)
	if msg == "" {
		msg = "invalid request body: " + err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, workspace.ErrLastSibling):
		return http.StatusConflict
	case workspace.IsValidation(err):
		return http.StatusBadRequest
	case workspace.IsLookup(err):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
