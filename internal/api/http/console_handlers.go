package http

import (
	"net/http"
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/api/ws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// consoleRequest is a batch of console output captured inside the
// preview frame.
type consoleRequest struct {
	Entries []ws.ConsoleEntry `json:"entries" binding:"required,min=1,max=100,dive"`
}

// Console records preview console output in the server log and relays it
// to every stream client, so errors show up in each open editor.
func (h *Handlers) Console(c *gin.Context) {
	var req consoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	for i := range req.Entries {
		req.Entries[i].Level = normalizeLevel(req.Entries[i].Level)
		h.logConsole(req.Entries[i])
	}

	relayed := 0
	if h.hub != nil {
		relayed = h.hub.Broadcast(ws.Message{Type: ws.TypeConsole, Entries: req.Entries})
	}

	c.JSON(http.StatusOK, gin.H{
		"received": len(req.Entries),
		"relayed":  relayed,
	})
}

func normalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "error", "warn", "info", "debug":
		return l
	case "warning":
		return "warn"
	case "log", "":
		return "info"
	default:
		return "debug"
	}
}

func (h *Handlers) logConsole(e ws.ConsoleEntry) {
	fields := []zap.Field{
		zap.String("source", "preview"),
		zap.String("script", e.Source),
		zap.Int("line", e.Line),
	}
	switch e.Level {
	case "error":
		h.logger.Error(e.Message, fields...)
	case "warn":
		h.logger.Warn(e.Message, fields...)
	case "info":
		h.logger.Info(e.Message, fields...)
	default:
		h.logger.Debug(e.Message, fields...)
	}
}
