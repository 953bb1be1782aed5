package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/export"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Export downloads the current project, or the one named by ?project=, as
// an archive. Query: format (zip, tar.gz, tar.zst), minify (bool),
// exclude (glob, repeatable), manifest (bool, default true).
func (h *Handlers) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts := export.Options{Format: format, Exclude: c.QueryArray("exclude")}
	if err := export.ValidatePatterns(opts.Exclude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if opts.Minify, err = queryBool(c, "minify", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	withManifest, err := queryBool(c, "manifest", true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.NoManifest = !withManifest

	var snap *workspace.Snapshot
	var ok bool
	if id := c.Query("project"); id != "" {
		snap, ok = h.manager.SnapshotOf(id)
	} else {
		snap, ok = h.manager.ExportSnapshot()
	}
	if !ok {
		h.fail(c, workspace.ErrNotFound)
		return
	}

	done := h.metrics.TrackExport(string(format))
	span, ctx := h.tracer.StartSpan(c.Request.Context(), "export.write")
	span.SetTag("export.format", string(format))

	// built in memory so a failure can still be reported with a status
	var buf bytes.Buffer
	res, err := export.Write(ctx, &buf, snap, opts)
	h.tracer.End(span, err)
	done(err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("Project exported",
		zap.String("project", snap.Name),
		zap.String("format", string(format)),
		zap.Int("files", res.Files),
		zap.Int64("bytes", res.Bytes))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, export.Filename(snap, format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func queryBool(c *gin.Context, key string, def bool) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("query %s: %q is not a boolean", key, raw)
	}
	return v, nil
}
