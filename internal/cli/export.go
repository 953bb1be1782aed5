package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/export"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"go.uber.org/zap"
)

// ExportCommand archives a project.
type ExportCommand struct {
	Format     string   `help:"Archive format: zip, tar.gz or tar.zst." default:"zip" short:"f"`
	Project    string   `help:"Export this project instead of the current one." short:"p"`
	Exclude    []string `help:"Glob of entry paths to leave out (repeatable)." short:"x"`
	Minify     bool     `help:"Minify HTML, CSS and JavaScript entries."`
	NoManifest bool     `help:"Omit manifest.json."`
	Out        string   `help:"Archive path, or - for stdout. Defaults to the project name." short:"o"`
}

func (c *ExportCommand) Run(app *App) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if err := export.ValidatePatterns(c.Exclude); err != nil {
		return err
	}

	ctx := context.Background()
	m, closeFn, err := app.Workspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var snap *workspace.Snapshot
	var ok bool
	if c.Project != "" {
		snap, ok = m.SnapshotOf(c.Project)
	} else {
		snap, ok = m.ExportSnapshot()
	}
	if !ok {
		return fmt.Errorf("nothing to export: %w", workspace.ErrNotFound)
	}

	out := c.Out
	if out == "" {
		out = export.Filename(snap, format)
	}

	var w io.Writer = app.Out
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	res, err := export.Write(ctx, w, snap, export.Options{
		Format:     format,
		Exclude:    c.Exclude,
		Minify:     c.Minify,
		NoManifest: c.NoManifest,
	})
	if err != nil {
		if out != "-" {
			os.Remove(out)
		}
		return err
	}

	app.Logger.Info("Project exported",
		zap.String("project", snap.Name),
		zap.String("path", out),
		zap.Int("files", res.Files),
		zap.Int64("bytes", res.Bytes))
	if out != "-" {
		app.printf("%s: %d files, %d bytes\n", out, res.Files, res.Bytes)
	}
	return nil
}
