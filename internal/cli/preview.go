package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"go.uber.org/zap"
)

// PreviewCommand writes the composed preview document.
type PreviewCommand struct {
	Project string `help:"Compose this project instead of the current selection." short:"p"`
	Inline  bool   `help:"Inline media referenced by the document as data URIs."`
	Out     string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *PreviewCommand) Run(app *App) error {
	ctx := context.Background()
	m, closeFn, err := app.Workspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	doc, err := c.render(app, m)
	if err != nil {
		return err
	}
	if c.Out == "" {
		app.printf("%s\n", doc)
		return nil
	}
	if err := os.WriteFile(c.Out, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	app.Logger.Info("Preview written", zap.String("path", c.Out), zap.Int("bytes", len(doc)))
	return nil
}

func (c *PreviewCommand) render(app *App, m *workspace.Manager) (string, error) {
	if c.Project == "" {
		composer, err := preview.NewComposer(1)
		if err != nil {
			return "", err
		}
		return preview.NewLive(m, composer, c.Inline, app.Logger.Named("preview")).Render().HTML, nil
	}

	p, ok := m.Project(c.Project)
	if !ok {
		return "", fmt.Errorf("project %s: %w", c.Project, workspace.ErrNotFound)
	}
	doc := preview.Compose(p)
	if c.Inline {
		return preview.InlineAssets(doc, p)
	}
	return doc, nil
}
