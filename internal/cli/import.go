package cli

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/importer"
)

// ImportCommand adds a directory as a new project.
type ImportCommand struct {
	Dir    string `arg:"" help:"Directory to import." type:"existingdir"`
	Select bool   `help:"Make the imported project current." name:"switch"`
}

func (c *ImportCommand) Run(app *App) error {
	ctx := context.Background()
	m, closeFn, err := app.Workspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	id, plan, err := importer.NewScanner().Import(ctx, m, c.Dir)
	if err != nil {
		return fmt.Errorf("import %s: %w", c.Dir, err)
	}
	if c.Select {
		m.SwitchProject(id)
	}

	app.printf("imported %q as %s: %d folders, %d files\n", plan.Name, id, len(plan.Folders), plan.Files())
	for _, s := range plan.Skipped {
		app.printf("  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}
