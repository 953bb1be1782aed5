package cli

import (
	"context"
	"errors"
)

// ResetCommand replaces the stored workspace with the starter project.
type ResetCommand struct {
	Yes bool `help:"Confirm the reset." short:"y"`
}

func (c *ResetCommand) Run(app *App) error {
	if !c.Yes {
		return errors.New("reset discards every project; pass --yes to confirm")
	}
	ctx := context.Background()
	m, closeFn, err := app.Workspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Reset(); err != nil {
		return err
	}
	if msg := m.Stats().LastSaveError; msg != "" {
		return errors.New(msg)
	}
	app.printf("workspace reset\n")
	return nil
}
