package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/server"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/storage"
	"go.uber.org/zap"
)

// App is bound into every command's Run method.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer
}

// NewApp creates the command context.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{Config: cfg, Logger: logger, Out: os.Stdout}
}

// Workspace opens the configured store and loads the tree. The returned
// function closes the backend.
func (a *App) Workspace(ctx context.Context) (*workspace.Manager, func() error, error) {
	backend, err := storage.Open(ctx, server.StorageOptions(a.Config.Storage))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", a.Config.Storage.Backend, err)
	}
	adapter := storage.NewAdapter(backend, a.Config.Storage.Key,
		storage.WithCompression(a.Config.Storage.Compress),
		storage.WithLogger(a.Logger.Named("storage")),
	)
	m := workspace.NewManager(adapter, a.Logger.Named("workspace")).
		WithUploadLimit(a.Config.Upload.MaxBytes)
	m.Load(ctx)
	return m, backend.Close, nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, format, args...)
}
