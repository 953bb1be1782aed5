package cli

import (
	"fmt"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/logging"
)

// Command is the codecraft command line.
type Command struct {
	Config   string `help:"TOML config file." env:"CODECRAFT_CONFIG" type:"path" short:"c"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn" name:"log-level"`

	Tree     *TreeCommand     `cmd:"" help:"Print the workspace tree."`
	Preview  *PreviewCommand  `cmd:"" help:"Write the composed preview document."`
	Export   *ExportCommand   `cmd:"" help:"Archive a project."`
	Import   *ImportCommand   `cmd:"" help:"Import a directory as a new project."`
	Validate *ValidateCommand `cmd:"" help:"Check files against the upload rules."`
	Reset    *ResetCommand    `cmd:"" help:"Replace the workspace with the starter project."`
}

// App loads configuration and builds the logger named by the global flags.
func (c *Command) App() (*App, error) {
	cfg, err := config.LoadFile(c.Config)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.CLIConfig(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewApp(cfg, logger.Logger), nil
}
