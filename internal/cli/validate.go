package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
)

// ValidateCommand runs the upload checks against local files.
type ValidateCommand struct {
	Files []string `arg:"" help:"Files to check."`
}

const sniffBytes = 3072

func (c *ValidateCommand) Run(app *App) error {
	v := filetype.Validator{MaxBytes: app.Config.Upload.MaxBytes}
	failed := 0
	for _, path := range c.Files {
		res, mediaType, err := check(v, path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		if res.Valid {
			app.printf("ok    %s (%s, %s)\n", name, filetype.Classify(name, mediaType), mediaType)
			continue
		}
		failed++
		app.printf("FAIL  %s: %s\n", name, res.Error)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files rejected", failed, len(c.Files))
	}
	return nil
}

func check(v filetype.Validator, path string) (filetype.Validation, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return filetype.Validation{}, "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return filetype.Validation{}, "", err
	}
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return filetype.Validation{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	mediaType := filetype.Sniff(head[:n])
	return v.Validate(info.Size(), filepath.Base(path), mediaType), mediaType, nil
}
