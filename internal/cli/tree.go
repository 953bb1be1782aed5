package cli

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ddddddO/gtree"
	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
)

// TreeCommand prints the workspace.
type TreeCommand struct {
	Format string `help:"Output format: text, yaml or json." enum:"text,yaml,json" default:"text" short:"f"`
}

type outlineFile struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Size     int    `json:"size" yaml:"size"`
	Uploaded bool   `json:"uploaded,omitempty" yaml:"uploaded,omitempty"`
	Current  bool   `json:"current,omitempty" yaml:"current,omitempty"`
}

type outlineFolder struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Current bool          `json:"current,omitempty" yaml:"current,omitempty"`
	Pending bool          `json:"uploadTarget,omitempty" yaml:"uploadTarget,omitempty"`
	Files   []outlineFile `json:"files" yaml:"files"`
}

type outlineProject struct {
	ID      string          `json:"id" yaml:"id"`
	Name    string          `json:"name" yaml:"name"`
	Current bool            `json:"current,omitempty" yaml:"current,omitempty"`
	Folders []outlineFolder `json:"folders" yaml:"folders"`
}

// outline is the tree without file contents.
func outline(t *workspace.Tree) []outlineProject {
	out := make([]outlineProject, 0, len(t.Projects))
	for _, p := range t.Projects {
		current := p.ID == t.CurrentProjectID
		op := outlineProject{ID: p.ID, Name: p.Name, Current: current, Folders: make([]outlineFolder, 0, len(p.Folders))}
		for _, f := range p.Folders {
			of := outlineFolder{
				ID:      f.ID,
				Name:    f.Name,
				Current: current && f.ID == t.CurrentFolderID,
				Pending: current && f.ID == t.PendingUploadFolderID,
				Files:   make([]outlineFile, 0, len(f.Files)),
			}
			for _, file := range f.Files {
				of.Files = append(of.Files, outlineFile{
					ID:       file.ID,
					Name:     file.Name,
					Kind:     file.Kind.String(),
					Size:     len(file.Content),
					Uploaded: file.IsUploaded,
					Current:  of.Current && file.ID == t.CurrentFileID,
				})
			}
			op.Folders = append(op.Folders, of)
		}
		out = append(out, op)
	}
	return out
}

func (c *TreeCommand) Run(app *App) error {
	ctx := context.Background()
	m, closeFn, err := app.Workspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	projects := outline(m.Tree())
	switch c.Format {
	case "yaml":
		data, err := yaml.Marshal(projects)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = app.Out.Write(data)
		return err
	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(projects, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		app.printf("%s\n", data)
		return nil
	default:
		return renderTree(app, projects)
	}
}

// renderTree draws one gtree per project. The selection is marked with
// "*" and the pending upload folder with "^".
func renderTree(app *App, projects []outlineProject) error {
	for _, p := range projects {
		root := gtree.NewRoot(mark(p.Name, p.Current, false))
		for _, f := range p.Folders {
			folder := root.Add(mark(f.Name+"/", f.Current, f.Pending))
			for _, file := range f.Files {
				folder.Add(mark(fmt.Sprintf("%s (%s, %s)", file.Name, file.Kind, filetype.FormatSize(int64(file.Size))), file.Current, false))
			}
		}
		if err := gtree.OutputFromRoot(app.Out, root); err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
	}
	return nil
}

func mark(label string, current, pending bool) string {
	if current {
		label += " *"
	}
	if pending {
		label += " ^"
	}
	return label
}
