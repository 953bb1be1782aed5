package workspace

import (
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/shared/id"
)

// ImportFile is one file of a project built outside the tree.
type ImportFile struct {
	Name    string
	Kind    filetype.Kind
	Content string
}

// ImportFolder groups imported files.
type ImportFolder struct {
	Name  string
	Files []ImportFile
}

// ImportProject appends a fully populated project with fresh ids. Files
// are marked as uploaded. A project without folders gets an empty "Main".
// The selection does not move.
func (m *Manager) ImportProject(name string, folders []ImportFolder) (string, error) {
	name = strings.TrimSpace(name)
	var created string
	err := m.mutate("import_project", func(t *Tree) (Event, error) {
		if name == "" {
			return Event{}, ErrBlankName
		}
		p := &Project{ID: id.NewProjectID().String(), Name: name}
		for _, in := range folders {
			folderName := strings.TrimSpace(in.Name)
			if folderName == "" {
				return Event{}, ErrBlankName
			}
			f := &Folder{ID: id.NewFolderID().String(), Name: folderName, Files: make([]*File, 0, len(in.Files))}
			for _, file := range in.Files {
				if strings.TrimSpace(file.Name) == "" {
					return Event{}, ErrBlankName
				}
				if !file.Kind.Valid() {
					return Event{}, ErrUnknownKind
				}
				f.Files = append(f.Files, &File{
					ID:         id.NewFileID().String(),
					Name:       file.Name,
					Kind:       file.Kind,
					Content:    file.Content,
					IsUploaded: true,
				})
			}
			p.Folders = append(p.Folders, f)
		}
		if len(p.Folders) == 0 {
			p.Folders = []*Folder{{ID: id.NewFolderID().String(), Name: DefaultFolderName, Files: []*File{}}}
		}
		t.Projects = append(t.Projects, p)
		created = p.ID
		return Event{Type: EventCreated, Scope: ScopeProject, ID: p.ID}, nil
	})
	return created, err
}
