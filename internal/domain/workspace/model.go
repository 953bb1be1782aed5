package workspace

import (
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
)

// File is a leaf of the tree. Content is text for code kinds and a data
// URI for media kinds.
type File struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Kind       filetype.Kind `json:"type"`
	Content    string        `json:"content"`
	IsUploaded bool          `json:"isUploaded"`
}

// Folder holds files in insertion order.
type Folder struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Files []*File `json:"files"`
}

// Project holds folders in insertion order.
type Project struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Folders []*Folder `json:"folders"`
}

// Tree is the persisted root: every project plus the selection pointers.
// The folder and file pointers are relative to the selected project and
// folder; the pending upload folder lives in the selected project.
type Tree struct {
	Projects              []*Project `json:"projects"`
	CurrentProjectID      string     `json:"currentProjectId,omitempty"`
	CurrentFolderID       string     `json:"currentFolderId,omitempty"`
	CurrentFileID         string     `json:"currentFileId,omitempty"`
	PendingUploadFolderID string     `json:"pendingUploadFolderId,omitempty"`
}

// Scope names a level of the tree.
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeFolder  Scope = "folder"
	ScopeFile    Scope = "file"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeProject, ScopeFolder, ScopeFile:
		return Scope(s), true
	}
	return "", false
}

// ============================================================================
// Lookups
// ============================================================================

func (t *Tree) project(id string) (*Project, int) {
	if id == "" {
		return nil, -1
	}
	for i, p := range t.Projects {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (p *Project) folder(id string) (*Folder, int) {
	if p == nil || id == "" {
		return nil, -1
	}
	for i, f := range p.Folders {
		if f.ID == id {
			return f, i
		}
	}
	return nil, -1
}

func (f *Folder) file(id string) (*File, int) {
	if f == nil || id == "" {
		return nil, -1
	}
	for i, file := range f.Files {
		if file.ID == id {
			return file, i
		}
	}
	return nil, -1
}

func (t *Tree) currentProject() *Project {
	p, _ := t.project(t.CurrentProjectID)
	return p
}

func (t *Tree) currentFolder() *Folder {
	f, _ := t.currentProject().folder(t.CurrentFolderID)
	return f
}

func (t *Tree) currentFile() *File {
	f, _ := t.currentFolder().file(t.CurrentFileID)
	return f
}

// ============================================================================
// Selection cascade
// ============================================================================

// selectProject points at p and re-derives the lower pointers.
func (t *Tree) selectProject(p *Project) {
	if p == nil {
		t.CurrentProjectID = ""
		t.PendingUploadFolderID = ""
		t.selectFolder(nil)
		return
	}
	if t.CurrentProjectID != p.ID {
		t.PendingUploadFolderID = ""
	}
	t.CurrentProjectID = p.ID
	if len(p.Folders) > 0 {
		t.selectFolder(p.Folders[0])
	} else {
		t.selectFolder(nil)
	}
}

// selectFolder points at f and re-derives the file pointer.
func (t *Tree) selectFolder(f *Folder) {
	if f == nil {
		t.CurrentFolderID = ""
		t.CurrentFileID = ""
		return
	}
	t.CurrentFolderID = f.ID
	if len(f.Files) > 0 {
		t.CurrentFileID = f.Files[0].ID
	} else {
		t.CurrentFileID = ""
	}
}

// ============================================================================
// Copies and counts
// ============================================================================

// Clone returns a deep copy.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Clone returns a deep copy.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	c := &Folder{ID: f.ID, Name: f.Name, Files: make([]*File, len(f.Files))}
	for i, file := range f.Files {
		c.Files[i] = file.Clone()
	}
	return c
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := &Project{ID: p.ID, Name: p.Name, Folders: make([]*Folder, len(p.Folders))}
	for i, f := range p.Folders {
		c.Folders[i] = f.Clone()
	}
	return c
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := *t
	c.Projects = make([]*Project, len(t.Projects))
	for i, p := range t.Projects {
		c.Projects[i] = p.Clone()
	}
	return &c
}

// Files returns every file of the project, folders then files, in order.
func (p *Project) Files() []*File {
	var out []*File
	for _, f := range p.Folders {
		out = append(out, f.Files...)
	}
	return out
}

// FindFile locates a file anywhere in the project.
func (p *Project) FindFile(id string) (*Folder, *File) {
	for _, folder := range p.Folders {
		if f, _ := folder.file(id); f != nil {
			return folder, f
		}
	}
	return nil, nil
}

// Counts returns the number of projects, folders and files.
func (t *Tree) Counts() (projects, folders, files int) {
	projects = len(t.Projects)
	for _, p := range t.Projects {
		folders += len(p.Folders)
		for _, f := range p.Folders {
			files += len(f.Files)
		}
	}
	return projects, folders, files
}
