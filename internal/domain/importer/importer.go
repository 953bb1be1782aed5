package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/charlievieth/fastwalk"
)

// Skipped records a file left out of the import.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Plan is the scanned directory, ready for Manager.ImportProject.
type Plan struct {
	Name    string
	Folders []workspace.ImportFolder
	Skipped []Skipped
}

// Files counts the files the plan will import.
func (p *Plan) Files() int {
	n := 0
	for _, f := range p.Folders {
		n += len(f.Files)
	}
	return n
}

// Scanner reads directories into plans.
type Scanner struct {
	Validator filetype.Validator
}

// NewScanner creates a scanner with the default upload ceiling.
func NewScanner() *Scanner {
	return &Scanner{Validator: filetype.Validator{MaxBytes: filetype.DefaultMaxBytes}}
}

// Scan walks root and encodes every acceptable file. The project is named
// after the directory.
func (s *Scanner) Scan(ctx context.Context, root string) (*Plan, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var (
		mu      sync.Mutex
		folders = make(map[string][]workspace.ImportFile)
		skipped []Skipped
	)
	skip := func(rel, reason string) {
		mu.Lock()
		skipped = append(skipped, Skipped{Path: rel, Reason: reason})
		mu.Unlock()
	}

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || path == root {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			mu.Lock()
			if _, ok := folders[rel]; !ok {
				folders[rel] = nil
			}
			mu.Unlock()
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			skip(rel, err.Error())
			return nil
		}
		name := d.Name()
		if v := s.Validator.Validate(fi.Size(), name, ""); !v.Valid {
			skip(rel, v.Error)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			skip(rel, err.Error())
			return nil
		}
		mediaType := filetype.Sniff(data)
		kind := filetype.Classify(name, mediaType)
		content, err := filetype.EncodeContent(kind, mediaType, data)
		if err != nil {
			skip(rel, err.Error())
			return nil
		}

		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			dir = workspace.DefaultFolderName
		}
		mu.Lock()
		folders[dir] = append(folders[dir], workspace.ImportFile{Name: name, Kind: kind, Content: content})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return &Plan{
		Name:    filepath.Base(root),
		Folders: ordered(folders),
		Skipped: sortSkipped(skipped),
	}, nil
}

// ordered sorts folders by name with Main first and files by name; the
// walk itself visits entries concurrently.
func ordered(folders map[string][]workspace.ImportFile) []workspace.ImportFolder {
	names := make([]string, 0, len(folders))
	for name, files := range folders {
		if len(files) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == workspace.DefaultFolderName || names[j] == workspace.DefaultFolderName {
			return names[i] == workspace.DefaultFolderName && names[j] != workspace.DefaultFolderName
		}
		return names[i] < names[j]
	})

	out := make([]workspace.ImportFolder, 0, len(names))
	for _, name := range names {
		files := folders[name]
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		out = append(out, workspace.ImportFolder{Name: name, Files: files})
	}
	return out
}

func sortSkipped(s []Skipped) []Skipped {
	sort.Slice(s, func(i, j int) bool { return s[i].Path < s[j].Path })
	return s
}

// Import scans root and adds it to m as a new project.
func (s *Scanner) Import(ctx context.Context, m *workspace.Manager, root string) (string, *Plan, error) {
	plan, err := s.Scan(ctx, root)
	if err != nil {
		return "", nil, err
	}
	id, err := m.ImportProject(plan.Name, plan.Folders)
	if err != nil {
		return "", plan, err
	}
	return id, plan, nil
}
