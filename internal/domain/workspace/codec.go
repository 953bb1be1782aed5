package workspace

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/shared/id"
	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"
)

// SchemaVersion is written into every saved blob.
const SchemaVersion = 1

type envelope struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
	Tree    *Tree     `json:"tree"`
}

// Encode serializes the tree inside a versioned envelope.
func Encode(t *Tree, savedAt time.Time) ([]byte, error) {
	data, err := sonic.Marshal(envelope{
		Version: SchemaVersion,
		SavedAt: savedAt.UTC(),
		Tree:    t,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}
	return data, nil
}

// Decoded describes what Decode found.
type Decoded struct {
	Tree     *Tree
	Version  int // schema version the blob was written with
	SavedAt  time.Time
	Migrated bool
}

// Decode parses a blob of any known schema version, migrating older shapes
// to the current one. The result is not yet repaired.
func Decode(data []byte) (*Decoded, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorrupt)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrCorrupt)
	}

	version := root.Get("version")
	if !version.Exists() || !root.Get("tree").Exists() {
		t, err := migrateV0(root)
		if err != nil {
			return nil, err
		}
		return &Decoded{Tree: t, Version: 0, Migrated: true}, nil
	}

	if version.Type != gjson.Number {
		return nil, fmt.Errorf("%w: version is not a number", ErrCorrupt)
	}
	switch v := int(version.Int()); v {
	case SchemaVersion:
		var env envelope
		if err := sonic.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if env.Tree == nil {
			return nil, fmt.Errorf("%w: missing tree", ErrCorrupt)
		}
		return &Decoded{Tree: env.Tree, Version: v, SavedAt: env.SavedAt}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
}

// migrateV0 converts the un-versioned layout, an object keyed by project id:
//
//	{"<pid>": {"name": ..., "folders": {"<fid>": {"name": ..., "files":
//	    {"<id>": {"name", "type", "content", "isUploaded"}}}}}}
//
// Document key order becomes slice order. The old layout stored no
// selection, so pointers are left for repair to derive.
func migrateV0(root gjson.Result) (*Tree, error) {
	t := &Tree{}
	var bad error

	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() || !value.Get("folders").IsObject() {
			bad = fmt.Errorf("%w: project %q has no folders object", ErrCorrupt, key.String())
			return false
		}
		p := &Project{ID: key.String(), Name: value.Get("name").String()}
		value.Get("folders").ForEach(func(fkey, fvalue gjson.Result) bool {
			folder := &Folder{ID: fkey.String(), Name: fvalue.Get("name").String()}
			fvalue.Get("files").ForEach(func(ikey, ivalue gjson.Result) bool {
				kind, _ := filetype.ParseKind(ivalue.Get("type").String())
				folder.Files = append(folder.Files, &File{
					ID:         ikey.String(),
					Name:       ivalue.Get("name").String(),
					Kind:       kind,
					Content:    ivalue.Get("content").String(),
					IsUploaded: ivalue.Get("isUploaded").Bool(),
				})
				return true
			})
			p.Folders = append(p.Folders, folder)
			return true
		})
		t.Projects = append(t.Projects, p)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return t, nil
}

// Repair restores the tree invariants after decoding: no nil entries,
// every entity has an id, and every non-empty pointer resolves. Dangling
// pointers are re-derived with the selection cascade. It reports whether
// anything changed.
func Repair(t *Tree) bool {
	changed := false

	projects := t.Projects[:0]
	for _, p := range t.Projects {
		if p == nil {
			changed = true
			continue
		}
		if p.ID == "" {
			p.ID = id.NewProjectID().String()
			changed = true
		}
		folders := p.Folders[:0]
		for _, f := range p.Folders {
			if f == nil {
				changed = true
				continue
			}
			if f.ID == "" {
				f.ID = id.NewFolderID().String()
				changed = true
			}
			files := f.Files[:0]
			for _, file := range f.Files {
				if file == nil {
					changed = true
					continue
				}
				if file.ID == "" {
					file.ID = id.NewFileID().String()
					changed = true
				}
				if !file.Kind.Valid() {
					file.Kind = filetype.Other
					changed = true
				}
				files = append(files, file)
			}
			f.Files = files
			folders = append(folders, f)
		}
		p.Folders = folders
		projects = append(projects, p)
	}
	t.Projects = projects

	before := t.pointers()
	repairPointers(t)
	if t.pointers() != before {
		changed = true
	}
	return changed
}

type pointers struct {
	project, folder, file, pending string
}

func (t *Tree) pointers() pointers {
	return pointers{t.CurrentProjectID, t.CurrentFolderID, t.CurrentFileID, t.PendingUploadFolderID}
}

func repairPointers(t *Tree) {
	p := t.currentProject()
	if p == nil {
		if len(t.Projects) > 0 {
			t.selectProject(t.Projects[0])
		} else {
			t.selectProject(nil)
		}
		return
	}

	folder, _ := p.folder(t.CurrentFolderID)
	if folder == nil {
		if len(p.Folders) > 0 {
			t.selectFolder(p.Folders[0])
		} else {
			t.selectFolder(nil)
		}
	} else if f, _ := folder.file(t.CurrentFileID); f == nil {
		t.selectFolder(folder)
	}

	if pending, _ := p.folder(t.PendingUploadFolderID); pending == nil {
		t.PendingUploadFolderID = ""
	}
}
