package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/shared/id"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Store persists the encoded tree. storage.Adapter implements it.
type Store interface {
	Load(ctx context.Context) ([]byte, bool)
	Save(ctx context.Context, data []byte) error
}

// Recorder receives operational measurements. monitoring.Metrics
// implements it.
type Recorder interface {
	RecordMutation(operation string, ok bool)
	RecordPersist(duration time.Duration, err error)
	RecordLoad(outcome string)
	SetTreeSize(projects, folders, files int)
	RecordUpload(kind string, size int64, ok bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string, bool) {}
func (nopRecorder) RecordPersist(time.Duration, error) {}
func (nopRecorder) RecordLoad(string) {}
func (nopRecorder) SetTreeSize(int, int, int) {}
func (nopRecorder) RecordUpload(string, int64, bool) {}

// LoadOutcome says where the tree came from.
type LoadOutcome string

const (
	LoadedStored   LoadOutcome = "stored"
	LoadedMigrated LoadOutcome = "migrated"
	LoadedDefault  LoadOutcome = "default"
	LoadedCorrupt  LoadOutcome = "corrupt"
)

// Manager owns the project tree. Every mutation runs under the write lock,
// persists the whole tree, releases the lock, then publishes one Event.
// Persistence failures are logged and counted but never fail the caller.
type Manager struct {
	mu          sync.RWMutex
	tree        *Tree     // Protected by mu
	revision    uint64    // Protected by mu
	lastSaved   time.Time // Protected by mu
	lastSaveErr error     // Protected by mu
	lastDigest  [32]byte  // Protected by mu

	// serializes upload ingestion
	uploadMu sync.Mutex

	subsMu  sync.RWMutex
	subs    map[int]func(Event)
	nextSub int

	store       Store
	logger      *zap.Logger
	recorder    Recorder
	validator   filetype.Validator
	saveTimeout time.Duration
	now         func() time.Time
}

// NewManager creates a manager with an empty tree. Call Load before use,
// or use Open.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		tree:        &Tree{},
		subs:        make(map[int]func(Event)),
		store:       store,
		logger:      logger,
		recorder:    nopRecorder{},
		validator:   filetype.Validator{MaxBytes: filetype.DefaultMaxBytes},
		saveTimeout: 10 * time.Second,
		now:         time.Now,
	}
}

// Open creates a manager and loads the persisted tree.
func Open(ctx context.Context, store Store, logger *zap.Logger) *Manager {
	m := NewManager(store, logger)
	m.Load(ctx)
	return m
}

// WithRecorder adds metrics tracking to the manager
func (m *Manager) WithRecorder(r Recorder) *Manager {
	if r != nil {
		m.recorder = r
	}
	return m
}

// WithUploadLimit overrides the 5 MiB upload ceiling.
func (m *Manager) WithUploadLimit(maxBytes int64) *Manager {
	if maxBytes > 0 {
		m.validator.MaxBytes = maxBytes
	}
	return m
}

// ============================================================================
// Loading
// ============================================================================

// Load replaces the tree with the stored one, or with the default tree if
// nothing usable is stored, and persists the result.
func (m *Manager) Load(ctx context.Context) LoadOutcome {
	tree, outcome := m.read(ctx)

	m.mu.Lock()
	m.tree = tree
	ev := m.commitLocked(Event{Type: EventLoaded})
	m.mu.Unlock()

	m.recorder.RecordLoad(string(outcome))
	m.logger.Info("Workspace loaded",
		zap.String("outcome", string(outcome)),
		zap.Int("projects", len(tree.Projects)))
	m.publish(ev)
	return outcome
}

func (m *Manager) read(ctx context.Context) (*Tree, LoadOutcome) {
	data, ok := m.store.Load(ctx)
	if !ok {
		return DefaultTree(), LoadedDefault
	}

	dec, err := Decode(data)
	if err != nil {
		m.logger.Warn("Discarding unreadable workspace", zap.Error(err))
		return DefaultTree(), LoadedCorrupt
	}
	if Repair(dec.Tree) {
		m.logger.Info("Repaired workspace pointers", zap.Int("version", dec.Version))
	}
	if len(dec.Tree.Projects) == 0 {
		return DefaultTree(), LoadedDefault
	}
	if dec.Migrated {
		m.logger.Info("Migrated workspace", zap.Int("from_version", dec.Version), zap.Int("to_version", SchemaVersion))
		return dec.Tree, LoadedMigrated
	}
	return dec.Tree, LoadedStored
}

// Reload re-reads storage after an external write. Unchanged or unreadable
// data leaves the in-memory tree alone.
func (m *Manager) Reload(ctx context.Context) error {
	data, ok := m.store.Load(ctx)
	if !ok {
		return ErrNotFound
	}

	m.mu.RLock()
	same := blake2b.Sum256(data) == m.lastDigest
	m.mu.RUnlock()
	if same {
		return nil
	}

	dec, err := Decode(data)
	if err != nil {
		m.logger.Warn("Ignoring unreadable external workspace change", zap.Error(err))
		return err
	}
	Repair(dec.Tree)
	if len(dec.Tree.Projects) == 0 {
		return ErrCorrupt
	}

	m.mu.Lock()
	m.tree = dec.Tree
	m.lastDigest = blake2b.Sum256(data)
	m.revision++
	ev := Event{Type: EventLoaded, Revision: m.revision, Time: m.now()}
	m.publishSizeLocked()
	m.mu.Unlock()

	m.recorder.RecordLoad("reloaded")
	m.logger.Info("Workspace reloaded from storage", zap.Uint64("revision", ev.Revision))
	m.publish(ev)
	return nil
}

// ============================================================================
// Commit path
// ============================================================================

// mutate runs fn under the write lock. fn must validate before it changes
// anything: an error return means the tree is untouched.
func (m *Manager) mutate(op string, fn func(t *Tree) (Event, error)) error {
	m.mu.Lock()
	ev, err := fn(m.tree)
	if err != nil {
		m.mu.Unlock()
		m.recorder.RecordMutation(op, false)
		m.logger.Debug("Workspace operation rejected", zap.String("operation", op), zap.Error(err))
		return err
	}
	ev = m.commitLocked(ev)
	m.mu.Unlock()

	m.recorder.RecordMutation(op, true)
	m.publish(ev)
	return nil
}

func (m *Manager) commitLocked(ev Event) Event {
	m.revision++
	ev.Revision = m.revision
	ev.Time = m.now()
	m.persistLocked()
	m.publishSizeLocked()
	return ev
}

func (m *Manager) persistLocked() {
	start := time.Now()
	data, err := Encode(m.tree, m.now())
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.saveTimeout)
		err = m.store.Save(ctx, data)
		cancel()
	}
	m.recorder.RecordPersist(time.Since(start), err)

	if err != nil {
		m.lastSaveErr = err
		m.logger.Error("Failed to persist workspace",
			zap.Uint64("revision", m.revision),
			zap.Error(err))
		return
	}
	m.lastSaveErr = nil
	m.lastSaved = m.now()
	m.lastDigest = blake2b.Sum256(data)
}

func (m *Manager) publishSizeLocked() {
	m.recorder.SetTreeSize(m.tree.Counts())
}

// ============================================================================
// Selection
// ============================================================================

// SwitchProject selects a project and cascades to its first folder and
// file. Unknown ids leave every pointer unchanged.
func (m *Manager) SwitchProject(id string) bool {
	return m.mutate("switch_project", func(t *Tree) (Event, error) {
		p, _ := t.project(id)
		if p == nil {
			return Event{}, ErrNotFound
		}
		t.selectProject(p)
		return Event{Type: EventSwitched, Scope: ScopeProject, ID: id}, nil
	}) == nil
}

// SwitchFolder selects a folder of the current project and cascades to its
// first file.
func (m *Manager) SwitchFolder(id string) bool {
	return m.mutate("switch_folder", func(t *Tree) (Event, error) {
		p := t.currentProject()
		if p == nil {
			return Event{}, ErrNoProject
		}
		f, _ := p.folder(id)
		if f == nil {
			return Event{}, ErrNotFound
		}
		t.selectFolder(f)
		return Event{Type: EventSwitched, Scope: ScopeFolder, ID: id}, nil
	}) == nil
}

// SwitchFile selects a file of the current folder.
func (m *Manager) SwitchFile(id string) bool {
	return m.mutate("switch_file", func(t *Tree) (Event, error) {
		folder := t.currentFolder()
		if folder == nil {
			return Event{}, ErrNoFolder
		}
		if f, _ := folder.file(id); f == nil {
			return Event{}, ErrNotFound
		}
		t.CurrentFileID = id
		return Event{Type: EventSwitched, Scope: ScopeFile, ID: id}, nil
	}) == nil
}

// ============================================================================
// Creation
// ============================================================================

// CreateProject adds a project with a "Main" folder holding an index.html
// titled after the project. The selection does not move.
func (m *Manager) CreateProject(name string) (string, error) {
	name = strings.TrimSpace(name)
	var created string
	err := m.mutate("create_project", func(t *Tree) (Event, error) {
		if name == "" {
			return Event{}, ErrBlankName
		}
		p := newProject(name)
		t.Projects = append(t.Projects, p)
		created = p.ID
		return Event{Type: EventCreated, Scope: ScopeProject, ID: p.ID}, nil
	})
	return created, err
}

// CreateFolder adds an empty folder to the current project.
func (m *Manager) CreateFolder(name string) (string, error) {
	name = strings.TrimSpace(name)
	var created string
	err := m.mutate("create_folder", func(t *Tree) (Event, error) {
		if name == "" {
			return Event{}, ErrBlankName
		}
		p := t.currentProject()
		if p == nil {
			return Event{}, ErrNoProject
		}
		f := &Folder{ID: id.NewFolderID().String(), Name: name, Files: []*File{}}
		p.Folders = append(p.Folders, f)
		created = f.ID
		return Event{Type: EventCreated, Scope: ScopeFolder, ID: f.ID}, nil
	})
	return created, err
}

// CreateFile adds a file to the pending upload folder if one is set, else
// to the current folder. The kind's extension is appended unless the name
// already ends with it, and code kinds get boilerplate content. The pending
// target is consumed on success.
func (m *Manager) CreateFile(name string, kind filetype.Kind) (string, error) {
	name = strings.TrimSpace(name)
	var created string
	err := m.mutate("create_file", func(t *Tree) (Event, error) {
		if name == "" {
			return Event{}, ErrBlankName
		}
		if !kind.Valid() {
			return Event{}, ErrUnknownKind
		}
		p := t.currentProject()
		if p == nil {
			return Event{}, ErrNoProject
		}
		targetID := t.CurrentFolderID
		if t.PendingUploadFolderID != "" {
			targetID = t.PendingUploadFolderID
		}
		folder, _ := p.folder(targetID)
		if folder == nil {
			return Event{}, ErrNoFolder
		}

		fullName := withExtension(name, kind.Extension())
		f := &File{
			ID:      id.NewFileID().String(),
			Name:    fullName,
			Kind:    kind,
			Content: boilerplate(kind, fullName),
		}
		folder.Files = append(folder.Files, f)
		t.PendingUploadFolderID = ""
		created = f.ID
		return Event{Type: EventCreated, Scope: ScopeFile, ID: f.ID}, nil
	})
	return created, err
}

// ============================================================================
// Rename and delete
// ============================================================================

// RenameItem renames a project (looked up globally), a folder (in the
// current project) or a file (in the current folder). A file keeps its
// extension whatever the new name says.
func (m *Manager) RenameItem(id string, scope Scope, newName string) error {
	newName = strings.TrimSpace(newName)
	return m.mutate("rename_"+string(scope), func(t *Tree) (Event, error) {
		if newName == "" {
			return Event{}, ErrBlankName
		}
		switch scope {
		case ScopeProject:
			p, _ := t.project(id)
			if p == nil {
				return Event{}, ErrNotFound
			}
			p.Name = newName
		case ScopeFolder:
			p := t.currentProject()
			if p == nil {
				return Event{}, ErrNoProject
			}
			f, _ := p.folder(id)
			if f == nil {
				return Event{}, ErrNotFound
			}
			f.Name = newName
		case ScopeFile:
			folder := t.currentFolder()
			if folder == nil {
				return Event{}, ErrNoFolder
			}
			f, _ := folder.file(id)
			if f == nil {
				return Event{}, ErrNotFound
			}
			f.Name = keepExtension(f.Name, newName)
		default:
			return Event{}, ErrInvalidScope
		}
		return Event{Type: EventRenamed, Scope: scope, ID: id}, nil
	})
}

// keepExtension carries the trailing dot-segment of old over to name.
func keepExtension(old, name string) string {
	i := strings.LastIndexByte(old, '.')
	if i < 0 || i == len(old)-1 {
		return name
	}
	return withExtension(name, old[i:])
}

// DeleteProject removes a project unless it is the only one. Deleting the
// selected project selects the first remaining one.
func (m *Manager) DeleteProject(id string) error {
	return m.mutate("delete_project", func(t *Tree) (Event, error) {
		_, i := t.project(id)
		if i < 0 {
			return Event{}, ErrNotFound
		}
		if len(t.Projects) <= 1 {
			return Event{}, ErrLastSibling
		}
		t.Projects = append(t.Projects[:i], t.Projects[i+1:]...)
		if t.CurrentProjectID == id {
			t.selectProject(t.Projects[0])
		}
		return Event{Type: EventDeleted, Scope: ScopeProject, ID: id}, nil
	})
}

// DeleteFolder removes a folder of the current project unless it is the
// only one.
func (m *Manager) DeleteFolder(id string) error {
	return m.mutate("delete_folder", func(t *Tree) (Event, error) {
		p := t.currentProject()
		if p == nil {
			return Event{}, ErrNoProject
		}
		_, i := p.folder(id)
		if i < 0 {
			return Event{}, ErrNotFound
		}
		if len(p.Folders) <= 1 {
			return Event{}, ErrLastSibling
		}
		p.Folders = append(p.Folders[:i], p.Folders[i+1:]...)
		if t.PendingUploadFolderID == id {
			t.PendingUploadFolderID = ""
		}
		if t.CurrentFolderID == id {
			t.selectFolder(p.Folders[0])
		}
		return Event{Type: EventDeleted, Scope: ScopeFolder, ID: id}, nil
	})
}

// DeleteFile removes a file of the current folder unless it is the only one.
func (m *Manager) DeleteFile(id string) error {
	return m.mutate("delete_file", func(t *Tree) (Event, error) {
		folder := t.currentFolder()
		if folder == nil {
			return Event{}, ErrNoFolder
		}
		_, i := folder.file(id)
		if i < 0 {
			return Event{}, ErrNotFound
		}
		if len(folder.Files) <= 1 {
			return Event{}, ErrLastSibling
		}
		folder.Files = append(folder.Files[:i], folder.Files[i+1:]...)
		if t.CurrentFileID == id {
			t.CurrentFileID = folder.Files[0].ID
		}
		return Event{Type: EventDeleted, Scope: ScopeFile, ID: id}, nil
	})
}

// ============================================================================
// Editing
// ============================================================================

// SetCurrentFileContent replaces the text of the selected file. Media
// files are preview-only.
func (m *Manager) SetCurrentFileContent(text string) error {
	return m.mutate("set_content", func(t *Tree) (Event, error) {
		f := t.currentFile()
		if f == nil {
			return Event{}, ErrNoFile
		}
		if !f.Kind.IsCode() {
			return Event{}, ErrNotEditable
		}
		f.Content = text
		return Event{Type: EventContent, Scope: ScopeFile, ID: f.ID}, nil
	})
}

// SetPendingUploadFolder directs the next CreateFile at a folder of the
// current project.
func (m *Manager) SetPendingUploadFolder(id string) error {
	return m.mutate("set_upload_target", func(t *Tree) (Event, error) {
		p := t.currentProject()
		if p == nil {
			return Event{}, ErrNoProject
		}
		if f, _ := p.folder(id); f == nil {
			return Event{}, ErrNotFound
		}
		t.PendingUploadFolderID = id
		return Event{Type: EventUploadTarget, Scope: ScopeFolder, ID: id}, nil
	})
}

// ClearPendingUploadFolder drops the pending target.
func (m *Manager) ClearPendingUploadFolder() {
	_ = m.mutate("clear_upload_target", func(t *Tree) (Event, error) {
		t.PendingUploadFolderID = ""
		return Event{Type: EventUploadTarget, Scope: ScopeFolder}, nil
	})
}

// Reset replaces everything with the first-run tree.
func (m *Manager) Reset() error {
	return m.mutate("reset", func(t *Tree) (Event, error) {
		*t = *DefaultTree()
		return Event{Type: EventReset}, nil
	})
}

// ============================================================================
// Queries (all return copies)
// ============================================================================

// Tree returns a deep copy of the whole tree.
func (m *Manager) Tree() *Tree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Clone()
}

// Project returns a copy of any project by id.
func (m *Manager) Project(id string) (*Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, _ := m.tree.project(id)
	return p.Clone(), p != nil
}

// CurrentProject returns a copy of the selected project.
func (m *Manager) CurrentProject() (*Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.tree.currentProject()
	return p.Clone(), p != nil
}

// CurrentFolder returns a copy of the selected folder.
func (m *Manager) CurrentFolder() (*Folder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := m.tree.currentFolder()
	return f.Clone(), f != nil
}

// CurrentFile returns a copy of the selected file.
func (m *Manager) CurrentFile() (*File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := m.tree.currentFile()
	return f.Clone(), f != nil
}

// Selection is a consistent copy of the current project and file taken
// under one lock, tagged with the revision it was read at.
type Selection struct {
	Project  *Project
	File     *File
	Revision uint64
}

// Selected returns the current project and file together.
func (m *Manager) Selected() Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Selection{
		Project:  m.tree.currentProject().Clone(),
		File:     m.tree.currentFile().Clone(),
		Revision: m.revision,
	}
}

// Stats summarizes the tree and its persistence state.
type Stats struct {
	Projects      int       `json:"projects"`
	Folders       int       `json:"folders"`
	Files         int       `json:"files"`
	Revision      uint64    `json:"revision"`
	SchemaVersion int       `json:"schemaVersion"`
	LastSaved     time.Time `json:"lastSaved"`
	LastSaveError string    `json:"lastSaveError,omitempty"`
}

// Stats returns counts, the revision and the last save outcome.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		Revision:      m.revision,
		SchemaVersion: SchemaVersion,
		LastSaved:     m.lastSaved,
	}
	s.Projects, s.Folders, s.Files = m.tree.Counts()
	if m.lastSaveErr != nil {
		s.LastSaveError = m.lastSaveErr.Error()
	}
	return s
}
