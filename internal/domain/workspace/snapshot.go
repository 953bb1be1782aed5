package workspace

import "time"

// Snapshot is a detached copy of one project handed to the exporter.
type Snapshot struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"date"`
	Project   *Project  `json:"content"`
}

// ExportSnapshot copies the current project. Later edits do not show
// through the returned value.
func (m *Manager) ExportSnapshot() (*Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.tree.currentProject()
	if p == nil {
		return nil, false
	}
	return &Snapshot{
		Name:      p.Name,
		Timestamp: m.now().UTC(),
		Project:   p.Clone(),
	}, true
}

// SnapshotOf copies any project by id, for tools that export without
// switching the selection.
func (m *Manager) SnapshotOf(projectID string) (*Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, _ := m.tree.project(projectID)
	if p == nil {
		return nil, false
	}
	return &Snapshot{
		Name:      p.Name,
		Timestamp: m.now().UTC(),
		Project:   p.Clone(),
	}, true
}
