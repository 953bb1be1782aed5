package workspace

import "time"

// EventType classifies a committed change.
type EventType string

const (
	EventSwitched     EventType = "switched"
	EventCreated      EventType = "created"
	EventRenamed      EventType = "renamed"
	EventDeleted      EventType = "deleted"
	EventContent      EventType = "content"
	EventUploaded     EventType = "uploaded"
	EventUploadTarget EventType = "upload_target"
	EventReset        EventType = "reset"
	EventLoaded       EventType = "loaded"
)

// Event is published after every successful mutation, once the tree has
// been persisted and the lock released.
type Event struct {
	Type     EventType `json:"type"`
	Scope    Scope     `json:"scope,omitempty"`
	ID       string    `json:"id,omitempty"`
	Revision uint64    `json:"revision"`
	Time     time.Time `json:"time"`
}

// Subscribe registers fn for every future event and returns a function
// that removes it. fn runs on the mutating goroutine and must not block.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subsMu.Lock()
	key := m.nextSub
	m.nextSub++
	m.subs[key] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, key)
		m.subsMu.Unlock()
	}
}

func (m *Manager) publish(ev Event) {
	m.subsMu.RLock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
