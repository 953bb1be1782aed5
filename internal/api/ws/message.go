package ws

import (
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
)

// Message types sent by the server.
const (
	TypeHello   = "hello"
	TypeEvent   = "event"
	TypePreview = "preview"
	TypeConsole = "console"
	TypePong    = "pong"
	TypeError   = "error"
)

// Message types sent by clients.
const (
	TypePing           = "ping"
	TypePreviewRequest = "preview"
)

// ConsoleEntry is one line of preview console output relayed to viewers.
type ConsoleEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Message is the single envelope used in both directions.
type Message struct {
	Type      string           `json:"type"`
	ClientID  string           `json:"clientId,omitempty"`
	Event     *workspace.Event `json:"event,omitempty"`
	HTML      string           `json:"html,omitempty"`
	Revision  uint64           `json:"revision,omitempty"`
	Entries   []ConsoleEntry   `json:"entries,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

func stamp(m Message) Message {
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().Unix()
	}
	return m
}
