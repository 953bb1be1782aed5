package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu       sync.Mutex
	open     int
	messages map[string]int
}

func (o *countingObserver) IncWSConnections() { o.mu.Lock(); o.open++; o.mu.Unlock() }
func (o *countingObserver) DecWSConnections() { o.mu.Lock(); o.open--; o.mu.Unlock() }
func (o *countingObserver) RecordWSMessage(direction, msgType string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.messages == nil {
		o.messages = make(map[string]int)
	}
	o.messages[direction+":"+msgType]++
}

func (o *countingObserver) connections() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

type fixture struct {
	manager  *workspace.Manager
	hub      *Hub
	observer *countingObserver
	url      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := workspace.Open(context.Background(), storage.NewAdapter(storage.NewMemory(), ""), nil)
	composer, err := preview.NewComposer(8)
	require.NoError(t, err)
	obs := &countingObserver{}
	hub := NewHub(m, preview.NewLive(m, composer, false, nil), nil).WithObserver(obs)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/api/stream", hub.HandleConnection)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		hub.Close()
		cancel()
		srv.Close()
	})
	return &fixture{
		manager:  m,
		hub:      hub,
		observer: obs,
		url:      "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream",
	}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil skips messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for i := 0; i < 20; i++ {
		if msg := read(t, conn); msg.Type == typ {
			return msg
		}
	}
	t.Fatalf("no %s message received", typ)
	return Message{}
}

func TestHelloCarriesPreview(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	hello := read(t, conn)
	assert.Equal(t, TypeHello, hello.Type)
	assert.NotEmpty(t, hello.ClientID)
	assert.Contains(t, hello.HTML, "Welcome to CodeCraft Pro!")
	assert.Eventually(t, func() bool { return f.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMutationsAreStreamed(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)

	require.NoError(t, f.manager.SetCurrentFileContent("<h1>streamed</h1>"))

	ev := readUntil(t, conn, TypeEvent)
	require.NotNil(t, ev.Event)
	assert.Equal(t, workspace.EventContent, ev.Event.Type)

	doc := readUntil(t, conn, TypePreview)
	assert.Contains(t, doc.HTML, "<h1>streamed</h1>")
	assert.GreaterOrEqual(t, doc.Revision, ev.Revision)
}

func TestPingAndPreviewRequest(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: TypePing}))
	assert.Equal(t, TypePong, read(t, conn).Type)

	_, err := f.manager.CreateFile("style.css", filetype.CSS)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Type: TypePreviewRequest}))
	assert.Equal(t, TypePreview, readUntil(t, conn, TypePreview).Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	assert.Equal(t, "unknown message type", readUntil(t, conn, TypeError).Message)
}

func TestBroadcastConsole(t *testing.T) {
	f := newFixture(t)
	a, b := f.dial(t), f.dial(t)
	read(t, a)
	read(t, b)
	require.Eventually(t, func() bool { return f.hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	n := f.hub.Broadcast(Message{Type: TypeConsole, Entries: []ConsoleEntry{{Level: "error", Message: "boom"}}})
	assert.Equal(t, 2, n)

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, TypeConsole, msg.Type)
		require.Len(t, msg.Entries, 1)
		assert.Equal(t, "boom", msg.Entries[0].Message)
		assert.NotZero(t, msg.Timestamp)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	f := newFixture(t)

	// never drained: no write pump
	slow := newClient("slow", nil)
	f.hub.add(slow)

	for i := 0; i < sendBuffer; i++ {
		require.Equal(t, 1, f.hub.Broadcast(Message{Type: TypeConsole}))
	}
	assert.Equal(t, 0, f.hub.Broadcast(Message{Type: TypeConsole}))
	assert.Equal(t, 0, f.hub.Clients())

	select {
	case <-slow.done:
	default:
		t.Fatal("dropped client was not stopped")
	}
	assert.Equal(t, 0, f.observer.connections())
}

func TestDisconnectUnregisters(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return f.hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return f.observer.connections() == 0 }, time.Second, 10*time.Millisecond)
}
