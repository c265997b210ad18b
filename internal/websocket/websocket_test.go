package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/services"
	"github.com/abrezinsky/beastreader/internal/testutil"
)

func newTestSource(t *testing.T) *services.BuilderService {
	t.Helper()
	svc := services.NewBuilderService(logger.NewDiscard(), testutil.NewTestRepository(t), testutil.NewTestCatalog(t))
	svc.SetClock(testutil.FixedClock(testutil.NYTime(t, 2026, time.October, 16, 14, 0)))
	if _, err := svc.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return svc
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.source == nil {
		t.Error("expected source to be set")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("expected channels to be initialized")
	}
}

func TestHub_BroadcastMessage(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()

	done := make(chan bool)
	go func() {
		hub.BroadcastMessage("test", map[string]string{"key": "value"})
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastMessage blocked with no clients")
	}
}

func TestHub_ImplementsBroadcaster(t *testing.T) {
	var _ services.Broadcaster = (*Hub)(nil)
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected client to be unregistered, got %d", hub.ClientCount())
	}
}

func TestHub_StartCutoffWatch_ContextCancellation(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan bool)

	go func() {
		hub.StartCutoffWatch(ctx, 10*time.Millisecond)
		stopped <- true
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(500 * time.Millisecond):
		t.Error("cutoff watch did not stop when context was cancelled")
	}
}

// ==================== WebSocket Integration Tests ====================

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	return msg
}

func messageType(t *testing.T, msg map[string]json.RawMessage) string {
	t.Helper()
	var typ string
	json.Unmarshal(msg["type"], &typ)
	return typ
}

func TestServeWs_InitialMessages(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()
	ws := dial(t, hub)

	first := readMessage(t, ws)
	if typ := messageType(t, first); typ != MessageState {
		t.Fatalf("expected state message first, got %s", typ)
	}
	var state services.StateView
	if err := json.Unmarshal(first["payload"], &state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if len(state.SelectedTracks) == 0 {
		t.Error("expected default tracks in initial state")
	}

	second := readMessage(t, ws)
	if typ := messageType(t, second); typ != MessageTracks {
		t.Fatalf("expected tracks message second, got %s", typ)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}
}

func TestServeWs_BroadcastTicket(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()
	ws := dial(t, hub)

	readMessage(t, ws)
	readMessage(t, ws)

	hub.BroadcastTicket(&models.Ticket{Number: "T-ABCDEF12"})

	msg := readMessage(t, ws)
	if typ := messageType(t, msg); typ != MessageTicketIssued {
		t.Fatalf("expected ticket_issued, got %s", typ)
	}
	var ticket models.Ticket
	json.Unmarshal(msg["payload"], &ticket)
	if ticket.Number != "T-ABCDEF12" {
		t.Errorf("expected ticket number T-ABCDEF12, got %s", ticket.Number)
	}
}

func TestServeWs_CutoffWatchBroadcastsTracks(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()
	ws := dial(t, hub)

	readMessage(t, ws)
	readMessage(t, ws)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.StartCutoffWatch(ctx, 20*time.Millisecond)

	msg := readMessage(t, ws)
	if typ := messageType(t, msg); typ != MessageTracks {
		t.Fatalf("expected tracks message, got %s", typ)
	}
	var categories []struct {
		Name   string `json:"name"`
		Tracks []struct {
			ID        string `json:"id"`
			Expired   bool   `json:"expired"`
			Remaining string `json:"remaining"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(msg["payload"], &categories); err != nil {
		t.Fatalf("failed to decode tracks: %v", err)
	}
	// at 14:00 New York Mid Day (14:20) is open, New Jersey Mid Day (12:50) is closed
	for _, cat := range categories {
		for _, tr := range cat.Tracks {
			switch tr.ID {
			case "New York Mid Day":
				if tr.Expired || tr.Remaining != "20m" {
					t.Errorf("expected New York Mid Day open with 20m left, got %+v", tr)
				}
			case "New Jersey Mid Day":
				if !tr.Expired {
					t.Error("expected New Jersey Mid Day to be closed")
				}
			}
		}
	}
}

func TestHub_Stop(t *testing.T) {
	hub := New(logger.NewDiscard(), newTestSource(t))
	hub.Start()
	ws := dial(t, hub)

	readMessage(t, ws)
	readMessage(t, ws)

	hub.Stop()
	hub.Stop()

	select {
	case <-hub.Stopped():
	default:
		t.Fatal("expected hub loop to have exited")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected clients to be dropped, got %d", hub.ClientCount())
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("expected connection to be closed after Stop")
	}

	done := make(chan bool)
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastMessage("test", nil)
		}
		done <- true
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("BroadcastMessage blocked after Stop")
	}
}
