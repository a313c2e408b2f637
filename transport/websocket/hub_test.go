package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func readMessage(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		return message
	case <-time.After(100 * time.Millisecond):
		t.Fatal("No message received within timeout")
	}
	return Message{}
}

func testBoardState() *engine.BoardState {
	return &engine.BoardState{
		ConfigName: "test",
		Width:      5,
		Height:     5,
		Units: []engine.Unit{
			{ID: "knight", Name: "Knight", Cell: engine.Cell{X: 2, Y: 3}, MoveRange: 2},
		},
		State:  engine.StateIdle,
		Cursor: engine.Cell{X: 2, Y: 3},
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil || hub.counts == nil {
		t.Error("Hub channels must be initialised")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed after unregister")
	}

	// A second unregister must not close the channel twice
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)
	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 || !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be the only registered client")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, "broadcast-test")
	other := newTestClient(hub, "other-session")
	hub.register <- client
	hub.register <- other

	hub.BroadcastToSession("broadcast-test", testBoardState())

	message := readMessage(t, client)
	if message.SessionID != "broadcast-test" {
		t.Errorf("Expected sessionID broadcast-test, got %s", message.SessionID)
	}
	if message.Event != EventStateUpdate {
		t.Errorf("Expected event %s, got %s", EventStateUpdate, message.Event)
	}
	if message.BoardState == nil || message.BoardState.Units[0].Cell != (engine.Cell{X: 2, Y: 3}) {
		t.Error("BoardState not correctly transmitted")
	}

	select {
	case <-other.send:
		t.Error("Clients of other sessions must not receive the message")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	done := make(chan bool)

	go func() {
		select {
		case message := <-hub.broadcast:
			if message.SessionID != "event-test" {
				t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
			}
			if message.Event != "custom-event" {
				t.Errorf("Expected event 'custom-event', got %s", message.Event)
			}
			if message.Data != "test-data" {
				t.Errorf("Expected data 'test-data', got %v", message.Data)
			}
			done <- true
		case <-time.After(100 * time.Millisecond):
			t.Error("No broadcast message received within timeout")
			done <- false
		}
	}()

	hub.BroadcastEvent("event-test", "custom-event", "test-data")
	<-done
}

func TestHubBroadcastEventsOrder(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, "order-test")
	hub.register <- client

	path := []engine.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	events := []engine.Event{
		{Type: engine.EventClearOverlays},
		{Type: engine.EventWalk, Unit: "knight", Cells: path},
	}
	hub.BroadcastEvents("order-test", events, testBoardState())

	first := readMessage(t, client)
	second := readMessage(t, client)
	third := readMessage(t, client)

	if first.Event != "clear_overlays" || second.Event != "walk" || third.Event != EventStateUpdate {
		t.Fatalf("Unexpected order: %s, %s, %s", first.Event, second.Event, third.Event)
	}

	raw, _ := json.Marshal(second.Data)
	var walk engine.Event
	if err := json.Unmarshal(raw, &walk); err != nil {
		t.Fatalf("Failed to decode walk event: %v", err)
	}
	if walk.Unit != "knight" || len(walk.Cells) != 3 || walk.Cells[2] != (engine.Cell{X: 1, Y: 1}) {
		t.Errorf("Walk waypoints not transmitted: %+v", walk)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "x"})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Client with a full buffer should be dropped")
	}
}

func newWSServer(hub *Hub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
}

func waitForCount(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := newWSServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForCount(t, hub, "ws-test", 1)

	conn.Close()

	waitForCount(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := newWSServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=msg-test"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForCount(t, hub, "msg-test", 1)

	hub.BroadcastEvents("msg-test", []engine.Event{{Type: engine.EventShowReachable, Cells: []engine.Cell{{X: 2, Y: 3}}}}, testBoardState())

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var events []string
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read WebSocket message: %v", err)
		}
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != "msg-test" {
			t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
		}
		events = append(events, message.Event)
		if message.Event == EventStateUpdate && message.BoardState.Width != 5 {
			t.Error("Board state not correctly received")
		}
	}

	if events[0] != "show_reachable" || events[1] != EventStateUpdate {
		t.Errorf("Unexpected events %v", events)
	}
}

func TestWebSocketUpgradeAfterStop(t *testing.T) {
	// Run already returned, so nothing receives from register
	hub := NewHub()
	hub.Stop()

	server := newWSServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=late"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// The server must close the connection instead of blocking on register
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("Expected a going-away close, got %v", err)
	}
	if hub.ClientCount("late") != 0 {
		t.Error("A stopped hub should not register clients")
	}
}
