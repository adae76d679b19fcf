package ws

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"critter-clash/server"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/telemetry"
)

type wireFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func discardLogger() telemetry.Logger {
	return telemetry.WrapLogger(log.New(io.Discard, "", 0))
}

func newTestServer(t *testing.T) (*server.Hub, *httptest.Server) {
	t.Helper()
	cfg := server.DefaultHubConfig()
	cfg.Seed = 7
	cfg.Logger = discardLogger()
	hub := server.NewHubWithConfig(cfg, nil)

	handler := NewHandler(hub, HandlerConfig{Logger: discardLogger()})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, baseURL, codec string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, baseURL, codec), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func websocketURL(t *testing.T, baseURL, codec string) string {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.Path = "/"
	if codec != "" {
		query := parsed.Query()
		query.Set("codec", codec)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func readJSON(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if messageType != websocket.TextMessage {
		t.Fatalf("expected a text frame, got %d", messageType)
	}
	var frame wireFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	return frame
}

// readUntil skips frames until one of messageType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, messageType string) wireFrame {
	t.Helper()
	for i := 0; i < 16; i++ {
		frame := readJSON(t, conn)
		if frame.Type == messageType {
			return frame
		}
	}
	t.Fatalf("never received %s", messageType)
	return wireFrame{}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestHandleSendsHubViewOnConnect(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv.URL, "")

	frame := readJSON(t, conn)
	if frame.Type != proto.TypeEnteredHub {
		t.Fatalf("expected enteredHub, got %s", frame.Type)
	}
	var view struct {
		MapGrid     [][]int `json:"mapGrid"`
		PlayerState struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"playerState"`
	}
	if err := json.Unmarshal(frame.Payload, &view); err != nil {
		t.Fatalf("failed to decode hub view: %v", err)
	}
	if view.PlayerState.ID == "" || view.PlayerState.State != "hub" || len(view.MapGrid) == 0 {
		t.Fatalf("unexpected hub view %+v", view.PlayerState)
	}
	if got := hub.DiagnosticsSnapshot().Sessions; got != 1 {
		t.Fatalf("expected one session, got %d", got)
	}
}

func TestHandleRoutesCommandsToHub(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv.URL, proto.CodecJSON)
	readJSON(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": proto.TypeGetShopCatalog}); err != nil {
		t.Fatalf("failed to send: %v", err)
	}

	frame := readUntil(t, conn, proto.TypeShopCatalog)
	var catalog proto.ShopCatalog
	if err := json.Unmarshal(frame.Payload, &catalog); err != nil {
		t.Fatalf("failed to decode catalog: %v", err)
	}
	if len(catalog.Items) == 0 {
		t.Fatalf("expected catalog items")
	}
}

func TestHandlePairsTwoConnections(t *testing.T) {
	_, srv := newTestServer(t)
	first := dial(t, srv.URL, "")
	second := dial(t, srv.URL, "")
	readJSON(t, first)
	readJSON(t, second)

	first.WriteJSON(map[string]any{"type": proto.TypeRequestQueueEntry})
	readUntil(t, first, proto.TypeQueueWaiting)
	second.WriteJSON(map[string]any{"type": proto.TypeRequestQueueEntry})

	for _, conn := range []*websocket.Conn{first, second} {
		frame := readUntil(t, conn, proto.TypeBattleStarted)
		var payload struct {
			RoomState struct {
				Turn string `json:"turn"`
			} `json:"roomState"`
		}
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			t.Fatalf("failed to decode battle start: %v", err)
		}
		if payload.RoomState.Turn != "player1" {
			t.Fatalf("expected player1 to start, got %q", payload.RoomState.Turn)
		}
	}

	second.Close()
	readUntil(t, first, proto.TypeOpponentDisconnected)
}

func TestHandleCountsMalformedFrames(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv.URL, "")
	readJSON(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`))
	conn.WriteJSON(map[string]any{"type": proto.TypeGetShopCatalog})
	readUntil(t, conn, proto.TypeShopCatalog)

	if got := hub.Counters().Snapshot().Malformed; got != 2 {
		t.Fatalf("expected two malformed frames, got %d", got)
	}
}

func TestHandleRejectsUnknownCodec(t *testing.T) {
	_, srv := newTestServer(t)
	_, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "xml"), nil)
	if err == nil {
		t.Fatalf("expected the dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown codec")
	}
	resp.Body.Close()
}

func TestHandleMsgpackCodec(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv.URL, proto.CodecMsgpack)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if messageType != websocket.BinaryMessage {
		t.Fatalf("expected a binary frame, got %d", messageType)
	}
	var frame struct {
		Type    string             `msgpack:"type"`
		Payload msgpack.RawMessage `msgpack:"payload"`
	}
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode msgpack frame: %v", err)
	}
	if frame.Type != proto.TypeEnteredHub {
		t.Fatalf("expected enteredHub, got %s", frame.Type)
	}

	request, err := msgpack.Marshal(map[string]any{"type": proto.TypeGetShopCatalog})
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, request); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	_, payload, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if frame.Type != proto.TypeShopCatalog {
		t.Fatalf("expected shopCatalog, got %s", frame.Type)
	}
}

func TestHandleDisconnectRemovesSession(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv.URL, "")
	readJSON(t, conn)

	conn.Close()

	waitFor(t, func() bool { return hub.DiagnosticsSnapshot().Sessions == 0 })
}

type blockingWriter struct {
	mu      sync.Mutex
	release chan struct{}
	frames  [][]byte
	closed  bool
	failAll bool
}

func (w *blockingWriter) SetWriteDeadline(time.Time) error { return nil }

func (w *blockingWriter) WriteMessage(_ int, data []byte) error {
	if w.release != nil {
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAll {
		return errors.New("broken pipe")
	}
	w.frames = append(w.frames, data)
	return nil
}

func (w *blockingWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func TestOutboxReportsFullBuffer(t *testing.T) {
	writer := &blockingWriter{release: make(chan struct{})}
	box := newConnOutbox(writer, proto.JSONCodec{}, discardLogger(), 1)

	env := proto.Envelope{Type: proto.TypeQueueWaiting}
	accepted := 0
	for i := 0; i < 4; i++ {
		if box.Send(env) {
			accepted++
		}
	}
	// One frame may be held by the writer and one sits in the buffer.
	if accepted < 1 || accepted > 2 {
		t.Fatalf("expected the bounded buffer to refuse frames, accepted %d", accepted)
	}

	box.Close()
	close(writer.release)
	<-box.Done()
	if box.Send(env) {
		t.Fatalf("closed outbox must refuse frames")
	}
	writer.mu.Lock()
	defer writer.mu.Unlock()
	if !writer.closed {
		t.Fatalf("expected the connection to be closed")
	}
}

func TestOutboxStopsAfterWriteFailure(t *testing.T) {
	writer := &blockingWriter{failAll: true}
	box := newConnOutbox(writer, proto.JSONCodec{}, discardLogger(), 4)

	box.Send(proto.Envelope{Type: proto.TypeQueueWaiting})
	<-box.Done()

	if box.Send(proto.Envelope{Type: proto.TypeQueueWaiting}) {
		t.Fatalf("expected sends to fail after a write error")
	}
	box.Close()
}
