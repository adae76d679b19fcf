package ws

import (
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	"critter-clash/server"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/telemetry"
)

const defaultMaxMessageSize = 4096

type HandlerConfig struct {
	Logger         telemetry.Logger
	SendBuffer     int
	MaxMessageSize int64
}

// Handler upgrades connections and pumps frames between a socket and the hub.
type Handler struct {
	hub      *server.Hub
	logger   telemetry.Logger
	cfg      HandlerConfig
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultMaxMessageSize
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		cfg:      cfg,
		upgrader: upgrader,
	}
}

// Handle serves one websocket session. The codec query parameter selects
// json (default) or msgpack framing.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	codec, ok := proto.CodecByName(r.URL.Query().Get("codec"))
	if !ok {
		nethttp.Error(w, "unknown codec", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(h.cfg.MaxMessageSize)

	box := newConnOutbox(conn, codec, h.logger, h.cfg.SendBuffer)
	id := h.hub.Join(box, codec.Name())
	counters := h.hub.Counters()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Printf("read failed for %s: %v", id, err)
			}
			h.hub.Disconnect(id)
			<-box.Done()
			return
		}

		in, err := codec.Decode(data)
		if err != nil {
			counters.IncMessagesIn()
			counters.IncMalformed()
			h.logger.Printf("discarding malformed message from %s: %v", id, err)
			continue
		}
		h.hub.Handle(id, in)
	}
}
