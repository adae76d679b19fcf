package server

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"critter-clash/server/internal/battle"
	"critter-clash/server/internal/clock"
	"critter-clash/server/internal/config"
	"critter-clash/server/internal/creature"
	"critter-clash/server/internal/match"
	"critter-clash/server/internal/net/intake"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/session"
	"critter-clash/server/internal/shop"
	"critter-clash/server/internal/telemetry"
	"critter-clash/server/internal/world"
	"critter-clash/server/logging"
	lifecyclelog "critter-clash/server/logging/lifecycle"
)

// Outbox delivers envelopes to one connection. Send must not block; a false
// return means the connection can no longer be written and is dropped.
type Outbox interface {
	Send(env proto.Envelope) bool
	Close()
}

// HubConfig bundles the hub's tunables and collaborators.
type HubConfig struct {
	Game      config.Game
	// Seed drives battle randomness and, when Game.World.Seed is empty, the
	// overworld layout. Zero picks a time-based seed.
	Seed      int64
	Scheduler clock.Scheduler
	Catalog   *shop.Catalog
	Logger    telemetry.Logger
	Counters  *telemetry.Counters
	Language  language.Tag
}

// DefaultHubConfig returns the production defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Game:      config.Default(),
		Scheduler: clock.Real{},
		Language:  language.English,
	}
}

// Hub owns every session, room, and generated map. One mutex serialises
// inbound handlers and timer callbacks.
type Hub struct {
	mu     sync.Mutex
	sendMu sync.Mutex

	cfg        config.Game
	sessions   *session.Registry
	outboxes   map[string]Outbox
	rooms      *battle.Table
	matchmaker *match.Matchmaker
	worlds     *world.Cache
	engine     *battle.Engine
	catalog    *shop.Catalog
	rng        *rand.Rand
	scheduler  clock.Scheduler

	publisher logging.Publisher
	logger    telemetry.Logger
	counters  *telemetry.Counters
	printer   *message.Printer
}

// NewHubWithConfig constructs a hub publishing domain events to pub.
func NewHubWithConfig(cfg HubConfig, pub logging.Publisher) *Hub {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = clock.Real{}
	}
	counters := cfg.Counters
	if counters == nil {
		counters = &telemetry.Counters{}
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = shop.DefaultCatalog()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tag := cfg.Language
	if tag == language.Und {
		tag = language.English
	}

	game := cfg.Game.Normalized()
	if game.World.Seed == "" {
		game.World.Seed = strconv.FormatInt(seed, 10)
	}
	rng := rand.New(rand.NewSource(seed))

	return &Hub{
		cfg:        game,
		sessions:   session.NewRegistry(),
		outboxes:   make(map[string]Outbox),
		rooms:      battle.NewTable(),
		matchmaker: match.New(),
		worlds:     world.NewCache(game.World, pub),
		engine:     battle.NewEngine(creature.DefaultChart(), rand.New(rand.NewSource(rng.Int63()))),
		catalog:    catalog,
		rng:        rng,
		scheduler:  scheduler,
		publisher:  pub,
		logger:     logger,
		counters:   counters,
		printer:    message.NewPrinter(tag),
	}
}

// Counters exposes the hub's message and battle counters.
func (h *Hub) Counters() *telemetry.Counters {
	return h.counters
}

type delivery struct {
	id  string
	env proto.Envelope
}

// outbound collects the messages one handler produces.
type outbound []delivery

func (o *outbound) to(id, messageType string, payload any) {
	*o = append(*o, delivery{id: id, env: proto.Envelope{Type: messageType, Payload: payload}})
}

func (o *outbound) toAll(ids []string, messageType string, payload any) {
	for _, id := range ids {
		o.to(id, messageType, payload)
	}
}

type addressed struct {
	id  string
	box Outbox
	env proto.Envelope
}

// commit resolves recipients, releases h.mu, and delivers. It must be called
// with h.mu held. Handing over to sendMu before unlocking keeps batches in
// handler order.
func (h *Hub) commit(out outbound) {
	batch := make([]addressed, 0, len(out))
	for _, d := range out {
		if box, ok := h.outboxes[d.id]; ok {
			batch = append(batch, addressed{id: d.id, box: box, env: d.env})
		}
	}
	h.sendMu.Lock()
	h.mu.Unlock()

	var failed []string
	for _, a := range batch {
		if a.box.Send(a.env) {
			h.counters.IncMessagesOut()
			continue
		}
		h.counters.IncMessagesDropped()
		failed = append(failed, a.id)
	}
	h.sendMu.Unlock()

	seen := make(map[string]struct{}, len(failed))
	for _, id := range failed {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		h.logger.Printf("dropping session %s after failed delivery", id)
		h.Disconnect(id)
	}
}

// Join registers a new session bound to outbox and sends its hub view.
func (h *Hub) Join(outbox Outbox, codec string) string {
	h.mu.Lock()
	id := "player-" + uuid.NewString()
	s := session.New(id, creature.GenerateParty(h.rng, h.cfg.PartySize, creature.Modifiers{}))
	h.sessions.Insert(s)
	h.outboxes[id] = outbox
	m := h.worlds.Pin(s.Location.Coord())

	lifecyclelog.PlayerJoined(context.Background(), h.publisher, logging.PlayerRef(id), lifecyclelog.PlayerJoinedPayload{
		MapX:  s.Location.MapX,
		MapY:  s.Location.MapY,
		X:     s.Location.X,
		Y:     s.Location.Y,
		Codec: codec,
	}, nil)

	var out outbound
	h.enterHubLocked(s, m, &out)
	h.commit(out)
	return id
}

// Disconnect removes the session, tearing down any room it held. It is safe
// to call more than once.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	s, ok := h.sessions.Get(id)
	if !ok {
		h.mu.Unlock()
		return
	}

	var out outbound
	ctx := context.Background()
	lifecyclelog.PlayerDisconnected(ctx, h.publisher, logging.PlayerRef(id), lifecyclelog.PlayerDisconnectedPayload{
		State:  string(s.State),
		RoomID: s.RoomID,
	}, nil)

	if s.State == session.StateQueued {
		h.matchmaker.Cancel(id)
	}
	if room, ok := h.rooms.Get(s.RoomID); ok {
		h.abandonRoomLocked(room, id, &out)
	}

	h.sessions.Remove(id)
	h.worlds.Unpin(s.Location.Coord())
	box := h.outboxes[id]
	delete(h.outboxes, id)
	h.commit(out)

	if box != nil {
		box.Close()
	}
}

type handlerFunc func(h *Hub, s *session.Session, cmd intake.Command, out *outbound)

var dispatch = map[string]handlerFunc{
	proto.TypeRequestQueueEntry: (*Hub).handleRequestQueue,
	proto.TypeChooseMove:        (*Hub).handleChooseMove,
	proto.TypeSwitchActive:      (*Hub).handleSwitchActive,
	proto.TypeMove:              (*Hub).handleMove,
	proto.TypeInteract:          (*Hub).handleInteract,
	proto.TypeGetShopCatalog:    (*Hub).handleShopCatalog,
	proto.TypeBuyUpgrade:        (*Hub).handleBuyUpgrade,
	proto.TypeHealParty:         (*Hub).handleHealParty,
}

// Handle stages and dispatches one inbound message for session id.
// Malformed or illegal requests are dropped without a reply.
func (h *Hub) Handle(id string, in proto.Inbound) {
	h.counters.IncMessagesIn()
	cmd, ok, reason := intake.StageClientCommand(in)
	if !ok {
		h.counters.IncMalformed()
		h.logger.Printf("discarding %q from %s: %s", in.Type, id, reason)
		return
	}
	handler, ok := dispatch[cmd.Type]
	if !ok {
		h.counters.IncMalformed()
		return
	}

	h.mu.Lock()
	s, ok := h.sessions.Get(id)
	if !ok {
		h.mu.Unlock()
		return
	}
	var out outbound
	handler(h, s, cmd, &out)
	h.commit(out)
}

// rejectLocked records an ignored request.
func (h *Hub) rejectLocked(s *session.Session, request, reason string) {
	h.counters.IncRejected()
	lifecyclelog.StateRejected(context.Background(), h.publisher, logging.PlayerRef(s.ID), lifecyclelog.StateRejectedPayload{
		Request: request,
		State:   string(s.State),
		Reason:  reason,
	}, nil)
}

func (h *Hub) transitionLocked(s *session.Session, from session.State) {
	if from == s.State {
		return
	}
	lifecyclelog.StateChanged(context.Background(), h.publisher, logging.PlayerRef(s.ID), lifecyclelog.StateChangedPayload{
		From:   string(from),
		To:     string(s.State),
		RoomID: s.RoomID,
	}, nil)
}

func (h *Hub) enterHubLocked(s *session.Session, m *world.Map, out *outbound) {
	if m == nil {
		m = h.worlds.GetOrCreate(s.Location.Coord())
	}
	out.to(s.ID, proto.TypeEnteredHub, proto.EnteredHub{
		MapView:     proto.NewMapView(s.Location, m),
		PlayerState: proto.NewPlayerState(s),
	})
}

func (h *Hub) sendPlayerStateLocked(s *session.Session, out *outbound) {
	out.to(s.ID, proto.TypePlayerStateUpdated, proto.PlayerStateUpdated{PlayerState: proto.NewPlayerState(s)})
}

func (h *Hub) logLineLocked(ids []string, text string, out *outbound) {
	out.toAll(ids, proto.TypeCombatLogLine, proto.CombatLogLine{Text: text})
}

// Diagnostics summarises hub state for the diagnostics endpoint.
type Diagnostics struct {
	Sessions    int                        `json:"sessions"`
	States      map[session.State]int      `json:"states"`
	Rooms       int                        `json:"rooms"`
	RoomIDs     []string                   `json:"roomIds"`
	RoomsByKind map[battle.Kind]int        `json:"roomsByKind"`
	Waiting     bool                       `json:"waiting"`
	Maps        world.CacheStats           `json:"maps"`
	Counters    telemetry.CountersSnapshot `json:"counters"`
	Config      config.Game                `json:"config"`
}

// DiagnosticsSnapshot captures a consistent view of the hub.
func (h *Hub) DiagnosticsSnapshot() Diagnostics {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, waiting := h.matchmaker.Waiting()
	return Diagnostics{
		Sessions:    h.sessions.Len(),
		States:      h.sessions.CountByState(),
		Rooms:       h.rooms.Len(),
		RoomIDs:     h.rooms.IDs(),
		RoomsByKind: h.rooms.CountByKind(),
		Waiting:     waiting,
		Maps:        h.worlds.Stats(),
		Counters:    h.counters.Snapshot(),
		Config:      h.cfg,
	}
}
