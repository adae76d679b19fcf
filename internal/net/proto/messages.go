package proto

import (
	"critter-clash/server/internal/battle"
	"critter-clash/server/internal/creature"
	"critter-clash/server/internal/session"
	"critter-clash/server/internal/shop"
	"critter-clash/server/internal/world"
)

// Client message type identifiers.
const (
	TypeRequestQueueEntry = "requestQueueEntry"
	TypeChooseMove        = "chooseMove"
	TypeSwitchActive      = "switchActive"
	TypeMove              = "move"
	TypeInteract          = "interact"
	TypeGetShopCatalog    = "getShopCatalog"
	TypeBuyUpgrade        = "buyUpgrade"
	TypeHealParty         = "healParty"
)

// Server message type identifiers.
const (
	TypeEnteredHub           = "enteredHub"
	TypeMapUpdated           = "mapUpdated"
	TypeQueueWaiting         = "queueWaiting"
	TypeBattleStarted        = "battleStarted"
	TypeBattleStateUpdated   = "battleStateUpdated"
	TypeCombatLogLine        = "combatLogLine"
	TypeForceSwitchPrompt    = "forceSwitchPrompt"
	TypePlayerStateUpdated   = "playerStateUpdated"
	TypeBattleEnded          = "battleEnded"
	TypeOpponentDisconnected = "opponentDisconnected"
	TypeShopCatalog          = "shopCatalog"
)

// Envelope is the frame shared by every message in both directions.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// MovePayload accepts either a direction letter or explicit deltas.
type MovePayload struct {
	Direction string `json:"direction,omitempty"`
	DX        int    `json:"dx,omitempty"`
	DY        int    `json:"dy,omitempty"`
}

// Delta resolves the requested step. Direction letters win over deltas.
func (p MovePayload) Delta() (int, int, bool) {
	switch p.Direction {
	case "w":
		return 0, -1, true
	case "s":
		return 0, 1, true
	case "a":
		return -1, 0, true
	case "d":
		return 1, 0, true
	case "":
		if p.DX == 0 && p.DY == 0 {
			return 0, 0, false
		}
		return p.DX, p.DY, true
	default:
		return 0, 0, false
	}
}

// ChooseMovePayload selects a move slot. A missing index is rejected.
type ChooseMovePayload struct {
	MoveIndex *int `json:"moveIndex"`
}

// SwitchActivePayload selects a party slot. A missing index is rejected.
type SwitchActivePayload struct {
	PokemonIndex *int `json:"pokemonIndex"`
}

// BuyUpgradePayload names the upgrade to purchase.
type BuyUpgradePayload struct {
	UpgradeID string `json:"upgradeId"`
}

// PlayerState is the session as seen by its owner.
type PlayerState struct {
	ID       string           `json:"id"`
	State    session.State    `json:"state"`
	Party    creature.Party   `json:"party"`
	Currency int              `json:"currency"`
	Upgrades session.Upgrades `json:"upgrades"`
	Location world.Location   `json:"location"`
	RoomID   string           `json:"roomId,omitempty"`
}

// NewPlayerState renders the session for the wire. The result shares no
// memory with the session, so it may be encoded after the hub lock is
// released.
func NewPlayerState(s *session.Session) PlayerState {
	upgrades := s.Upgrades
	upgrades.Levels = make(map[string]int, len(s.Upgrades.Levels))
	for id, level := range s.Upgrades.Levels {
		upgrades.Levels[id] = level
	}
	return PlayerState{
		ID:       s.ID,
		State:    s.State,
		Party:    s.Party.Clone(),
		Currency: s.Currency,
		Upgrades: upgrades,
		Location: s.Location,
		RoomID:   s.RoomID,
	}
}

// MapView is the visible screen around a player.
type MapView struct {
	Location world.Location  `json:"location"`
	MapGrid  [][]world.Tile  `json:"mapGrid"`
	Trainers []world.Trainer `json:"trainers"`
}

// NewMapView renders m for a player standing at loc.
func NewMapView(loc world.Location, m *world.Map) MapView {
	view := MapView{Location: loc, Trainers: []world.Trainer{}}
	if m != nil {
		view.MapGrid = m.Rows()
		view.Trainers = append(view.Trainers, m.Trainers...)
	}
	return view
}

// EnteredHub is sent on connect and whenever a battle ends.
type EnteredHub struct {
	MapView
	PlayerState PlayerState `json:"playerState"`
}

// SlotView is one side of a room.
type SlotView struct {
	ID                 string         `json:"id,omitempty"`
	Name               string         `json:"name"`
	Party              creature.Party `json:"party"`
	ActivePokemonIndex int            `json:"activePokemonIndex"`
}

// RoomState is the shared battle state broadcast to both sides.
type RoomState struct {
	RoomID   string              `json:"roomId"`
	Kind     battle.Kind         `json:"kind"`
	Phase    battle.Phase        `json:"phase"`
	Turn     battle.Side         `json:"turn"`
	Awaiting battle.Side         `json:"awaiting,omitempty"`
	Players  map[string]SlotView `json:"players"`
}

// NewRoomState renders a detached copy of room for the wire.
func NewRoomState(room *battle.Room) RoomState {
	state := RoomState{
		RoomID:   room.ID,
		Kind:     room.Kind,
		Phase:    room.Phase,
		Turn:     room.Turn,
		Awaiting: room.Awaiting,
		Players:  make(map[string]SlotView, 2),
	}
	for _, side := range []battle.Side{battle.Player1, battle.Player2} {
		slot := room.Slot(side)
		if slot == nil {
			continue
		}
		state.Players[string(side)] = SlotView{
			ID:                 slot.SessionID,
			Name:               slot.Name,
			Party:              slot.Party.Clone(),
			ActivePokemonIndex: slot.Active,
		}
	}
	return state
}

// RoomPayload wraps a room snapshot for battleStarted and battleStateUpdated.
type RoomPayload struct {
	RoomState RoomState `json:"roomState"`
	You       string    `json:"you,omitempty"`
}

// CombatLogLine carries one line of battle narration.
type CombatLogLine struct {
	Text string `json:"text"`
}

// SwitchChoice is an eligible replacement for a fainted creature.
type SwitchChoice struct {
	Index    int                `json:"index"`
	Creature *creature.Creature `json:"creature"`
}

// ForceSwitchPrompt asks the owner of a fainted creature for a replacement.
type ForceSwitchPrompt struct {
	Title           string         `json:"title"`
	EligibleChoices []SwitchChoice `json:"eligibleChoices"`
}

// PlayerStateUpdated carries the owner's latest session state.
type PlayerStateUpdated struct {
	PlayerState PlayerState `json:"playerState"`
}

// Outcome summarises a finished battle for one participant.
type Outcome struct {
	Result  string `json:"result"`
	Reason  string `json:"reason"`
	Kind    string `json:"kind"`
	Earned  int    `json:"earned"`
	Balance int    `json:"balance"`
	Summary string `json:"summary"`
}

// Outcome results.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// BattleEnded reports the outcome to each participant.
type BattleEnded struct {
	Outcome Outcome `json:"outcome"`
}

// ShopCatalog lists the offers priced for the requesting session.
type ShopCatalog struct {
	Items    []shop.Offer `json:"items"`
	Currency int          `json:"currency"`
}
