package battle

import (
	"context"

	"critter-clash/server/logging"
)

const (
	// EventStarted is emitted when a room is created.
	EventStarted logging.EventType = "battle.started"
	// EventDamage is emitted for every resolved attack.
	EventDamage logging.EventType = "battle.damage"
	// EventFainted is emitted when an active creature faints.
	EventFainted logging.EventType = "battle.fainted"
	// EventEnded is emitted when a room is torn down.
	EventEnded logging.EventType = "battle.ended"
	// EventActionRejected is emitted when a battle action is ignored.
	EventActionRejected logging.EventType = "battle.action_rejected"
)

// StartedPayload describes a new room.
type StartedPayload struct {
	Kind     string `json:"kind"`
	Player1  string `json:"player1"`
	Player2  string `json:"player2"`
	Opponent string `json:"opponent,omitempty"`
}

// DamagePayload captures a single resolved attack.
type DamagePayload struct {
	Move          string  `json:"move"`
	MoveType      string  `json:"moveType"`
	Attacker      string  `json:"attacker"`
	Defender      string  `json:"defender"`
	Amount        int     `json:"amount"`
	Multiplier    float64 `json:"multiplier"`
	RemainingHP   int     `json:"remainingHp"`
	Effectiveness string  `json:"effectiveness,omitempty"`
}

// FaintedPayload names the creature that fainted.
type FaintedPayload struct {
	Side     string `json:"side"`
	Creature string `json:"creature"`
	Wiped    bool   `json:"wiped"`
}

// EndedPayload records how the room ended.
type EndedPayload struct {
	Kind   string `json:"kind"`
	Winner string `json:"winner,omitempty"`
	Loser  string `json:"loser,omitempty"`
	Reason string `json:"reason"`
	Turns  int    `json:"turns"`
}

// ActionRejectedPayload explains why an action was ignored.
type ActionRejectedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Index  int    `json:"index"`
}

// Started publishes a room creation event.
func Started(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, targets []logging.EntityRef, payload StartedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStarted,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBattle,
		Payload:  payload,
		Extra:    extra,
	})
}

// Damage publishes a resolved attack.
func Damage(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamage,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBattle,
		Payload:  payload,
		Extra:    extra,
	})
}

// Fainted publishes a faint.
func Fainted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload FaintedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFainted,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBattle,
		Payload:  payload,
		Extra:    extra,
	})
}

// Ended publishes a room teardown.
func Ended(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload EndedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEnded,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBattle,
		Payload:  payload,
		Extra:    extra,
	})
}

// ActionRejected publishes a debug event for an ignored battle action.
func ActionRejected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ActionRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventActionRejected,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBattle,
		Payload:  payload,
		Extra:    extra,
	})
}
