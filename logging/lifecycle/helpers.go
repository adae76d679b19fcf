package lifecycle

import (
	"context"

	"critter-clash/server/logging"
)

const (
	// EventPlayerJoined is emitted when a session connects.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerDisconnected is emitted when a session is removed.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	// EventStateChanged is emitted on every lifecycle transition.
	EventStateChanged logging.EventType = "lifecycle.state_changed"
	// EventStateRejected is emitted when a request is illegal in the current state.
	EventStateRejected logging.EventType = "lifecycle.state_rejected"
)

// PlayerJoinedPayload captures spawn metadata for a new session.
type PlayerJoinedPayload struct {
	MapX  int    `json:"mapX"`
	MapY  int    `json:"mapY"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Codec string `json:"codec,omitempty"`
}

// PlayerDisconnectedPayload captures the state a session left from.
type PlayerDisconnectedPayload struct {
	State  string `json:"state"`
	RoomID string `json:"roomId,omitempty"`
}

// StateChangedPayload records a lifecycle transition.
type StateChangedPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	RoomID string `json:"roomId,omitempty"`
}

// StateRejectedPayload explains why a request was ignored.
type StateRejectedPayload struct {
	Request string `json:"request"`
	State   string `json:"state"`
	Reason  string `json:"reason"`
}

// PlayerJoined publishes a session join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PlayerJoinedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}

// PlayerDisconnected publishes a session removal event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PlayerDisconnectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDisconnected,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}

// StateChanged publishes a lifecycle transition.
func StateChanged(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload StateChangedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateChanged,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}

// StateRejected publishes a debug event for an illegal request.
func StateRejected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload StateRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateRejected,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}
