package world

import (
	"context"

	"critter-clash/server/logging"
)

const (
	// EventMapGenerated is emitted when a map screen is generated.
	EventMapGenerated logging.EventType = "world.map_generated"
	// EventMapEvicted is emitted when an idle map leaves the cache.
	EventMapEvicted logging.EventType = "world.map_evicted"
	// EventEncounterTriggered is emitted when tall grass starts a wild battle.
	EventEncounterTriggered logging.EventType = "world.encounter_triggered"
)

// MapGeneratedPayload describes a generated map.
type MapGeneratedPayload struct {
	MapX     int `json:"mapX"`
	MapY     int `json:"mapY"`
	Trainers int `json:"trainers"`
}

// MapEvictedPayload describes an evicted map.
type MapEvictedPayload struct {
	MapX   int `json:"mapX"`
	MapY   int `json:"mapY"`
	Cached int `json:"cached"`
}

// EncounterTriggeredPayload locates a wild encounter.
type EncounterTriggeredPayload struct {
	MapX     int    `json:"mapX"`
	MapY     int    `json:"mapY"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Creature string `json:"creature"`
	Type     string `json:"type"`
}

// MapGenerated publishes a map generation event.
func MapGenerated(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload MapGeneratedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMapGenerated,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryWorld,
		Payload:  payload,
		Extra:    extra,
	})
}

// MapEvicted publishes a cache eviction.
func MapEvicted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload MapEvictedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMapEvicted,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryWorld,
		Payload:  payload,
		Extra:    extra,
	})
}

// EncounterTriggered publishes a wild encounter start.
func EncounterTriggered(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload EncounterTriggeredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEncounterTriggered,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryWorld,
		Payload:  payload,
		Extra:    extra,
	})
}
