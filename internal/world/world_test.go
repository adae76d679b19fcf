package world

import (
	"testing"

	"critter-clash/server/logging/sinks"
	worldlog "critter-clash/server/logging/world"
)

func TestStepWrapsAcrossEdges(t *testing.T) {
	cases := []struct {
		name   string
		from   Location
		dx, dy int
		want   Location
	}{
		{name: "left", from: Location{MapX: 0, MapY: 0, X: 0, Y: 5}, dx: -1, want: Location{MapX: -1, MapY: 0, X: Width - 1, Y: 5}},
		{name: "right", from: Location{MapX: 2, MapY: 0, X: Width - 1, Y: 5}, dx: 1, want: Location{MapX: 3, MapY: 0, X: 0, Y: 5}},
		{name: "up", from: Location{MapX: 0, MapY: 0, X: 4, Y: 0}, dy: -1, want: Location{MapX: 0, MapY: -1, X: 4, Y: Height - 1}},
		{name: "down", from: Location{MapX: 0, MapY: 1, X: 4, Y: Height - 1}, dy: 1, want: Location{MapX: 0, MapY: 2, X: 4, Y: 0}},
		{name: "clamped", from: Location{X: 5, Y: 5}, dx: 7, dy: -3, want: Location{X: 6, Y: 4}},
		{name: "interior", from: Location{X: 5, Y: 5}, dx: 1, want: Location{X: 6, Y: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.Step(tc.dx, tc.dy); got != tc.want {
				t.Fatalf("Step(%d,%d) from %+v = %+v, want %+v", tc.dx, tc.dy, tc.from, got, tc.want)
			}
		})
	}
}

func TestOriginHasSpecialTiles(t *testing.T) {
	c := NewCache(DefaultConfig(), nil)
	origin := c.GetOrCreate(Origin)
	if origin.At(ShrineCell) != TileShrine || origin.At(ShopCell) != TileShop || origin.At(HealerCell) != TileHealer {
		t.Fatalf("origin missing special tiles")
	}
	for _, trainer := range origin.Trainers {
		if trainer.Point() == Spawn.Point() {
			t.Fatalf("trainer placed on the spawn cell")
		}
		if origin.At(trainer.Point()).Special() {
			t.Fatalf("trainer placed on a special tile")
		}
	}

	other := c.GetOrCreate(Coord{X: 1, Y: 0})
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if other.Grid[y][x].Special() {
				t.Fatalf("special tile generated away from the origin at %d,%d", x, y)
			}
		}
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	c := NewCache(DefaultConfig(), nil)
	first := c.GetOrCreate(Coord{X: 3, Y: -2})
	second := c.GetOrCreate(Coord{X: 3, Y: -2})
	if first != second {
		t.Fatalf("expected the cached map to be returned")
	}
	if stats := c.Stats(); stats.Generated != 2 {
		t.Fatalf("expected origin plus one generated map, got %+v", stats)
	}
}

func TestEvictedMapRegeneratesIdentically(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheCapacity = 2
	cfg.TrainerChance = 1
	memory := sinks.NewMemorySink()
	c := NewCache(cfg, memory)

	target := Coord{X: 5, Y: 5}
	original := c.GetOrCreate(target)
	snapshot := original.Grid
	trainers := append([]Trainer(nil), original.Trainers...)

	c.GetOrCreate(Coord{X: 6, Y: 5})
	c.GetOrCreate(Coord{X: 7, Y: 5})
	if c.Contains(target) {
		t.Fatalf("expected least recently used map to be evicted")
	}
	if len(memory.OfType(worldlog.EventMapEvicted)) == 0 {
		t.Fatalf("expected an eviction event")
	}

	regenerated := c.GetOrCreate(target)
	if regenerated.Grid != snapshot {
		t.Fatalf("regenerated grid differs from the original")
	}
	if len(regenerated.Trainers) != len(trainers) {
		t.Fatalf("expected %d trainers, got %d", len(trainers), len(regenerated.Trainers))
	}
	for i := range trainers {
		if regenerated.Trainers[i].Point() != trainers[i].Point() || regenerated.Trainers[i].Name != trainers[i].Name {
			t.Fatalf("trainer %d differs after regeneration", i)
		}
	}
}

func TestPinnedMapsAreNotEvicted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheCapacity = 1
	c := NewCache(cfg, nil)

	home := Coord{X: -1, Y: 0}
	pinned := c.Pin(home)
	for i := 1; i <= 5; i++ {
		c.GetOrCreate(Coord{X: i, Y: 9})
	}
	if !c.Contains(home) || !c.Contains(Origin) {
		t.Fatalf("pinned map and origin must stay cached")
	}
	if c.GetOrCreate(home) != pinned {
		t.Fatalf("expected pinned map instance to be reused")
	}

	c.Unpin(home)
	c.GetOrCreate(Coord{X: 42, Y: 42})
	if c.Contains(home) {
		t.Fatalf("expected unpinned map to become evictable")
	}
}

func TestBlockedCells(t *testing.T) {
	m := &Map{}
	m.Grid[1][1] = TileTree
	m.Grid[1][2] = TileWater
	m.Grid[1][3] = TileGrass
	m.Trainers = []Trainer{{X: 4, Y: 1}}

	if !m.Blocked(Point{X: 1, Y: 1}) || !m.Blocked(Point{X: 2, Y: 1}) {
		t.Fatalf("trees and water must block")
	}
	if m.Blocked(Point{X: 3, Y: 1}) {
		t.Fatalf("grass must not block")
	}
	if !m.Blocked(Point{X: 4, Y: 1}) {
		t.Fatalf("trainer cell must block")
	}
	if !m.Blocked(Point{X: -1, Y: 0}) {
		t.Fatalf("out of bounds must block")
	}
}
