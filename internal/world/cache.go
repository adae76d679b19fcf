package world

import (
	"context"
	"sync"

	"github.com/zyedidia/generic/cache"

	"critter-clash/server/logging"
	worldlog "critter-clash/server/logging/world"
)

// Cache owns every generated map. Unoccupied maps live in a bounded LRU;
// maps pinned by an occupant and the origin are never evicted. Each map's
// random source is derived from the seed and its coordinate, so an evicted
// map regenerates identically.
type Cache struct {
	mu        sync.Mutex
	cfg       Config
	origin    *Map
	pinned    map[Coord]*pinnedMap
	idle      *cache.Cache[Coord, *Map]
	publisher logging.Publisher

	generated uint64
	evicted   uint64
}

type pinnedMap struct {
	m    *Map
	refs int
}

// CacheStats summarises the cache for diagnostics.
type CacheStats struct {
	Cached    int    `json:"cached"`
	Pinned    int    `json:"pinned"`
	Capacity  int    `json:"capacity"`
	Generated uint64 `json:"generated"`
	Evicted   uint64 `json:"evicted"`
}

// NewCache constructs a map cache. A nil publisher discards events.
func NewCache(cfg Config, publisher logging.Publisher) *Cache {
	cfg = cfg.normalized()
	if cfg.Seed == "" {
		cfg.Seed = DefaultSeed
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	c := &Cache{
		cfg:       cfg,
		pinned:    make(map[Coord]*pinnedMap),
		idle:      cache.New[Coord, *Map](cfg.CacheCapacity),
		publisher: publisher,
	}
	c.idle.SetEvictCallback(func(coord Coord, _ *Map) {
		c.evicted++
		worldlog.MapEvicted(context.Background(), c.publisher, mapRef(coord), worldlog.MapEvictedPayload{
			MapX:   coord.X,
			MapY:   coord.Y,
			Cached: c.idle.Size(),
		}, nil)
	})
	c.origin = c.generate(Origin)
	return c
}

// GetOrCreate returns the map at coord, generating it on first use.
func (c *Cache) GetOrCreate(coord Coord) *Map {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(coord)
}

// Pin fetches the map at coord and protects it from eviction until a
// matching Unpin.
func (c *Cache) Pin(coord Coord) *Map {
	c.mu.Lock()
	defer c.mu.Unlock()
	if coord == Origin {
		return c.origin
	}
	if entry, ok := c.pinned[coord]; ok {
		entry.refs++
		return entry.m
	}
	m := c.lookup(coord)
	c.idle.Remove(coord)
	c.pinned[coord] = &pinnedMap{m: m, refs: 1}
	return m
}

// Unpin releases one occupant. The last release hands the map back to the
// LRU, which may evict an older idle map.
func (c *Cache) Unpin(coord Coord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.pinned[coord]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}
	delete(c.pinned, coord)
	c.idle.Put(coord, entry.m)
}

// Contains reports whether coord is currently cached without touching its
// recency.
func (c *Cache) Contains(coord Coord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if coord == Origin {
		return true
	}
	if _, ok := c.pinned[coord]; ok {
		return true
	}
	found := false
	c.idle.Each(func(key Coord, _ *Map) {
		if key == coord {
			found = true
		}
	})
	return found
}

// Stats returns cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Cached:    1 + len(c.pinned) + c.idle.Size(),
		Pinned:    len(c.pinned),
		Capacity:  c.idle.Capacity(),
		Generated: c.generated,
		Evicted:   c.evicted,
	}
}

func (c *Cache) lookup(coord Coord) *Map {
	if coord == Origin {
		return c.origin
	}
	if entry, ok := c.pinned[coord]; ok {
		return entry.m
	}
	if m, ok := c.idle.Get(coord); ok {
		return m
	}
	m := c.generate(coord)
	c.idle.Put(coord, m)
	return m
}

func (c *Cache) generate(coord Coord) *Map {
	m := Generate(coord, NewDeterministicRNG(c.cfg.Seed, mapLabel(coord)), c.cfg)
	c.generated++
	worldlog.MapGenerated(context.Background(), c.publisher, mapRef(coord), worldlog.MapGeneratedPayload{
		MapX:     coord.X,
		MapY:     coord.Y,
		Trainers: len(m.Trainers),
	}, nil)
	return m
}

func mapRef(coord Coord) logging.EntityRef {
	return logging.EntityRef{ID: mapLabel(coord), Kind: logging.EntityKindWorld}
}
