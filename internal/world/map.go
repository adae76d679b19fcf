package world

import (
	"fmt"
	"math/rand"

	"critter-clash/server/internal/creature"
)

const trainerPlacementAttempts = 64

var trainerTitles = []string{"Hiker", "Youngster", "Lass", "Ranger", "Fisher", "Mystic"}
var trainerNames = []string{"Ada", "Bram", "Cato", "Dena", "Eli", "Fay", "Gus", "Hana", "Ivo", "Juno"}

// Trainer is a stationary opponent placed with its map.
type Trainer struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Party creature.Party `json:"-"`
}

// Point returns the trainer's cell.
func (t Trainer) Point() Point {
	return Point{X: t.X, Y: t.Y}
}

// Map is one generated screen of the overworld. Grid is indexed [y][x].
type Map struct {
	Coord    Coord
	Grid     [Height][Width]Tile
	Trainers []Trainer
}

// At returns the tile at p, or a tree when p lies outside the grid.
func (m *Map) At(p Point) Tile {
	if m == nil || !p.InBounds() {
		return TileTree
	}
	return m.Grid[p.Y][p.X]
}

// TrainerAt returns the trainer standing on p.
func (m *Map) TrainerAt(p Point) (*Trainer, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Trainers {
		if m.Trainers[i].Point() == p {
			return &m.Trainers[i], true
		}
	}
	return nil, false
}

// Blocked reports whether a player may not step onto p.
func (m *Map) Blocked(p Point) bool {
	if m.At(p).Blocking() {
		return true
	}
	_, occupied := m.TrainerAt(p)
	return occupied
}

// Rows copies the grid into a slice form suited for the wire.
func (m *Map) Rows() [][]Tile {
	rows := make([][]Tile, Height)
	for y := range rows {
		row := make([]Tile, Width)
		copy(row, m.Grid[y][:])
		rows[y] = row
	}
	return rows
}

// Generate builds the map for coord. Placements may overlap and the later
// placement wins. Special tiles are written last and only on the origin.
func Generate(coord Coord, rng *rand.Rand, cfg Config) *Map {
	cfg = cfg.normalized()
	m := &Map{Coord: coord}
	scatter(m, rng, TileTree, cfg.TreeCount)
	scatter(m, rng, TileWater, cfg.WaterCount)
	scatter(m, rng, TileGrass, cfg.GrassCount)
	if coord == Origin {
		m.Grid[ShrineCell.Y][ShrineCell.X] = TileShrine
		m.Grid[ShopCell.Y][ShopCell.X] = TileShop
		m.Grid[HealerCell.Y][HealerCell.X] = TileHealer
	}
	if rng.Float64() < cfg.TrainerChance {
		if trainer, ok := placeTrainer(m, rng, cfg); ok {
			m.Trainers = append(m.Trainers, trainer)
		}
	}
	return m
}

func scatter(m *Map, rng *rand.Rand, tile Tile, count int) {
	for i := 0; i < count; i++ {
		x := rng.Intn(Width)
		y := rng.Intn(Height)
		m.Grid[y][x] = tile
	}
}

func placeTrainer(m *Map, rng *rand.Rand, cfg Config) (Trainer, bool) {
	spawn := Spawn.Point()
	for attempt := 0; attempt < trainerPlacementAttempts; attempt++ {
		p := Point{X: rng.Intn(Width), Y: rng.Intn(Height)}
		if m.At(p) != TileOpen {
			continue
		}
		if m.Coord == Spawn.Coord() && p == spawn {
			continue
		}
		name := trainerTitles[rng.Intn(len(trainerTitles))] + " " + trainerNames[rng.Intn(len(trainerNames))]
		return Trainer{
			ID:    fmt.Sprintf("trainer:%d,%d", m.Coord.X, m.Coord.Y),
			Name:  name,
			X:     p.X,
			Y:     p.Y,
			Party: creature.GenerateParty(rng, cfg.TrainerPartySize, creature.Modifiers{}),
		}, true
	}
	return Trainer{}, false
}
