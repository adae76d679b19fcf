package world

// Coord identifies one map screen in the unbounded overworld.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is the map holding the special tiles.
var Origin = Coord{}

// Point is a cell within a single map.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the point lies inside a map grid.
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// Location is a player's absolute position.
type Location struct {
	MapX int `json:"mapX"`
	MapY int `json:"mapY"`
	X    int `json:"x"`
	Y    int `json:"y"`
}

// Spawn is where new sessions appear.
var Spawn = Location{MapX: 0, MapY: 0, X: 9, Y: 8}

// Coord returns the map screen of the location.
func (l Location) Coord() Coord {
	return Coord{X: l.MapX, Y: l.MapY}
}

// Point returns the cell within the current map.
func (l Location) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// Step moves by a unit delta on each axis. Leaving the grid wraps onto the
// opposite edge of the neighbouring map.
func (l Location) Step(dx, dy int) Location {
	next := l
	next.X += clampUnit(dx)
	next.Y += clampUnit(dy)
	if next.X < 0 {
		next.X = Width - 1
		next.MapX--
	} else if next.X >= Width {
		next.X = 0
		next.MapX++
	}
	if next.Y < 0 {
		next.Y = Height - 1
		next.MapY--
	} else if next.Y >= Height {
		next.Y = 0
		next.MapY++
	}
	return next
}

func clampUnit(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
