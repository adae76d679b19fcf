package world

// Tile is the kind of a single grid cell.
type Tile int

const (
	TileOpen Tile = iota
	TileTree
	TileWater
	TileGrass
	TileShrine
	TileShop
	TileHealer
)

// Width and Height are the dimensions of every map screen.
const (
	Width  = 20
	Height = 15
)

// Blocking reports whether the tile cannot be entered.
func (t Tile) Blocking() bool {
	return t == TileTree || t == TileWater
}

// Encounter reports whether standing on the tile can trigger a wild battle.
func (t Tile) Encounter() bool {
	return t == TileGrass
}

// Special reports whether the tile carries a side effect when entered.
func (t Tile) Special() bool {
	return t == TileShrine || t == TileShop || t == TileHealer
}

func (t Tile) String() string {
	switch t {
	case TileOpen:
		return "open"
	case TileTree:
		return "tree"
	case TileWater:
		return "water"
	case TileGrass:
		return "grass"
	case TileShrine:
		return "shrine"
	case TileShop:
		return "shop"
	case TileHealer:
		return "healer"
	default:
		return "unknown"
	}
}

// Fixed cells of the special tiles on the origin map.
var (
	ShrineCell = Point{X: 8, Y: 7}
	ShopCell   = Point{X: 10, Y: 7}
	HealerCell = Point{X: 12, Y: 7}
)
