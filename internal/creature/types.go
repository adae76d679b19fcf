package creature

import "github.com/zyedidia/generic/mapset"

// Type is an elemental affinity shared by creatures and moves.
type Type string

const (
	TypeFire     Type = "Fire"
	TypeWater    Type = "Water"
	TypeGrass    Type = "Grass"
	TypeElectric Type = "Electric"
	TypeRock     Type = "Rock"
	TypeGhost    Type = "Ghost"
	TypeNormal   Type = "Normal"
)

// AllTypes lists every elemental type in a stable order.
var AllTypes = []Type{TypeFire, TypeWater, TypeGrass, TypeElectric, TypeRock, TypeGhost, TypeNormal}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	for _, candidate := range AllTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Matchup holds the relations of one attacking type. StrongAgainst and
// WeakAgainst are keyed by the defender's type. ImmuneTo is descriptive
// chart data; damage resolution does not consult it.
type Matchup struct {
	StrongAgainst mapset.Set[Type]
	WeakAgainst   mapset.Set[Type]
	ImmuneTo      mapset.Set[Type]
}

// Chart maps each type to its matchup.
type Chart map[Type]Matchup

func setOf(types ...Type) mapset.Set[Type] {
	set := mapset.New[Type]()
	for _, t := range types {
		set.Put(t)
	}
	return set
}

// DefaultChart returns the standard type chart.
func DefaultChart() Chart {
	return Chart{
		TypeFire: {
			StrongAgainst: setOf(TypeGrass),
			WeakAgainst:   setOf(TypeWater, TypeRock),
			ImmuneTo:      setOf(),
		},
		TypeWater: {
			StrongAgainst: setOf(TypeFire, TypeRock),
			WeakAgainst:   setOf(TypeGrass, TypeElectric),
			ImmuneTo:      setOf(),
		},
		TypeGrass: {
			StrongAgainst: setOf(TypeWater, TypeRock),
			WeakAgainst:   setOf(TypeFire),
			ImmuneTo:      setOf(),
		},
		TypeElectric: {
			StrongAgainst: setOf(TypeWater),
			WeakAgainst:   setOf(TypeRock),
			ImmuneTo:      setOf(),
		},
		TypeRock: {
			StrongAgainst: setOf(TypeFire, TypeElectric),
			WeakAgainst:   setOf(TypeWater, TypeGrass),
			ImmuneTo:      setOf(),
		},
		TypeGhost: {
			StrongAgainst: setOf(TypeGhost),
			WeakAgainst:   setOf(TypeGhost),
			ImmuneTo:      setOf(TypeNormal),
		},
		TypeNormal: {
			StrongAgainst: setOf(),
			WeakAgainst:   setOf(TypeRock),
			ImmuneTo:      setOf(),
		},
	}
}

// Qualifier describes how effective a hit was.
type Qualifier string

const (
	QualifierNone   Qualifier = ""
	QualifierStrong Qualifier = "strong"
	QualifierWeak   Qualifier = "weak"
)

// Effectiveness combines the multiplier for a move of type move hitting a
// defender of type defender. Strong and weak both apply when both hold and
// the reported qualifier prefers weak.
func (c Chart) Effectiveness(move, defender Type) (float64, Qualifier) {
	multiplier := 1.0
	qualifier := QualifierNone
	if entry, ok := c[move]; ok {
		if entry.StrongAgainst.Has(defender) {
			multiplier *= 2
			qualifier = QualifierStrong
		}
		if entry.WeakAgainst.Has(defender) {
			multiplier *= 0.5
			qualifier = QualifierWeak
		}
	}
	return multiplier, qualifier
}
