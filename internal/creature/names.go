package creature

import "math/rand"

var namePrefixes = []string{
	"Blaz", "Aqua", "Fern", "Volt", "Pebb", "Shad", "Pip",
	"Ember", "Tide", "Moss", "Spark", "Crag", "Wisp", "Bram",
}

var nameSuffixes = []string{
	"ling", "mon", "chu", "saur", "tail", "fang", "bit", "paw", "ix", "oo",
}

var moveStems = map[Type][]string{
	TypeFire:     {"Flame", "Ember", "Scorch", "Blaze"},
	TypeWater:    {"Bubble", "Torrent", "Splash", "Tide"},
	TypeGrass:    {"Vine", "Leaf", "Thorn", "Spore"},
	TypeElectric: {"Spark", "Volt", "Static", "Thunder"},
	TypeRock:     {"Rock", "Boulder", "Quake", "Gravel"},
	TypeGhost:    {"Shadow", "Hex", "Phantom", "Spite"},
	TypeNormal:   {"Tackle", "Slam", "Scratch", "Headbutt"},
}

var moveForms = []string{"Strike", "Burst", "Wave", "Crash", "Jab", "Storm"}

func creatureName(rng *rand.Rand) string {
	return namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
}

func moveName(rng *rand.Rand, t Type) string {
	stems := moveStems[t]
	if len(stems) == 0 {
		stems = moveStems[TypeNormal]
	}
	return stems[rng.Intn(len(stems))] + " " + moveForms[rng.Intn(len(moveForms))]
}
