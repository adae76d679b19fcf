package world

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// DeterministicSeedValue hashes the root seed and a label into a source seed.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns a random source that always yields the same
// sequence for the same seed and label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

func mapLabel(coord Coord) string {
	return fmt.Sprintf("map:%d,%d", coord.X, coord.Y)
}
