package world

import "strings"

const (
	// DefaultSeed is used by caches built without a seed. Servers derive
	// their seed at startup instead.
	DefaultSeed          = "prototype"
	DefaultCacheCapacity = 4096
)

// Config controls overworld generation.
type Config struct {
	Seed             string  `json:"seed" yaml:"seed"`
	CacheCapacity    int     `json:"cacheCapacity" yaml:"cacheCapacity"`
	TreeCount        int     `json:"treeCount" yaml:"treeCount"`
	WaterCount       int     `json:"waterCount" yaml:"waterCount"`
	GrassCount       int     `json:"grassCount" yaml:"grassCount"`
	TrainerChance    float64 `json:"trainerChance" yaml:"trainerChance"`
	TrainerPartySize int     `json:"trainerPartySize" yaml:"trainerPartySize"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.CacheCapacity <= 0 {
		normalized.CacheCapacity = DefaultCacheCapacity
	}
	if normalized.TreeCount < 0 {
		normalized.TreeCount = 0
	}
	if normalized.WaterCount < 0 {
		normalized.WaterCount = 0
	}
	if normalized.GrassCount < 0 {
		normalized.GrassCount = 0
	}
	if normalized.TrainerChance < 0 {
		normalized.TrainerChance = 0
	}
	if normalized.TrainerChance > 1 {
		normalized.TrainerChance = 1
	}
	if normalized.TrainerPartySize <= 0 {
		normalized.TrainerPartySize = 1
	}
	return normalized
}

// Normalized clamps the config into a usable range.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig returns the standard overworld settings. The seed is left
// empty so each server run picks its own.
func DefaultConfig() Config {
	return Config{
		CacheCapacity:    DefaultCacheCapacity,
		TreeCount:        40,
		WaterCount:       30,
		GrassCount:       50,
		TrainerChance:    0.25,
		TrainerPartySize: 2,
	}
}
