package engine

import (
	"fmt"
	"time"
)

type Config struct {
	// Adaptation sweep
	AdaptInterval time.Duration // 0 => 60s
	AdaptMinGames int           // 0 => 10

	// Optional retention sweep (0 disables)
	RetentionHorizon  time.Duration
	RetentionInterval time.Duration // 0 => 1h when horizon is set

	// Event channel buffer per subscriber (0 => 64)
	EventBuffer int

	// RNG seed (0 => time-based)
	Seed int64
}

const (
	defaultAdaptInterval     = 60 * time.Second
	defaultAdaptMinGames     = 10
	defaultRetentionInterval = time.Hour
	defaultEventBuffer       = 64
)

func (c Config) validate() error {
	if c.AdaptInterval < 0 || c.RetentionInterval < 0 {
		return fmt.Errorf("intervals must be >= 0")
	}
	if c.AdaptMinGames < 0 {
		return fmt.Errorf("AdaptMinGames must be >= 0")
	}
	if c.RetentionHorizon < 0 {
		return fmt.Errorf("RetentionHorizon must be >= 0")
	}
	if c.EventBuffer < 0 {
		return fmt.Errorf("EventBuffer must be >= 0")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.AdaptInterval == 0 {
		c.AdaptInterval = defaultAdaptInterval
	}
	if c.AdaptMinGames == 0 {
		c.AdaptMinGames = defaultAdaptMinGames
	}
	if c.RetentionHorizon > 0 && c.RetentionInterval == 0 {
		c.RetentionInterval = defaultRetentionInterval
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = defaultEventBuffer
	}
	return c
}
