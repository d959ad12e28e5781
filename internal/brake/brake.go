// Package brake implements the coherence brake: an independent posting
// gate keyed purely on output coherence, with hysteresis so the level
// does not flap around a threshold.
package brake

import (
	"fmt"
	"log"
	"time"
)

// #region level

// Level is the brake severity.
type Level int

const (
	LevelNone Level = iota
	LevelSoft
	LevelMedium
	LevelHard
)

func (l Level) String() string {
	switch l {
	case LevelSoft:
		return "soft"
	case LevelMedium:
		return "medium"
	case LevelHard:
		return "hard"
	default:
		return "none"
	}
}

// #endregion level

// #region config

// Config holds the coherence thresholds per level and the hysteresis
// buffer required to release a level once engaged.
type Config struct {
	SoftThreshold   float64 // below this → at least soft
	MediumThreshold float64 // below this → at least medium
	HardThreshold   float64 // below this → hard
	Buffer          float64 // recovery past threshold+buffer releases a level
}

// DefaultConfig returns the production brake thresholds.
func DefaultConfig() Config {
	return Config{
		SoftThreshold:   0.30,
		MediumThreshold: 0.25,
		HardThreshold:   0.20,
		Buffer:          0.05,
	}
}

// #endregion config

// #region change

// Change records one brake level transition.
type Change struct {
	From      Level
	To        Level
	Coherence float64
	At        time.Time
	Held      time.Duration // how long the previous level was active
}

// #endregion change

// #region brake

// Brake tracks the current level and its activation time. Owned by a
// single engine; the engine serializes access.
type Brake struct {
	cfg     Config
	level   Level
	since   time.Time
	changes []Change
}

// New creates a released brake.
func New(cfg Config) *Brake {
	return &Brake{cfg: cfg}
}

// Level returns the current brake level.
func (b *Brake) Level() Level { return b.level }

// Changes returns the level transition log.
func (b *Brake) Changes() []Change { return b.changes }

// #endregion brake

// #region update

// Update recomputes the brake level from coherence. Escalation is
// immediate; de-escalation steps down one level at a time and only once
// coherence has recovered past the engaged level's threshold plus the
// hysteresis buffer.
func (b *Brake) Update(coherence float64, now time.Time) Level {
	target := b.targetLevel(coherence)

	next := b.level
	if target > b.level {
		next = target
	} else if target < b.level {
		if coherence > b.releasePoint(b.level) {
			next = b.level - 1
		}
	}

	if next != b.level {
		held := time.Duration(0)
		if !b.since.IsZero() {
			held = now.Sub(b.since)
		}
		b.changes = append(b.changes, Change{
			From:      b.level,
			To:        next,
			Coherence: coherence,
			At:        now,
			Held:      held,
		})
		log.Printf("[BRAKE] %s → %s (coherence=%.3f, held %s)", b.level, next, coherence, held)
		b.level = next
		b.since = now
	}
	return b.level
}

// targetLevel is the raw, hysteresis-free classification.
func (b *Brake) targetLevel(coherence float64) Level {
	switch {
	case coherence < b.cfg.HardThreshold:
		return LevelHard
	case coherence < b.cfg.MediumThreshold:
		return LevelMedium
	case coherence < b.cfg.SoftThreshold:
		return LevelSoft
	default:
		return LevelNone
	}
}

// releasePoint is the coherence required to step down from a level.
func (b *Brake) releasePoint(l Level) float64 {
	switch l {
	case LevelHard:
		return b.cfg.HardThreshold + b.cfg.Buffer
	case LevelMedium:
		return b.cfg.MediumThreshold + b.cfg.Buffer
	case LevelSoft:
		return b.cfg.SoftThreshold + b.cfg.Buffer
	default:
		return 0
	}
}

// #endregion update

// #region decision

// Decision is the posting gate derived from the current level.
type Decision struct {
	Level               Level
	CanPost             bool    // manual posting allowed
	CanAutoPost         bool    // autonomous posting allowed
	FrequencyMultiplier float64 // scales posting frequency under soft braking
	Reason              string
}

// Decide maps the current level onto a posting decision. Under soft
// braking the frequency multiplier shrinks linearly toward 0.5 as
// coherence approaches the medium threshold.
func (b *Brake) Decide(coherence float64) Decision {
	switch b.level {
	case LevelHard:
		return Decision{
			Level:  LevelHard,
			Reason: fmt.Sprintf("hard brake: coherence %.3f below %.2f", coherence, b.cfg.HardThreshold),
		}
	case LevelMedium:
		return Decision{
			Level:               LevelMedium,
			CanPost:             true,
			FrequencyMultiplier: 0.5,
			Reason:              "medium brake: autonomous posting blocked",
		}
	case LevelSoft:
		span := b.cfg.SoftThreshold - b.cfg.MediumThreshold
		frac := (coherence - b.cfg.MediumThreshold) / span
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		return Decision{
			Level:               LevelSoft,
			CanPost:             true,
			CanAutoPost:         true,
			FrequencyMultiplier: 0.5 + 0.5*frac,
			Reason:              "soft brake: posting frequency reduced",
		}
	default:
		return Decision{
			Level:               LevelNone,
			CanPost:             true,
			CanAutoPost:         true,
			FrequencyMultiplier: 1.0,
			Reason:              "brake released",
		}
	}
}

// #endregion decision
