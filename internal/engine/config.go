package engine

import (
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/brake"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/frustration"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/paradox"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/ratelimit"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/safety"
)

// #region config

// Config bundles the tuning of every subsystem plus engine-level knobs.
type Config struct {
	Safety      safety.Config           `yaml:"safety"`
	Emergence   paradox.EmergenceConfig `yaml:"emergence"`
	Decay       paradox.DecayConfig     `yaml:"decay"`
	Frustration frustration.Config      `yaml:"frustration"`
	Brake       brake.Config            `yaml:"brake"`
	RateLimit   ratelimit.Config        `yaml:"rate_limit"`

	// NaturalDecayRate is the per-second magnitude decay applied on ticks,
	// before the zone decay factor.
	NaturalDecayRate float64 `yaml:"natural_decay_rate"`

	// CoherenceRecoveryRate restores coherence per second on every tick,
	// toward full coherence.
	CoherenceRecoveryRate float64 `yaml:"coherence_recovery_rate"`

	Seed     int64  `yaml:"seed"`      // 0 = time-seeded
	RingSize int    `yaml:"ring_size"` // recent-event ring capacity
	DBPath   string `yaml:"db_path"`   // empty = in-memory sessions only
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		Safety:                safety.DefaultConfig(),
		Emergence:             paradox.DefaultEmergenceConfig(),
		Decay:                 paradox.DefaultDecayConfig(),
		Frustration:           frustration.DefaultConfig(),
		Brake:                 brake.DefaultConfig(),
		RateLimit:             ratelimit.DefaultConfig(),
		NaturalDecayRate:      0.0005,
		CoherenceRecoveryRate: 0.005,
		RingSize:              64,
	}
}

// ConservativeConfig returns the stricter tuning: a lower confusion cap
// and a higher post-reset coherence.
func ConservativeConfig() Config {
	cfg := DefaultConfig()
	cfg.Safety = safety.ConservativeConfig()
	return cfg
}

// #endregion config
