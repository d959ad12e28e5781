// Package config loads engine configuration from a YAML file with
// environment overrides. A missing file is not an error: the selected
// preset's defaults apply.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/engine"
)

// #region file-types

// File is the YAML-facing configuration. Sections mirror the subsystem
// configs with pointer fields so only the keys actually present in the
// file override the preset.
type File struct {
	Mode     string `yaml:"mode" env:"CONFUSION_MODE"` // "default" | "conservative"
	Seed     int64  `yaml:"seed" env:"CONFUSION_SEED"`
	DBPath   string `yaml:"db_path" env:"CONFUSION_DB_PATH"`
	RingSize int    `yaml:"ring_size" env:"CONFUSION_RING_SIZE"`

	Safety      *SafetySection      `yaml:"safety,omitempty"`
	Brake       *BrakeSection       `yaml:"brake,omitempty"`
	RateLimit   *RateLimitSection   `yaml:"rate_limit,omitempty"`
	Frustration *FrustrationSection `yaml:"frustration,omitempty"`
	Decay       *DecaySection       `yaml:"decay,omitempty"`
	Emergence   *EmergenceSection   `yaml:"emergence,omitempty"`
}

// SafetySection overrides zone and reset thresholds.
type SafetySection struct {
	MaxConfusion     *float64 `yaml:"max_confusion,omitempty"`
	EmergencyCeiling *float64 `yaml:"emergency_ceiling,omitempty"`
	YellowThreshold  *float64 `yaml:"yellow_threshold,omitempty"`
	RedThreshold     *float64 `yaml:"red_threshold,omitempty"`
	ResetCoherence   *float64 `yaml:"reset_coherence,omitempty"`
}

// BrakeSection overrides the coherence brake thresholds.
type BrakeSection struct {
	SoftThreshold   *float64 `yaml:"soft_threshold,omitempty"`
	MediumThreshold *float64 `yaml:"medium_threshold,omitempty"`
	HardThreshold   *float64 `yaml:"hard_threshold,omitempty"`
	Buffer          *float64 `yaml:"buffer,omitempty"`
}

// RateLimitSection overrides the posting windows.
type RateLimitSection struct {
	BurstLimit  *int    `yaml:"burst_limit,omitempty"`
	BurstWindow *string `yaml:"burst_window,omitempty"` // duration string
	HourlyLimit *int    `yaml:"hourly_limit,omitempty"`
	DailyLimit  *int    `yaml:"daily_limit,omitempty"`
}

// FrustrationSection overrides the explosion threshold.
type FrustrationSection struct {
	Threshold *float64 `yaml:"threshold,omitempty"`
}

// DecaySection overrides paradox decay tuning.
type DecaySection struct {
	Retention *string  `yaml:"retention,omitempty"` // duration string
	Rate      *float64 `yaml:"rate,omitempty"`
	Floor     *float64 `yaml:"floor,omitempty"`
}

// EmergenceSection overrides meta-paradox synthesis tuning.
type EmergenceSection struct {
	ScoreThreshold *float64 `yaml:"score_threshold,omitempty"`
	GreenGate      *float64 `yaml:"green_gate,omitempty"`
}

// #endregion file-types

// #region load

// Load reads the YAML file (missing file = defaults), applies
// environment overrides, and builds the engine config.
func Load(path string) (engine.Config, error) {
	var f File
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return engine.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &f); err != nil {
				return engine.Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := env.Parse(&f); err != nil {
		return engine.Config{}, fmt.Errorf("parse env: %w", err)
	}
	return f.Build()
}

// Build converts the file form into an engine config.
func (f *File) Build() (engine.Config, error) {
	var cfg engine.Config
	switch f.Mode {
	case "", "default":
		cfg = engine.DefaultConfig()
	case "conservative":
		cfg = engine.ConservativeConfig()
	default:
		return engine.Config{}, fmt.Errorf("unknown mode %q", f.Mode)
	}

	cfg.Seed = f.Seed
	cfg.DBPath = f.DBPath
	if f.RingSize > 0 {
		cfg.RingSize = f.RingSize
	}

	if s := f.Safety; s != nil {
		setFloat(&cfg.Safety.MaxConfusion, s.MaxConfusion)
		setFloat(&cfg.Safety.EmergencyCeiling, s.EmergencyCeiling)
		setFloat(&cfg.Safety.YellowThreshold, s.YellowThreshold)
		setFloat(&cfg.Safety.RedThreshold, s.RedThreshold)
		setFloat(&cfg.Safety.ResetCoherence, s.ResetCoherence)
	}
	if b := f.Brake; b != nil {
		setFloat(&cfg.Brake.SoftThreshold, b.SoftThreshold)
		setFloat(&cfg.Brake.MediumThreshold, b.MediumThreshold)
		setFloat(&cfg.Brake.HardThreshold, b.HardThreshold)
		setFloat(&cfg.Brake.Buffer, b.Buffer)
	}
	if r := f.RateLimit; r != nil {
		setInt(&cfg.RateLimit.BurstLimit, r.BurstLimit)
		setInt(&cfg.RateLimit.HourlyLimit, r.HourlyLimit)
		setInt(&cfg.RateLimit.DailyLimit, r.DailyLimit)
		if r.BurstWindow != nil {
			d, err := time.ParseDuration(*r.BurstWindow)
			if err != nil {
				return engine.Config{}, fmt.Errorf("burst_window: %w", err)
			}
			cfg.RateLimit.BurstWindow = d
		}
	}
	if fr := f.Frustration; fr != nil {
		setFloat(&cfg.Frustration.Threshold, fr.Threshold)
	}
	if d := f.Decay; d != nil {
		setFloat(&cfg.Decay.Rate, d.Rate)
		setFloat(&cfg.Decay.Floor, d.Floor)
		if d.Retention != nil {
			r, err := time.ParseDuration(*d.Retention)
			if err != nil {
				return engine.Config{}, fmt.Errorf("retention: %w", err)
			}
			cfg.Decay.Retention = r
		}
	}
	if e := f.Emergence; e != nil {
		setFloat(&cfg.Emergence.ScoreThreshold, e.ScoreThreshold)
		setFloat(&cfg.Emergence.GreenGate, e.GreenGate)
	}
	return cfg, nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// #endregion load
