package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/paradox"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a scenario fixture.
type Fixture struct {
	Description string       `json:"description"`
	Preset      string       `json:"preset"` // "default" | "conservative"
	Seed        int64        `json:"seed"`
	Steps       []Step       `json:"steps"`
	Expect      Expectations `json:"expect"`
}

// Step is one scripted action against the engine. Kind selects which of
// the optional fields apply.
type Step struct {
	Kind string `json:"kind"` // "paradox" | "frustrate" | "tick" | "recover" | "post"

	// paradox
	Name           string   `json:"name,omitempty"`
	Intensity      float64  `json:"intensity,omitempty"`
	Observations   []string `json:"observations,omitempty"`
	Contradictions []string `json:"contradictions,omitempty"`
	MetaPotential  float64  `json:"meta_potential,omitempty"`

	// frustrate
	Trigger string  `json:"trigger,omitempty"`
	Amount  float64 `json:"amount,omitempty"`

	// tick
	Advance string `json:"advance,omitempty"` // duration string, e.g. "90s"

	// ExpectRejected asserts the step is refused (halted engine, zone
	// ceiling, blocked posting).
	ExpectRejected bool `json:"expect_rejected,omitempty"`
}

// Expectations describe the final engine state. Nil pointers are not
// checked.
type Expectations struct {
	Zone            string   `json:"zone,omitempty"`
	MagnitudeMin    *float64 `json:"magnitude_min,omitempty"`
	MagnitudeMax    *float64 `json:"magnitude_max,omitempty"`
	Paradoxes       *int     `json:"paradoxes,omitempty"`
	Metas           *int     `json:"metas,omitempty"`
	BrakeLevel      string   `json:"brake_level,omitempty"`
	EmergencyResets *int     `json:"emergency_resets,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks step kinds and durations before a run starts.
func (f *Fixture) Validate() error {
	switch f.Preset {
	case "", "default", "conservative":
	default:
		return fmt.Errorf("unknown preset %q", f.Preset)
	}
	for i, s := range f.Steps {
		switch s.Kind {
		case "paradox", "frustrate", "recover", "post":
		case "tick":
			if _, err := time.ParseDuration(s.Advance); err != nil {
				return fmt.Errorf("step %d: bad advance %q: %w", i, s.Advance, err)
			}
		default:
			return fmt.Errorf("step %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}

// ToSpec converts a paradox step to a registry spec.
func (s *Step) ToSpec() paradox.Spec {
	return paradox.Spec{
		Name:           s.Name,
		Intensity:      s.Intensity,
		Observations:   s.Observations,
		Contradictions: s.Contradictions,
		MetaPotential:  s.MetaPotential,
	}
}

// #endregion fixture-loader
