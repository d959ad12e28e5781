package behavior

import "time"

// #region modifier-kind

// ModifierKind is the closed set of behavioral modifier types. Every kind
// is handled exhaustively in Applier.Apply.
type ModifierKind string

const (
	KindPostingFrequency        ModifierKind = "posting_frequency"
	KindResponseStyle           ModifierKind = "response_style"
	KindInvestigationPreference ModifierKind = "investigation_preference"
	KindQuestioningDepth        ModifierKind = "questioning_depth"
	KindAbstractionLevel        ModifierKind = "abstraction_level"
)

// #endregion modifier-kind

// #region pattern-kind

// PatternKind selects the temporal condition attached to a modifier.
type PatternKind string

const (
	PatternCyclic    PatternKind = "cyclic"    // fires once per fixed period
	PatternSporadic  PatternKind = "sporadic"  // fires with fixed probability per check
	PatternCrescendo PatternKind = "crescendo" // fires while confusion is rising past the pattern intensity
	PatternDecay     PatternKind = "decay"     // fires while confusion is falling below the pattern intensity
)

// #endregion pattern-kind

// #region temporal-pattern

// TemporalPattern gates a modifier on time or trajectory.
type TemporalPattern struct {
	Kind        PatternKind   `json:"kind"`
	Period      time.Duration `json:"period,omitempty"`      // cyclic
	Probability float64       `json:"probability,omitempty"` // sporadic
	Intensity   float64       `json:"intensity,omitempty"`   // crescendo/decay comparison point
}

// #endregion temporal-pattern

// #region modifier

// Modifier maps a paradox condition onto a behavioral effect.
type Modifier struct {
	Kind              ModifierKind     `json:"kind"`
	Strength          float64          `json:"strength"`      // signed; meaning is kind-specific
	MinIntensity      float64          `json:"min_intensity"` // minimum confusion magnitude to fire
	RequiredParadoxes []string         `json:"required_paradoxes,omitempty"`
	Pattern           *TemporalPattern `json:"pattern,omitempty"`
}

// CloneModifiers deep-copies a modifier list, detaching the pattern and
// required-paradox fields from the originals.
func CloneModifiers(mods []Modifier) []Modifier {
	if mods == nil {
		return nil
	}
	out := make([]Modifier, len(mods))
	for i, m := range mods {
		out[i] = m
		out[i].RequiredParadoxes = append([]string(nil), m.RequiredParadoxes...)
		if m.Pattern != nil {
			p := *m.Pattern
			out[i].Pattern = &p
		}
	}
	return out
}

// #endregion modifier

// #region application

// Application records one modifier fire for event logging.
type Application struct {
	Kind     ModifierKind
	Strength float64
	Detail   string
}

// #endregion application
