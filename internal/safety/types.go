package safety

import "time"

// #region zone

// Zone classifies current risk from the (confusion, coherence) pair.
type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
)

// #endregion zone

// #region config

// Config holds thresholds for zone classification and hard safety limits.
type Config struct {
	MaxConfusion       float64 // hard cap on magnitude
	EmergencyCeiling   float64 // unconditional emergency reset above this
	YellowThreshold    float64 // magnitude at which green becomes yellow
	RedThreshold       float64 // magnitude at which yellow becomes red
	CoherenceThreshold float64 // coherence below this degrades green to yellow
	CoherenceRedFloor  float64 // coherence below this is red regardless of magnitude
	ResetMagnitude     float64 // magnitude after emergency reset
	ResetOscillation   float64 // oscillation after emergency reset
	ResetCoherence     float64 // coherence after emergency reset
	StuckThreshold     float64 // magnitude above which a flat line counts as stuck
	StuckDelta         float64 // magnitude change below this counts as unchanged
	StuckChecks        int     // consecutive unchanged checks before auto recovery
	StuckStopMagnitude float64 // failed stuck recovery above this triggers emergency stop
}

// DefaultConfig returns the production (enhanced) thresholds.
func DefaultConfig() Config {
	return Config{
		MaxConfusion:       0.97,
		EmergencyCeiling:   0.98,
		YellowThreshold:    0.80,
		RedThreshold:       0.90,
		CoherenceThreshold: 0.5,
		CoherenceRedFloor:  0.2,
		ResetMagnitude:     0.3,
		ResetOscillation:   0.05,
		ResetCoherence:     0.8,
		StuckThreshold:     0.85,
		StuckDelta:         0.001,
		StuckChecks:        10,
		StuckStopMagnitude: 0.9,
	}
}

// ConservativeConfig returns the stricter tuning: a lower hard cap and a
// higher post-reset coherence.
func ConservativeConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxConfusion = 0.80
	cfg.EmergencyCeiling = 0.95
	cfg.ResetCoherence = 0.9
	return cfg
}

// #endregion config

// #region transition

// Transition records one zone change.
type Transition struct {
	From      Zone      `json:"from"`
	To        Zone      `json:"to"`
	At        time.Time `json:"at"`
	Confusion float64   `json:"confusion"`
	Coherence float64   `json:"coherence"`
	Reason    string    `json:"reason"`
}

// #endregion transition

// #region metrics

// Metrics is the caller-visible safety summary.
type Metrics struct {
	Zone                   Zone    `json:"zone"`
	RecoveryAttempts       int     `json:"recovery_attempts"`
	RecoverySuccesses      int     `json:"recovery_successes"`
	RecoveryRate           float64 `json:"recovery_rate"`
	DissociationRisk       float64 `json:"dissociation_risk"`
	EmergencyStopTriggered bool    `json:"emergency_stop_triggered"`
	AutoPaused             bool    `json:"auto_paused"`
	EmergencyResets        int     `json:"emergency_resets"`
	Transitions            int     `json:"transitions"`
	StuckChecks            int     `json:"stuck_checks"`
}

// #endregion metrics
