package safety

import "time"

// #region classify

// Classify derives the zone from the (magnitude, coherence) pair.
// Red wins over yellow, yellow over green.
func Classify(cfg Config, magnitude, coherence float64) Zone {
	if magnitude >= cfg.RedThreshold || coherence < cfg.CoherenceRedFloor {
		return ZoneRed
	}
	if magnitude >= cfg.YellowThreshold {
		return ZoneYellow
	}
	if coherence < cfg.CoherenceThreshold && magnitude <= cfg.RedThreshold {
		return ZoneYellow
	}
	return ZoneGreen
}

// #endregion classify

// #region zone-tuning

// ZoneFrustrationMultiplier scales frustration accumulation per zone.
func ZoneFrustrationMultiplier(z Zone) float64 {
	switch z {
	case ZoneYellow:
		return 0.75
	case ZoneRed:
		return 0.5
	default:
		return 1.0
	}
}

// ZoneDecayFactor scales natural and paradox decay: stricter zones decay
// confusion faster to pull the system back toward safety.
func ZoneDecayFactor(z Zone) float64 {
	switch z {
	case ZoneYellow:
		return 2.0
	case ZoneRed:
		return 4.0
	default:
		return 1.0
	}
}

// ZoneIntensityCeiling caps the |intensity| of paradoxes accepted per
// zone; additions above the ceiling are rejected.
func ZoneIntensityCeiling(z Zone) float64 {
	switch z {
	case ZoneYellow:
		return 0.6
	case ZoneRed:
		return 0.3
	default:
		return 1.0
	}
}

// #endregion zone-tuning

// #region monitor

// Monitor tracks the current zone, its transition history, recovery
// counters, and stuck-state detection. Owned by a single engine.
type Monitor struct {
	cfg  Config
	zone Zone

	history   []Transition
	attempts  map[Zone]int
	successes map[Zone]int

	emergencyResets int
	emergencyStop   bool
	autoPaused      bool

	stuckCount    int
	lastMagnitude float64
}

// NewMonitor creates a monitor starting in the green zone.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		cfg:       cfg,
		zone:      ZoneGreen,
		attempts:  make(map[Zone]int),
		successes: make(map[Zone]int),
	}
}

// Config returns the active safety configuration.
func (m *Monitor) Config() Config { return m.cfg }

// Zone returns the current zone.
func (m *Monitor) Zone() Zone { return m.zone }

// History returns the zone transition log.
func (m *Monitor) History() []Transition { return m.history }

// EmergencyStopped reports whether the engine has been halted.
func (m *Monitor) EmergencyStopped() bool { return m.emergencyStop }

// AutoPaused reports whether additions are paused.
func (m *Monitor) AutoPaused() bool { return m.autoPaused }

// SetAutoPaused toggles the auto-pause policy flag.
func (m *Monitor) SetAutoPaused(paused bool) { m.autoPaused = paused }

// TriggerEmergencyStop latches the emergency stop. Only a new engine
// clears it.
func (m *Monitor) TriggerEmergencyStop() { m.emergencyStop = true }

// #endregion monitor

// #region evaluate

// Evaluate reclassifies the zone and records a transition when it
// changed. Returns the transition, or nil when the zone held.
func (m *Monitor) Evaluate(magnitude, coherence float64, now time.Time) *Transition {
	next := Classify(m.cfg, magnitude, coherence)
	if next == m.zone {
		return nil
	}
	tr := Transition{
		From:      m.zone,
		To:        next,
		At:        now,
		Confusion: magnitude,
		Coherence: coherence,
		Reason:    transitionReason(m.cfg, next, magnitude, coherence),
	}
	m.zone = next
	m.history = append(m.history, tr)
	return &tr
}

// transitionReason names why the zone changed, for the event log.
func transitionReason(cfg Config, to Zone, magnitude, coherence float64) string {
	switch {
	case to == ZoneRed && magnitude >= cfg.RedThreshold:
		return "confusion breakthrough"
	case to == ZoneRed:
		return "coherence degradation"
	case to == ZoneYellow && magnitude >= cfg.YellowThreshold:
		return "elevated confusion"
	case to == ZoneYellow:
		return "coherence degradation"
	default:
		return "stabilized"
	}
}

// #endregion evaluate

// #region stuck

// CheckStuck updates the stuck detector with the latest magnitude.
// Returns true when the magnitude has been flat above the stuck
// threshold for the configured number of consecutive checks.
func (m *Monitor) CheckStuck(magnitude float64) bool {
	delta := magnitude - m.lastMagnitude
	if delta < 0 {
		delta = -delta
	}
	if magnitude > m.cfg.StuckThreshold && delta < m.cfg.StuckDelta {
		m.stuckCount++
	} else {
		m.stuckCount = 0
	}
	m.lastMagnitude = magnitude
	return m.stuckCount > m.cfg.StuckChecks
}

// ResetStuck clears the stuck counter after a handled stuck episode.
func (m *Monitor) ResetStuck() { m.stuckCount = 0 }

// #endregion stuck

// #region metrics

// BuildMetrics assembles the caller-visible safety summary.
// Dissociation risk blends magnitude, oscillation, and incoherence.
func (m *Monitor) BuildMetrics(magnitude, oscillation, coherence float64) Metrics {
	attempts, successes := 0, 0
	for _, n := range m.attempts {
		attempts += n
	}
	for _, n := range m.successes {
		successes += n
	}
	rate := 0.0
	if attempts > 0 {
		rate = float64(successes) / float64(attempts)
	}
	risk := magnitude*0.5 + oscillation*0.3 + (1-coherence)*0.2
	if risk > 1 {
		risk = 1
	}
	return Metrics{
		Zone:                   m.zone,
		RecoveryAttempts:       attempts,
		RecoverySuccesses:      successes,
		RecoveryRate:           rate,
		DissociationRisk:       risk,
		EmergencyStopTriggered: m.emergencyStop,
		AutoPaused:             m.autoPaused,
		EmergencyResets:        m.emergencyResets,
		Transitions:            len(m.history),
		StuckChecks:            m.stuckCount,
	}
}

// #endregion metrics
