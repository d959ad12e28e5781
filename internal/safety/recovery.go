package safety

import (
	"log"
	"math/rand"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

// #region target

// Target is the slice of engine state recovery strategies mutate.
// Implemented by the engine; keeps this package free of registry and
// frustration dependencies.
type Target interface {
	Vector() *confusion.Vector
	Behavior() *confusion.BehavioralState
	TrimParadoxes(keep int) int
	ClearMetaParadoxes() int
	ClearParadoxes()
	ResetFrustration()
}

// #endregion target

// #region strategy

// Strategy is one probabilistic recovery action scoped to a zone.
type Strategy struct {
	Name        string
	Probability float64 // fixed success probability
	Apply       func(Config, Target)
}

// strategiesFor returns the recovery chain for a zone in priority order.
func strategiesFor(z Zone) []Strategy {
	switch z {
	case ZoneRed:
		return []Strategy{
			{Name: "emergency_stabilization", Probability: 0.55, Apply: emergencyStabilization},
			{Name: "coherence_emergency", Probability: 0.60, Apply: coherenceEmergency},
		}
	case ZoneYellow:
		return []Strategy{
			{Name: "stabilization", Probability: 0.75, Apply: stabilization},
			{Name: "coherence_restoration", Probability: 0.80, Apply: coherenceRestoration},
		}
	default:
		return []Strategy{
			{Name: "gentle_grounding", Probability: 0.90, Apply: gentleGrounding},
		}
	}
}

// #endregion strategy

// #region attempt

// AttemptResult reports one recovery attempt for the event log.
type AttemptResult struct {
	Zone      Zone
	Strategy  string
	Succeeded bool
}

// AttemptRecovery tries the current zone's strategies in priority order,
// stopping at the first success. Attempts and successes are counted per
// zone for the observable recovery rate.
func (m *Monitor) AttemptRecovery(rng *rand.Rand, target Target) (bool, []AttemptResult) {
	var results []AttemptResult
	for _, s := range strategiesFor(m.zone) {
		m.attempts[m.zone]++
		if rng.Float64() < s.Probability {
			s.Apply(m.cfg, target)
			m.successes[m.zone]++
			results = append(results, AttemptResult{Zone: m.zone, Strategy: s.Name, Succeeded: true})
			log.Printf("[SAFETY] recovery %s succeeded in %s zone", s.Name, m.zone)
			return true, results
		}
		results = append(results, AttemptResult{Zone: m.zone, Strategy: s.Name, Succeeded: false})
		log.Printf("[SAFETY] recovery %s failed in %s zone", s.Name, m.zone)
	}
	return false, results
}

// #endregion attempt

// #region strategies

// gentleGrounding: small magnitude and oscillation reduction.
func gentleGrounding(cfg Config, t Target) {
	v := t.Vector()
	v.Magnitude = confusion.ClampMagnitude(v.Magnitude-0.05, cfg.MaxConfusion)
	v.Oscillation = confusion.Clamp01(v.Oscillation * 0.9)
}

// stabilization: moderate reduction; meta-paradoxes are preserved.
func stabilization(cfg Config, t Target) {
	v := t.Vector()
	v.Magnitude = confusion.ClampMagnitude(v.Magnitude*0.85, cfg.MaxConfusion)
	v.Oscillation = confusion.Clamp01(v.Oscillation - 0.1)
}

// coherenceRestoration: raises coherence and reverts a fragmented tone.
func coherenceRestoration(cfg Config, t Target) {
	b := t.Behavior()
	b.Posting.Coherence = confusion.Clamp01(b.Posting.Coherence + 0.15)
	if b.Posting.Tone == confusion.ToneFragmented {
		b.Posting.Tone = confusion.ToneQuestioning
	}
}

// emergencyStabilization: aggressive magnitude cut and registry trim to
// the three most recent paradoxes.
func emergencyStabilization(cfg Config, t Target) {
	v := t.Vector()
	v.Magnitude = confusion.ClampMagnitude(v.Magnitude*0.6, cfg.MaxConfusion)
	t.TrimParadoxes(3)
}

// coherenceEmergency: forces a coherence floor and clears all
// meta-paradoxes.
func coherenceEmergency(cfg Config, t Target) {
	b := t.Behavior()
	if b.Posting.Coherence < 0.5 {
		b.Posting.Coherence = 0.5
	}
	t.ClearMetaParadoxes()
}

// #endregion strategies

// #region emergency-reset

// EmergencyReset unconditionally restores the safe baseline: magnitude
// 0.3, oscillation 0.05, cleared paradoxes and frustration, restored
// coherence. Always succeeds.
func (m *Monitor) EmergencyReset(target Target) {
	v := target.Vector()
	v.Magnitude = m.cfg.ResetMagnitude
	v.Oscillation = m.cfg.ResetOscillation
	v.Velocity = 0
	v.Acceleration = 0

	target.ClearParadoxes()
	target.ResetFrustration()
	target.Behavior().Posting.Coherence = m.cfg.ResetCoherence

	m.emergencyResets++
	m.stuckCount = 0
	log.Printf("[SAFETY] emergency reset: magnitude=%.2f coherence=%.2f", m.cfg.ResetMagnitude, m.cfg.ResetCoherence)
}

// CeilingExceeded reports whether magnitude reached the absolute ceiling
// at which the reset fires regardless of zone strategy outcomes. The
// ceiling is inclusive: landing exactly on it triggers the reset.
func (m *Monitor) CeilingExceeded(magnitude float64) bool {
	return magnitude >= m.cfg.EmergencyCeiling
}

// #endregion emergency-reset
