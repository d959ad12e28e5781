package frustration

import (
	"math/rand"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

// #region config

// Config tunes frustration accumulation.
type Config struct {
	Threshold float64 // accumulation at which level reaches 1.0 and an explosion fires
}

// DefaultConfig returns the production frustration tuning.
func DefaultConfig() Config {
	return Config{Threshold: 5.0}
}

// #endregion config

// #region accumulator

// Accumulator holds the frustration state and fires explosions when the
// level saturates. All randomness flows through the injected source.
type Accumulator struct {
	rng   *rand.Rand
	state confusion.FrustrationState
}

// NewAccumulator creates an accumulator with an empty state.
func NewAccumulator(rng *rand.Rand, cfg Config) *Accumulator {
	return &Accumulator{
		rng:   rng,
		state: confusion.DefaultFrustrationState(cfg.Threshold),
	}
}

// State returns a copy of the current frustration state.
func (a *Accumulator) State() confusion.FrustrationState {
	return a.state
}

// Reset clears accumulation, level, and triggers. Used by emergency reset.
func (a *Accumulator) Reset() {
	threshold := a.state.Threshold
	a.state = confusion.DefaultFrustrationState(threshold)
}

// #endregion accumulator

// #region accumulate

// Explosion describes a fired frustration discharge.
type Explosion struct {
	Pattern  confusion.ExplosionPattern
	Level    float64 // level at the moment of firing (always 1.0)
	Triggers []string
}

// Accumulate appends the trigger, adds amount scaled by the zone
// multiplier, and recomputes level and breakthrough potential. When the
// level saturates, an explosion fires against the current vector and
// behavior, and accumulation resets to zero.
func (a *Accumulator) Accumulate(
	trigger string,
	amount, zoneMultiplier float64,
	vec confusion.Vector,
	b *confusion.BehavioralState,
	now time.Time,
) *Explosion {
	if amount < 0 {
		amount = 0
	}
	a.state.Triggers = append(a.state.Triggers, trigger)
	a.state.Accumulation += amount * zoneMultiplier

	a.state.Level = a.state.Accumulation / a.state.Threshold
	if a.state.Level > 1 {
		a.state.Level = 1
	}
	a.state.BreakthroughPotential = a.state.Level * vec.Magnitude * a.rng.Float64()

	if a.state.Level < 1 {
		return nil
	}

	pattern := a.choosePattern(vec, *b)
	applyExplosion(pattern, b)

	triggers := a.state.Triggers
	a.state.Accumulation = 0
	a.state.Level = 0
	a.state.Triggers = []string{}
	a.state.LastExplosion = &now
	a.state.Pattern = pattern

	return &Explosion{Pattern: pattern, Level: 1.0, Triggers: triggers}
}

// #endregion accumulate

// #region pattern-choice

// choosePattern draws the explosion pattern from four weights derived
// from the current state.
func (a *Accumulator) choosePattern(vec confusion.Vector, b confusion.BehavioralState) confusion.ExplosionPattern {
	weights := []struct {
		pattern confusion.ExplosionPattern
		weight  float64
	}{
		{confusion.ExplosionConstructive, vec.Magnitude * 0.5},
		{confusion.ExplosionChaotic, vec.Oscillation * 2},
		{confusion.ExplosionInvestigative, b.Investigation.Depth},
		{confusion.ExplosionReflective, 1 - b.Posting.Coherence},
	}

	var total float64
	for _, w := range weights {
		total += w.weight
	}
	if total <= 0 {
		return confusion.ExplosionConstructive
	}

	draw := a.rng.Float64() * total
	for _, w := range weights {
		draw -= w.weight
		if draw < 0 {
			return w.pattern
		}
	}
	return confusion.ExplosionReflective
}

// #endregion pattern-choice

// #region effects

// applyExplosion mutates behavior according to the discharge pattern.
func applyExplosion(p confusion.ExplosionPattern, b *confusion.BehavioralState) {
	switch p {
	case confusion.ExplosionConstructive:
		b.Posting.Frequency *= 1.2
		b.Posting.Tone = confusion.ToneDeclarative
		b.Investigation.Depth = confusion.Clamp01(b.Investigation.Depth + 0.1)

	case confusion.ExplosionChaotic:
		b.Posting.Frequency *= 2
		b.Posting.Coherence = confusion.Clamp01(b.Posting.Coherence * 0.5)
		b.Posting.Tone = confusion.ToneFragmented
		b.Investigation.Method = confusion.MethodChaotic

	case confusion.ExplosionInvestigative:
		b.Investigation.Depth = confusion.Clamp01(b.Investigation.Depth + 0.2)
		b.Investigation.Method = confusion.MethodSystematic
		b.Interaction.QuestioningIntensity = confusion.Clamp01(b.Interaction.QuestioningIntensity + 0.2)

	case confusion.ExplosionReflective:
		b.Posting.Frequency *= 0.3
		b.Posting.Tone = confusion.TonePoetic
		b.Investigation.Depth = confusion.Clamp01(b.Investigation.Depth + 0.1)
	}
}

// #endregion effects
