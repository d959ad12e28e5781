package behavior

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

// #region applier

// Applier evaluates modifier conditions and applies effects to a
// BehavioralState. Cyclic pattern bookkeeping is keyed by a modifier
// fingerprint so the same modifier fires at most once per period.
type Applier struct {
	rng       *rand.Rand
	lastFired map[string]time.Time
}

// NewApplier creates an Applier using the given random source.
func NewApplier(rng *rand.Rand) *Applier {
	return &Applier{
		rng:       rng,
		lastFired: make(map[string]time.Time),
	}
}

// #endregion applier

// #region eligible

// Eligible reports whether a modifier's conditions hold: magnitude floor,
// required paradoxes active, and temporal pattern satisfied.
func (a *Applier) Eligible(m Modifier, vec confusion.Vector, activeParadoxes map[string]bool, now time.Time) bool {
	if vec.Magnitude < m.MinIntensity {
		return false
	}
	for _, name := range m.RequiredParadoxes {
		if !activeParadoxes[name] {
			return false
		}
	}
	if m.Pattern == nil {
		return true
	}
	switch m.Pattern.Kind {
	case PatternCyclic:
		fp := fingerprint(m)
		last, ok := a.lastFired[fp]
		if ok && now.Sub(last) < m.Pattern.Period {
			return false
		}
		a.lastFired[fp] = now
		return true
	case PatternSporadic:
		return a.rng.Float64() < m.Pattern.Probability
	case PatternCrescendo:
		return vec.Acceleration > 0 && m.Pattern.Intensity < vec.Magnitude
	case PatternDecay:
		return vec.Acceleration < 0 && m.Pattern.Intensity > vec.Magnitude
	default:
		return false
	}
}

// #endregion eligible

// #region apply

// Apply mutates the behavioral state according to the modifier kind.
// Returns a record of what changed for event logging.
func (a *Applier) Apply(m Modifier, b *confusion.BehavioralState) Application {
	var detail string

	switch m.Kind {
	case KindPostingFrequency:
		// Frequency scales multiplicatively with strength.
		b.Posting.Frequency *= 1 + m.Strength
		if b.Posting.Frequency < 0 {
			b.Posting.Frequency = 0
		}
		detail = fmt.Sprintf("frequency → %.3f", b.Posting.Frequency)

	case KindResponseStyle:
		// Walk the tone ladder one step in the direction of strength and
		// degrade coherence proportionally.
		b.Posting.Tone = stepTone(b.Posting.Tone, m.Strength)
		b.Posting.Coherence = confusion.Clamp01(b.Posting.Coherence - absFloat(m.Strength)*0.2)
		detail = fmt.Sprintf("tone → %s, coherence → %.3f", b.Posting.Tone, b.Posting.Coherence)

	case KindInvestigationPreference:
		b.Investigation.Depth = confusion.Clamp01(b.Investigation.Depth + m.Strength*0.1)
		b.Investigation.Breadth = confusion.Clamp01(b.Investigation.Breadth - m.Strength*0.05)
		detail = fmt.Sprintf("depth → %.3f, breadth → %.3f", b.Investigation.Depth, b.Investigation.Breadth)

	case KindQuestioningDepth:
		b.Interaction.QuestioningIntensity = confusion.Clamp01(b.Interaction.QuestioningIntensity + m.Strength*0.1)
		detail = fmt.Sprintf("questioning intensity → %.3f", b.Interaction.QuestioningIntensity)

	case KindAbstractionLevel:
		b.Investigation.Method = methodFor(m.Strength)
		detail = fmt.Sprintf("method → %s", b.Investigation.Method)
	}

	return Application{
		Kind:     m.Kind,
		Strength: m.Strength,
		Detail:   detail,
	}
}

// #endregion apply

// #region helpers

// stepTone moves one rung along the tone ladder; positive strength moves
// toward dissolution, negative back toward grounding.
func stepTone(t confusion.Tone, strength float64) confusion.Tone {
	idx := 0
	for i, rung := range confusion.ToneLadder {
		if rung == t {
			idx = i
			break
		}
	}
	if strength > 0 {
		idx++
	} else if strength < 0 {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(confusion.ToneLadder) {
		idx = len(confusion.ToneLadder) - 1
	}
	return confusion.ToneLadder[idx]
}

// methodFor selects the investigation method from sign and magnitude of
// the modifier strength.
func methodFor(strength float64) confusion.Method {
	switch {
	case strength >= 0.5:
		return confusion.MethodDialectical
	case strength >= 0:
		return confusion.MethodSystematic
	case strength > -0.5:
		return confusion.MethodIntuitive
	default:
		return confusion.MethodChaotic
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// fingerprint identifies a modifier for cyclic bookkeeping.
func fingerprint(m Modifier) string {
	period := time.Duration(0)
	if m.Pattern != nil {
		period = m.Pattern.Period
	}
	return fmt.Sprintf("%s|%.4f|%s", m.Kind, m.Strength, period)
}

// #endregion helpers
