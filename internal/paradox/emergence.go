package paradox

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/behavior"
)

// #region config

// EmergenceConfig tunes meta-paradox synthesis.
type EmergenceConfig struct {
	ScoreThreshold float64 // interaction score required before a draw happens
	GreenGate      float64 // probability the check proceeds at all in the green zone
}

// DefaultEmergenceConfig returns the production emergence tuning.
func DefaultEmergenceConfig() EmergenceConfig {
	return EmergenceConfig{
		ScoreThreshold: 0.7,
		GreenGate:      0.7,
	}
}

// #endregion config

// #region detector

// Detector synthesizes meta-paradoxes from high-interaction pairs.
// All randomness flows through the injected source.
type Detector struct {
	rng *rand.Rand
	cfg EmergenceConfig
}

// NewDetector creates a detector using the given random source.
func NewDetector(rng *rand.Rand, cfg EmergenceConfig) *Detector {
	return &Detector{rng: rng, cfg: cfg}
}

// #endregion detector

// #region detect

// Detect scores the newly added paradox q against every existing paradox.
// Pairs above the score threshold are marked as interacting; each such
// pair then rolls against q's meta-potential to synthesize a meta-paradox.
// In the green zone an extra gate suppresses most checks to keep noise
// down at low confusion.
func (d *Detector) Detect(reg *Registry, q *Paradox, greenZone bool, now time.Time) []*MetaParadox {
	var emerged []*MetaParadox
	for _, p := range reg.Active() {
		if p.ID == q.ID {
			continue
		}
		score := InteractionScore(p, q)
		if score <= d.cfg.ScoreThreshold {
			continue
		}
		p.InteractsWith[q.ID] = struct{}{}
		q.InteractsWith[p.ID] = struct{}{}

		if greenZone && d.rng.Float64() >= d.cfg.GreenGate {
			continue
		}
		if d.rng.Float64() >= q.MetaPotential {
			continue
		}

		m := synthesize(p, q, score, now)
		reg.AddMeta(m)
		emerged = append(emerged, m)
	}
	return emerged
}

// #endregion detect

// #region synthesize

func synthesize(p, q *Paradox, score float64, now time.Time) *MetaParadox {
	return &MetaParadox{
		ID:        uuid.New().String(),
		Name:      fmt.Sprintf("meta:%s*%s", p.Name, q.Name),
		SourceIDs: [2]string{p.ID, q.ID},
		EmergentProperty: fmt.Sprintf(
			"the tension between %q and %q observes itself (interaction %.3f)",
			p.Name, q.Name, score),
		Modifiers: []behavior.Modifier{
			{Kind: behavior.KindQuestioningDepth, Strength: score * 0.5},
			{Kind: behavior.KindAbstractionLevel, Strength: score},
		},
		CreatedAt: now,
	}
}

// #endregion synthesize
