package paradox

import (
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/behavior"
)

// #region spec

// Spec describes a paradox to add to the registry.
type Spec struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Intensity      float64             `json:"intensity"` // signed, typically [-1,1]; negative grounds
	Observations   []string            `json:"observations"`
	Contradictions []string            `json:"contradictions"`
	MetaPotential  float64             `json:"meta_potential"` // [0,1]
	Modifiers      []behavior.Modifier `json:"modifiers,omitempty"`
}

// #endregion spec

// #region paradox

// Paradox is a discrete, named source of confusion owned by the registry.
type Paradox struct {
	ID             string
	Name           string
	Description    string
	Intensity      float64
	Observations   []string
	Contradictions []string
	ActiveTime     time.Duration // accumulated while registered
	MetaPotential  float64
	Modifiers      []behavior.Modifier
	InteractsWith  map[string]struct{} // IDs of paradoxes it interacts with
	CreatedAt      time.Time
}

// Clone returns a detached copy safe to hand outside the registry.
func (p *Paradox) Clone() Paradox {
	c := *p
	c.Observations = append([]string(nil), p.Observations...)
	c.Contradictions = append([]string(nil), p.Contradictions...)
	c.Modifiers = behavior.CloneModifiers(p.Modifiers)
	c.InteractsWith = make(map[string]struct{}, len(p.InteractsWith))
	for id := range p.InteractsWith {
		c.InteractsWith[id] = struct{}{}
	}
	return c
}

// #endregion paradox

// #region meta-paradox

// MetaParadox is a second-order paradox synthesized from an interacting
// pair. Immutable after creation except for removal during recovery.
type MetaParadox struct {
	ID               string
	Name             string
	SourceIDs        [2]string
	EmergentProperty string
	Modifiers        []behavior.Modifier
	CreatedAt        time.Time
}

// Clone returns a detached copy safe to hand outside the registry.
func (m *MetaParadox) Clone() MetaParadox {
	c := *m
	c.Modifiers = behavior.CloneModifiers(m.Modifiers)
	return c
}

// #endregion meta-paradox
