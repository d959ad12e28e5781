package paradox

import (
	"time"

	"github.com/google/uuid"
)

// #region config

// DecayConfig tunes per-paradox intensity decay during ticks.
type DecayConfig struct {
	Retention time.Duration // active time before decay begins
	Rate      float64       // per-second multiplicative decay constant
	Floor     float64       // |intensity| below this removes the paradox
}

// DefaultDecayConfig returns the production decay tuning.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		Retention: 30 * time.Minute,
		Rate:      0.001,
		Floor:     0.1,
	}
}

// #endregion config

// #region registry

// Registry owns all live paradoxes and meta-paradoxes. Not safe for
// concurrent use; the engine serializes access.
type Registry struct {
	paradoxes map[string]*Paradox
	metas     map[string]*MetaParadox
	order     []string // insertion order of paradox IDs, oldest first
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		paradoxes: make(map[string]*Paradox),
		metas:     make(map[string]*MetaParadox),
	}
}

// #endregion registry

// #region add

// Add inserts a paradox built from spec and returns it.
func (r *Registry) Add(spec Spec, now time.Time) *Paradox {
	p := &Paradox{
		ID:             uuid.New().String(),
		Name:           spec.Name,
		Description:    spec.Description,
		Intensity:      spec.Intensity,
		Observations:   spec.Observations,
		Contradictions: spec.Contradictions,
		MetaPotential:  spec.MetaPotential,
		Modifiers:      spec.Modifiers,
		InteractsWith:  make(map[string]struct{}),
		CreatedAt:      now,
	}
	r.paradoxes[p.ID] = p
	r.order = append(r.order, p.ID)
	return p
}

// AddMeta registers a synthesized meta-paradox.
func (r *Registry) AddMeta(m *MetaParadox) {
	r.metas[m.ID] = m
}

// #endregion add

// #region accessors

// Get returns the paradox with the given ID, or nil.
func (r *Registry) Get(id string) *Paradox {
	return r.paradoxes[id]
}

// Active returns live paradoxes in insertion order.
func (r *Registry) Active() []*Paradox {
	out := make([]*Paradox, 0, len(r.paradoxes))
	for _, id := range r.order {
		if p, ok := r.paradoxes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ActiveNames returns a lookup set of live paradox names.
func (r *Registry) ActiveNames() map[string]bool {
	names := make(map[string]bool, len(r.paradoxes))
	for _, p := range r.paradoxes {
		names[p.Name] = true
	}
	return names
}

// Metas returns all live meta-paradoxes.
func (r *Registry) Metas() []*MetaParadox {
	out := make([]*MetaParadox, 0, len(r.metas))
	for _, m := range r.metas {
		out = append(out, m)
	}
	return out
}

// Count returns the number of live paradoxes.
func (r *Registry) Count() int { return len(r.paradoxes) }

// MetaCount returns the number of live meta-paradoxes.
func (r *Registry) MetaCount() int { return len(r.metas) }

// #endregion accessors

// #region decay

// Decay advances active time by dt and decays intensity for paradoxes
// past the retention window. zoneFactor scales the decay rate (stricter
// zones decay faster). Returns names of paradoxes removed for falling
// below the intensity floor.
func (r *Registry) Decay(dt time.Duration, cfg DecayConfig, zoneFactor float64) []string {
	var removed []string
	for id, p := range r.paradoxes {
		p.ActiveTime += dt
		if p.ActiveTime <= cfg.Retention {
			continue
		}
		factor := 1 - cfg.Rate*zoneFactor*dt.Seconds()
		if factor < 0 {
			factor = 0
		}
		p.Intensity *= factor
		if p.Intensity < cfg.Floor && p.Intensity > -cfg.Floor {
			delete(r.paradoxes, id)
			removed = append(removed, p.Name)
		}
	}
	r.compactOrder()
	return removed
}

// #endregion decay

// #region trim

// TrimToRecent keeps only the n most recently added paradoxes.
// Used by aggressive recovery in the red zone.
func (r *Registry) TrimToRecent(n int) int {
	live := make([]string, 0, len(r.paradoxes))
	for _, id := range r.order {
		if _, ok := r.paradoxes[id]; ok {
			live = append(live, id)
		}
	}
	removed := 0
	for i := 0; i < len(live)-n; i++ {
		delete(r.paradoxes, live[i])
		removed++
	}
	r.compactOrder()
	return removed
}

// ClearMetas removes all meta-paradoxes.
func (r *Registry) ClearMetas() int {
	n := len(r.metas)
	r.metas = make(map[string]*MetaParadox)
	return n
}

// Clear removes everything. Used by emergency reset.
func (r *Registry) Clear() {
	r.paradoxes = make(map[string]*Paradox)
	r.metas = make(map[string]*MetaParadox)
	r.order = nil
}

func (r *Registry) compactOrder() {
	live := r.order[:0]
	for _, id := range r.order {
		if _, ok := r.paradoxes[id]; ok {
			live = append(live, id)
		}
	}
	r.order = live
}

// #endregion trim
