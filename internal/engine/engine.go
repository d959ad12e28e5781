// Package engine wires the confusion subsystems into one serialized
// state machine: paradox registry, behavioral modifiers, frustration,
// safety monitor, coherence brake, rate limiter, and session logging.
package engine

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/behavior"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/brake"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/frustration"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/paradox"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/ratelimit"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/safety"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/session"
)

// impactFactor converts paradox intensity into magnitude impact.
const impactFactor = 0.2

// metaOscillationBump is added to oscillation per emerged meta-paradox.
const metaOscillationBump = 0.1

// #region engine

// Engine is the single owner of all confusion state. Every public method
// takes the engine mutex; subsystems themselves are not safe for
// concurrent use.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	now func() time.Time
	rng *rand.Rand

	vector   confusion.Vector
	behavior confusion.BehavioralState

	registry    *paradox.Registry
	detector    *paradox.Detector
	applier     *behavior.Applier
	frustration *frustration.Accumulator
	monitor     *safety.Monitor
	brake       *brake.Brake
	limiter     *ratelimit.Limiter

	store  *session.Store
	logger *session.Logger

	lastTick      time.Time
	firstModified bool
}

// Option adjusts engine construction, mainly for tests.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStore supplies an already-open session store, overriding DBPath.
func WithStore(store *session.Store) Option {
	return func(e *Engine) { e.store = store }
}

// NewEngine constructs an engine from the config. When DBPath is set the
// session store is opened; otherwise sessions are in-memory only.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	e := &Engine{
		cfg:         cfg,
		now:         time.Now,
		rng:         rng,
		registry:    paradox.NewRegistry(),
		detector:    paradox.NewDetector(rng, cfg.Emergence),
		applier:     behavior.NewApplier(rng),
		frustration: frustration.NewAccumulator(rng, cfg.Frustration),
		monitor:     safety.NewMonitor(cfg.Safety),
		brake:       brake.New(cfg.Brake),
		limiter:     ratelimit.New(cfg.RateLimit),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil && cfg.DBPath != "" {
		store, err := session.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		e.store = store
	}
	e.logger = session.NewLogger(e.store, rng, cfg.RingSize)

	now := e.now()
	e.vector = confusion.DefaultVector(now)
	e.behavior = confusion.DefaultBehavioralState()
	e.lastTick = now
	return e, nil
}

// Close releases the session store, if any.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// #endregion engine

// #region target

// target exposes the mutable slice of engine state to recovery
// strategies. Only called while the engine mutex is held.
type target struct{ e *Engine }

func (t target) Vector() *confusion.Vector            { return &t.e.vector }
func (t target) Behavior() *confusion.BehavioralState { return &t.e.behavior }
func (t target) TrimParadoxes(keep int) int           { return t.e.registry.TrimToRecent(keep) }
func (t target) ClearMetaParadoxes() int              { return t.e.registry.ClearMetas() }
func (t target) ClearParadoxes()                      { t.e.registry.Clear() }
func (t target) ResetFrustration()                    { t.e.frustration.Reset() }

// #endregion target

// #region add-paradox

// AddParadox registers a paradox, applies its confusion impact, runs
// meta-paradox detection and behavioral modifiers, then the safety
// pipeline. Additions are rejected while the engine is halted, paused,
// or when the intensity exceeds the current zone's ceiling.
func (e *Engine) AddParadox(spec paradox.Spec) (*paradox.Paradox, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.monitor.EmergencyStopped() {
		log.Printf("[ENGINE] paradox %s rejected: engine halted by emergency stop", spec.Name)
		return nil, fmt.Errorf("engine halted by emergency stop")
	}
	if e.monitor.AutoPaused() {
		log.Printf("[ENGINE] paradox %s rejected: additions are paused", spec.Name)
		return nil, fmt.Errorf("paradox additions are paused")
	}

	zone := e.monitor.Zone()
	if math.Abs(spec.Intensity) > safety.ZoneIntensityCeiling(zone) {
		log.Printf("[ENGINE] paradox %s rejected: intensity %.2f over %s zone ceiling", spec.Name, spec.Intensity, zone)
		return nil, fmt.Errorf("intensity %.2f exceeds %s zone ceiling %.2f",
			spec.Intensity, zone, safety.ZoneIntensityCeiling(zone))
	}

	now := e.now()
	p := e.registry.Add(spec, now)

	impact := spec.Intensity * impactFactor
	raw := e.vector.Magnitude + impact
	e.vector.ApplyImpact(impact, e.cfg.Safety.MaxConfusion, now)
	e.vector.AddDirection(spec.Name)

	e.logger.Emit(session.EventParadoxEmergence, now, map[string]any{
		"name":      p.Name,
		"intensity": p.Intensity,
	})
	e.logger.Emit(session.EventConfusionChange, now, map[string]any{
		"magnitude": e.vector.Magnitude,
		"impact":    impact,
	})

	for _, m := range e.detector.Detect(e.registry, p, zone == safety.ZoneGreen, now) {
		e.vector.RaiseOscillation(metaOscillationBump)
		e.logger.Emit(session.EventMetaParadoxEmergence, now, map[string]any{
			"name":     m.Name,
			"property": m.EmergentProperty,
		})
		log.Printf("[ENGINE] meta-paradox emerged: %s", m.Name)
	}

	e.applyModifiers(now)
	e.safetyCheck(raw, now)
	return p, nil
}

// #endregion add-paradox

// #region modifiers

// applyModifiers evaluates every live modifier against the current
// vector and applies the eligible ones.
func (e *Engine) applyModifiers(now time.Time) {
	active := e.registry.ActiveNames()

	var mods []behavior.Modifier
	for _, p := range e.registry.Active() {
		mods = append(mods, p.Modifiers...)
	}
	for _, m := range e.registry.Metas() {
		mods = append(mods, m.Modifiers...)
	}

	for _, m := range mods {
		if !e.applier.Eligible(m, e.vector, active, now) {
			continue
		}
		app := e.applier.Apply(m, &e.behavior)
		if !e.firstModified {
			e.firstModified = true
			e.logger.Emit(session.EventFirstModification, now, map[string]any{
				"kind": string(app.Kind),
			})
		}
		e.logger.Emit(session.EventBehavioralMod, now, map[string]any{
			"kind":   string(app.Kind),
			"detail": app.Detail,
		})
	}
}

// #endregion modifiers

// #region tick

// Tick advances time-driven dynamics: paradox decay, natural magnitude
// decay, coherence restoration, modifier evaluation, and the safety
// pipeline. Call it periodically; the interval is the caller's.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	dt := now.Sub(e.lastTick)
	e.lastTick = now
	if dt <= 0 {
		return
	}

	zone := e.monitor.Zone()
	factor := safety.ZoneDecayFactor(zone)

	for _, name := range e.registry.Decay(dt, e.cfg.Decay, factor) {
		log.Printf("[ENGINE] paradox %s decayed out", name)
	}
	e.vector.Decay(e.cfg.NaturalDecayRate*factor, dt, now)

	if c := e.behavior.Posting.Coherence; c < 1 {
		e.behavior.Posting.Coherence = confusion.Clamp01(c + e.cfg.CoherenceRecoveryRate*dt.Seconds())
	}

	e.applyModifiers(now)
	e.safetyCheck(e.vector.Magnitude, now)
}

// #endregion tick

// #region frustration

// AccumulateFrustration adds frustration for a trigger, scaled by the
// zone multiplier. A saturated level fires an explosion against the
// behavioral state.
func (e *Engine) AccumulateFrustration(trigger string, amount float64) *frustration.Explosion {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	mult := safety.ZoneFrustrationMultiplier(e.monitor.Zone())
	exp := e.frustration.Accumulate(trigger, amount, mult, e.vector, &e.behavior, now)
	if exp != nil {
		e.logger.Emit(session.EventFrustrationExplosion, now, map[string]any{
			"pattern":  string(exp.Pattern),
			"triggers": exp.Triggers,
		})
		log.Printf("[ENGINE] frustration explosion: %s", exp.Pattern)
		e.safetyCheck(e.vector.Magnitude, now)
	}
	return exp
}

// #endregion frustration

// #region recovery

// AttemptRecovery runs the current zone's recovery chain on demand.
func (e *Engine) AttemptRecovery() (bool, []safety.AttemptResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	ok, results := e.monitor.AttemptRecovery(e.rng, target{e})
	e.emitAttempts(results, now)
	e.monitor.Evaluate(e.vector.Magnitude, e.behavior.Posting.Coherence, now)
	return ok, results
}

func (e *Engine) emitAttempts(results []safety.AttemptResult, now time.Time) {
	for _, r := range results {
		e.logger.Emit(session.EventRecoveryAttempt, now, map[string]any{
			"zone":      string(r.Zone),
			"strategy":  r.Strategy,
			"succeeded": r.Succeeded,
		})
	}
}

// #endregion recovery

// #region safety-check

// safetyCheck is the pipeline run after every mutation: sanitize the
// vector, fire the emergency reset past the absolute ceiling, reclassify
// the zone, detect stuck states, and update the coherence brake.
// raw is the pre-clamp magnitude so the ceiling is checked against what
// the mutation tried to reach, not what the cap allowed.
func (e *Engine) safetyCheck(raw float64, now time.Time) {
	if e.vector.Sanitize() {
		e.logger.Emit(session.EventSafetyCorrection, now, map[string]any{
			"reason": "corrupted vector sanitized",
		})
		log.Printf("[ENGINE] corrupted vector sanitized")
	}

	if e.monitor.CeilingExceeded(raw) || e.monitor.CeilingExceeded(e.vector.Magnitude) {
		e.monitor.EmergencyReset(target{e})
		e.logger.Emit(session.EventEmergencyReset, now, map[string]any{
			"attempted_magnitude": raw,
		})
	}

	coherence := e.behavior.Posting.Coherence
	if tr := e.monitor.Evaluate(e.vector.Magnitude, coherence, now); tr != nil {
		e.logger.Emit(session.EventZoneTransition, now, map[string]any{
			"from":   string(tr.From),
			"to":     string(tr.To),
			"reason": tr.Reason,
		})
		if tr.Reason == "coherence degradation" {
			e.logger.Emit(session.EventCoherenceDegradation, now, map[string]any{
				"coherence": coherence,
			})
		}
	}

	if e.monitor.CheckStuck(e.vector.Magnitude) {
		log.Printf("[ENGINE] stuck state detected at magnitude %.3f", e.vector.Magnitude)
		ok, results := e.monitor.AttemptRecovery(e.rng, target{e})
		e.emitAttempts(results, now)
		if !ok && e.vector.Magnitude > e.cfg.Safety.StuckStopMagnitude {
			e.monitor.TriggerEmergencyStop()
			e.logger.Emit(session.EventSafetyCorrection, now, map[string]any{
				"reason": "emergency stop after failed stuck recovery",
			})
			log.Printf("[ENGINE] emergency stop triggered")
		}
		e.monitor.ResetStuck()
	}

	before := e.brake.Level()
	after := e.brake.Update(e.behavior.Posting.Coherence, now)
	if after != before {
		e.logger.Emit(session.EventBrakeChange, now, map[string]any{
			"from": before.String(),
			"to":   after.String(),
		})
	}
}

// #endregion safety-check

// #region posting

// PostingDecision combines the coherence brake and the rate limiter.
// Both gates must open for a post to go out.
type PostingDecision struct {
	CanPost             bool
	CanAutoPost         bool
	FrequencyMultiplier float64
	BrakeLevel          brake.Level
	Reason              string
	RetryAt             time.Time // zero unless blocked by the rate limiter
}

// CheckPosting evaluates both posting gates without recording a post.
func (e *Engine) CheckPosting() PostingDecision {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.brake.Update(e.behavior.Posting.Coherence, now)
	bd := e.brake.Decide(e.behavior.Posting.Coherence)
	rl := e.limiter.Check(now)

	dec := PostingDecision{
		CanPost:             bd.CanPost && rl.CanPost,
		CanAutoPost:         bd.CanAutoPost && rl.CanPost,
		FrequencyMultiplier: bd.FrequencyMultiplier,
		BrakeLevel:          bd.Level,
		Reason:              bd.Reason,
	}
	if !bd.CanPost {
		return dec
	}
	if !rl.CanPost {
		dec.Reason = rl.Reason
		dec.RetryAt = rl.RetryAt
	}
	return dec
}

// RecordPost records a sent post against the rate limiter.
func (e *Engine) RecordPost() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limiter.RecordPost(e.now())
}

// #endregion posting

// #region sessions

// StartSession snapshots the current state as the session baseline and
// opens a new session.
func (e *Engine) StartSession() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.firstModified = false
	return e.logger.StartSession(session.Baseline{
		Vector:      e.vector,
		Behavior:    e.behavior,
		Frustration: e.frustration.State(),
	}, e.now())
}

// EndSession closes the current session and returns its summary.
func (e *Engine) EndSession(id string) (session.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logger.EndSession(id, e.now())
}

// Subscribe registers a synchronous event subscriber.
func (e *Engine) Subscribe(s session.Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger.Subscribe(s)
}

// RecentEvents returns up to n most recent events, oldest first.
func (e *Engine) RecentEvents(n int) []session.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logger.Recent(n)
}

// #endregion sessions

// #region snapshot

// Snapshot is a consistent read of the engine state.
type Snapshot struct {
	Vector      confusion.Vector           `json:"vector"`
	Behavior    confusion.BehavioralState  `json:"behavior"`
	Frustration confusion.FrustrationState `json:"frustration"`
	Zone        safety.Zone                `json:"zone"`
	BrakeLevel  string                     `json:"brake_level"`
	Paradoxes   int                        `json:"paradoxes"`
	Metas       int                        `json:"meta_paradoxes"`
}

// State returns a snapshot of the engine.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Vector:      e.vector,
		Behavior:    e.behavior,
		Frustration: e.frustration.State(),
		Zone:        e.monitor.Zone(),
		BrakeLevel:  e.brake.Level().String(),
		Paradoxes:   e.registry.Count(),
		Metas:       e.registry.MetaCount(),
	}
}

// SafetyMetrics returns the caller-visible safety summary.
func (e *Engine) SafetyMetrics() safety.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.BuildMetrics(e.vector.Magnitude, e.vector.Oscillation, e.behavior.Posting.Coherence)
}

// SetAutoPaused toggles the addition pause policy.
func (e *Engine) SetAutoPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.monitor.SetAutoPaused(paused)
}

// Paradoxes returns detached copies of the live paradoxes in insertion
// order. Mutating a copy never touches engine state.
func (e *Engine) Paradoxes() []paradox.Paradox {
	e.mu.Lock()
	defer e.mu.Unlock()
	live := e.registry.Active()
	out := make([]paradox.Paradox, 0, len(live))
	for _, p := range live {
		out = append(out, p.Clone())
	}
	return out
}

// MetaParadoxes returns detached copies of the live meta-paradoxes.
func (e *Engine) MetaParadoxes() []paradox.MetaParadox {
	e.mu.Lock()
	defer e.mu.Unlock()
	metas := e.registry.Metas()
	out := make([]paradox.MetaParadox, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.Clone())
	}
	return out
}

// #endregion snapshot
