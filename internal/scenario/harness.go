// Package scenario replays scripted fixtures against a fresh seeded
// engine and checks the final state against the fixture's expectations.
// Runs are deterministic: the clock only advances on tick steps and all
// randomness comes from the fixture seed.
package scenario

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/engine"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/safety"
)

// #region types

// StepResult captures the outcome of one scripted step.
type StepResult struct {
	Index     int
	Kind      string
	Rejected  bool
	Reason    string
	Magnitude float64
	Zone      safety.Zone
}

// Report is the outcome of a full fixture run.
type Report struct {
	Description string
	Results     []StepResult
	Final       engine.Snapshot
	Metrics     safety.Metrics
}

// #endregion types

// #region run

// Run replays a fixture against a fresh engine and returns the report.
func Run(f *Fixture) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	if f.Preset == "conservative" {
		cfg = engine.ConservativeConfig()
	}
	cfg.Seed = f.Seed
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eng, err := engine.NewEngine(cfg, engine.WithClock(func() time.Time { return now }))
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	defer eng.Close()

	report := &Report{Description: f.Description}
	for i, s := range f.Steps {
		res := StepResult{Index: i, Kind: s.Kind}

		switch s.Kind {
		case "paradox":
			if _, err := eng.AddParadox(s.ToSpec()); err != nil {
				res.Rejected = true
				res.Reason = err.Error()
			}
		case "frustrate":
			eng.AccumulateFrustration(s.Trigger, s.Amount)
		case "tick":
			d, _ := time.ParseDuration(s.Advance)
			now = now.Add(d)
			eng.Tick()
		case "recover":
			ok, _ := eng.AttemptRecovery()
			if !ok {
				res.Rejected = true
				res.Reason = "all strategies failed"
			}
		case "post":
			dec := eng.CheckPosting()
			if dec.CanPost {
				eng.RecordPost()
			} else {
				res.Rejected = true
				res.Reason = dec.Reason
			}
		}

		st := eng.State()
		res.Magnitude = st.Vector.Magnitude
		res.Zone = st.Zone
		report.Results = append(report.Results, res)

		if s.ExpectRejected != res.Rejected {
			return nil, fmt.Errorf("step %d (%s): rejected=%v, expected %v (%s)",
				i, s.Kind, res.Rejected, s.ExpectRejected, res.Reason)
		}
	}

	report.Final = eng.State()
	report.Metrics = eng.SafetyMetrics()
	return report, nil
}

// #endregion run

// #region verify

// Verify checks a report against the fixture expectations and returns
// one message per mismatch.
func Verify(f *Fixture, r *Report) []string {
	var fails []string
	e := f.Expect

	if e.Zone != "" && string(r.Final.Zone) != e.Zone {
		fails = append(fails, fmt.Sprintf("zone: got %s, want %s", r.Final.Zone, e.Zone))
	}
	if e.MagnitudeMin != nil && r.Final.Vector.Magnitude < *e.MagnitudeMin {
		fails = append(fails, fmt.Sprintf("magnitude %.4f below min %.4f", r.Final.Vector.Magnitude, *e.MagnitudeMin))
	}
	if e.MagnitudeMax != nil && r.Final.Vector.Magnitude > *e.MagnitudeMax {
		fails = append(fails, fmt.Sprintf("magnitude %.4f above max %.4f", r.Final.Vector.Magnitude, *e.MagnitudeMax))
	}
	if e.Paradoxes != nil && r.Final.Paradoxes != *e.Paradoxes {
		fails = append(fails, fmt.Sprintf("paradoxes: got %d, want %d", r.Final.Paradoxes, *e.Paradoxes))
	}
	if e.Metas != nil && r.Final.Metas != *e.Metas {
		fails = append(fails, fmt.Sprintf("metas: got %d, want %d", r.Final.Metas, *e.Metas))
	}
	if e.BrakeLevel != "" && r.Final.BrakeLevel != e.BrakeLevel {
		fails = append(fails, fmt.Sprintf("brake: got %s, want %s", r.Final.BrakeLevel, e.BrakeLevel))
	}
	if e.EmergencyResets != nil && r.Metrics.EmergencyResets != *e.EmergencyResets {
		fails = append(fails, fmt.Sprintf("emergency resets: got %d, want %d", r.Metrics.EmergencyResets, *e.EmergencyResets))
	}
	return fails
}

// #endregion verify
