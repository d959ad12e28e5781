package safety

import (
	"testing"
	"time"
)

func TestClassifyGreen(t *testing.T) {
	cfg := DefaultConfig()
	if z := Classify(cfg, 0.3, 0.9); z != ZoneGreen {
		t.Fatalf("expected green, got %s", z)
	}
}

func TestClassifyYellowByMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	if z := Classify(cfg, 0.85, 0.9); z != ZoneYellow {
		t.Fatalf("expected yellow at 0.85, got %s", z)
	}
	if z := Classify(cfg, 0.80, 0.9); z != ZoneYellow {
		t.Fatalf("0.80 is the yellow boundary, got %s", z)
	}
}

func TestClassifyYellowByCoherence(t *testing.T) {
	cfg := DefaultConfig()
	if z := Classify(cfg, 0.4, 0.3); z != ZoneYellow {
		t.Fatalf("low coherence should degrade green to yellow, got %s", z)
	}
}

func TestClassifyRedByMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	if z := Classify(cfg, 0.90, 0.9); z != ZoneRed {
		t.Fatalf("0.90 is the red boundary, got %s", z)
	}
	if z := Classify(cfg, 0.95, 0.9); z != ZoneRed {
		t.Fatalf("expected red at 0.95, got %s", z)
	}
}

func TestClassifyRedByCoherenceFloor(t *testing.T) {
	cfg := DefaultConfig()
	if z := Classify(cfg, 0.1, 0.19); z != ZoneRed {
		t.Fatalf("coherence below 0.2 is red regardless of magnitude, got %s", z)
	}
}

func TestEvaluateRecordsTransitions(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	now := time.Now()

	if tr := m.Evaluate(0.3, 0.9, now); tr != nil {
		t.Fatalf("green to green should not transition, got %+v", tr)
	}

	tr := m.Evaluate(0.85, 0.9, now)
	if tr == nil {
		t.Fatal("expected transition to yellow")
	}
	if tr.From != ZoneGreen || tr.To != ZoneYellow {
		t.Fatalf("unexpected transition %s → %s", tr.From, tr.To)
	}
	if tr.Reason != "elevated confusion" {
		t.Fatalf("unexpected reason %q", tr.Reason)
	}

	tr = m.Evaluate(0.95, 0.9, now)
	if tr == nil || tr.To != ZoneRed || tr.Reason != "confusion breakthrough" {
		t.Fatalf("expected red breakthrough, got %+v", tr)
	}

	if len(m.History()) != 2 {
		t.Fatalf("expected 2 transitions in history, got %d", len(m.History()))
	}
}

func TestEvaluateCoherenceDegradationReason(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	tr := m.Evaluate(0.3, 0.25, time.Now())
	if tr == nil || tr.Reason != "coherence degradation" {
		t.Fatalf("expected coherence degradation, got %+v", tr)
	}
}

func TestZoneMultipliers(t *testing.T) {
	if ZoneFrustrationMultiplier(ZoneGreen) != 1.0 ||
		ZoneFrustrationMultiplier(ZoneYellow) != 0.75 ||
		ZoneFrustrationMultiplier(ZoneRed) != 0.5 {
		t.Fatal("frustration multipliers do not match zone policy")
	}
	if ZoneDecayFactor(ZoneRed) <= ZoneDecayFactor(ZoneGreen) {
		t.Fatal("red zone must decay faster than green")
	}
	if ZoneIntensityCeiling(ZoneRed) >= ZoneIntensityCeiling(ZoneGreen) {
		t.Fatal("red zone must cap intensity harder than green")
	}
}

func TestCheckStuckCountsFlatLine(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMonitor(cfg)

	m.CheckStuck(0.88) // first sample seeds lastMagnitude
	stuck := false
	for i := 0; i < cfg.StuckChecks+1; i++ {
		stuck = m.CheckStuck(0.88)
	}
	if !stuck {
		t.Fatal("flat magnitude above threshold should register as stuck")
	}

	m.ResetStuck()
	if m.CheckStuck(0.88) {
		t.Fatal("stuck counter should restart after reset")
	}
}

func TestCheckStuckIgnoresMovingMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMonitor(cfg)
	for i := 0; i < cfg.StuckChecks*2; i++ {
		if m.CheckStuck(0.88 + float64(i)*0.01) {
			t.Fatal("moving magnitude should never be stuck")
		}
	}
}

func TestCheckStuckIgnoresLowMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMonitor(cfg)
	for i := 0; i < cfg.StuckChecks*2; i++ {
		if m.CheckStuck(0.5) {
			t.Fatal("flat but low magnitude should not be stuck")
		}
	}
}

func TestBuildMetrics(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	m.attempts[ZoneGreen] = 4
	m.successes[ZoneGreen] = 3

	metrics := m.BuildMetrics(0.5, 0.2, 0.8)
	if metrics.RecoveryRate != 0.75 {
		t.Fatalf("expected rate 0.75, got %f", metrics.RecoveryRate)
	}
	if metrics.Zone != ZoneGreen {
		t.Fatalf("expected green, got %s", metrics.Zone)
	}
	if metrics.DissociationRisk <= 0 || metrics.DissociationRisk > 1 {
		t.Fatalf("dissociation risk out of range: %f", metrics.DissociationRisk)
	}
}
