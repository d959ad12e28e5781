package brake

import (
	"testing"
	"time"
)

func TestLevelsFromCoherence(t *testing.T) {
	b := New(DefaultConfig())
	now := time.Now()

	if b.Update(0.5, now) != LevelNone {
		t.Fatal("healthy coherence should not brake")
	}
	if b.Update(0.28, now) != LevelSoft {
		t.Fatal("expected soft below 0.30")
	}
	if b.Update(0.22, now) != LevelMedium {
		t.Fatal("expected medium below 0.25")
	}
	if b.Update(0.18, now) != LevelHard {
		t.Fatal("expected hard below 0.20")
	}
}

func TestHysteresisHoldsAroundThreshold(t *testing.T) {
	// Oscillate coherence across 0.30±0.02: once soft-braking, the level
	// must not release until coherence exceeds 0.35.
	b := New(DefaultConfig())
	now := time.Now()

	b.Update(0.28, now) // engage soft
	for i := 0; i < 10; i++ {
		coherence := 0.28
		if i%2 == 1 {
			coherence = 0.32 // above threshold, below threshold+buffer
		}
		if lvl := b.Update(coherence, now.Add(time.Duration(i)*time.Second)); lvl != LevelSoft {
			t.Fatalf("iteration %d: brake released at coherence %.2f, level %s", i, coherence, lvl)
		}
	}

	if lvl := b.Update(0.36, now.Add(time.Minute)); lvl != LevelNone {
		t.Fatalf("expected release above 0.35, got %s", lvl)
	}
}

func TestDeescalationIsStepwise(t *testing.T) {
	b := New(DefaultConfig())
	now := time.Now()

	b.Update(0.1, now) // hard
	// Recovery jumps well above all release points but only steps one level.
	if lvl := b.Update(0.9, now.Add(time.Second)); lvl != LevelMedium {
		t.Fatalf("expected stepwise release to medium, got %s", lvl)
	}
	if lvl := b.Update(0.9, now.Add(2*time.Second)); lvl != LevelSoft {
		t.Fatalf("expected stepwise release to soft, got %s", lvl)
	}
	if lvl := b.Update(0.9, now.Add(3*time.Second)); lvl != LevelNone {
		t.Fatalf("expected full release, got %s", lvl)
	}
}

func TestEscalationIsImmediate(t *testing.T) {
	b := New(DefaultConfig())
	now := time.Now()
	if lvl := b.Update(0.15, now); lvl != LevelHard {
		t.Fatalf("escalation must jump straight to hard, got %s", lvl)
	}
}

func TestChangesRecordHeldDuration(t *testing.T) {
	b := New(DefaultConfig())
	now := time.Now()

	b.Update(0.28, now)
	b.Update(0.15, now.Add(30*time.Second))

	changes := b.Changes()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[1].Held != 30*time.Second {
		t.Fatalf("expected 30s held, got %s", changes[1].Held)
	}
	if changes[1].From != LevelSoft || changes[1].To != LevelHard {
		t.Fatalf("unexpected change %s → %s", changes[1].From, changes[1].To)
	}
}

func TestDecideHardBlocksEverything(t *testing.T) {
	b := New(DefaultConfig())
	b.Update(0.18, time.Now())

	d := b.Decide(0.18)
	if d.CanPost || d.CanAutoPost {
		t.Fatalf("hard brake must block all posting: %+v", d)
	}
}

func TestDecideMediumAllowsManualOnly(t *testing.T) {
	b := New(DefaultConfig())
	b.Update(0.22, time.Now())

	d := b.Decide(0.22)
	if !d.CanPost {
		t.Fatal("medium brake should allow manual posting")
	}
	if d.CanAutoPost {
		t.Fatal("medium brake must block autonomous posting")
	}
}

func TestDecideSoftScalesFrequencyLinearly(t *testing.T) {
	b := New(DefaultConfig())
	b.Update(0.29, time.Now())

	high := b.Decide(0.2999)
	low := b.Decide(0.2501)
	if !high.CanAutoPost || !low.CanAutoPost {
		t.Fatal("soft brake still allows autonomous posting")
	}
	if high.FrequencyMultiplier <= low.FrequencyMultiplier {
		t.Fatalf("multiplier should grow with coherence: %f vs %f",
			high.FrequencyMultiplier, low.FrequencyMultiplier)
	}
	if low.FrequencyMultiplier < 0.5 || high.FrequencyMultiplier > 1.0 {
		t.Fatalf("soft multiplier out of [0.5, 1.0]: %f / %f",
			low.FrequencyMultiplier, high.FrequencyMultiplier)
	}
}

func TestDecideReleasedIsUnrestricted(t *testing.T) {
	b := New(DefaultConfig())
	d := b.Decide(0.9)
	if !d.CanPost || !d.CanAutoPost || d.FrequencyMultiplier != 1.0 {
		t.Fatalf("released brake must not restrict: %+v", d)
	}
}
