package behavior

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

func testApplier() *Applier {
	return NewApplier(rand.New(rand.NewSource(42)))
}

func TestEligibleBelowMinIntensity(t *testing.T) {
	a := testApplier()
	m := Modifier{Kind: KindPostingFrequency, MinIntensity: 0.5}
	vec := confusion.Vector{Magnitude: 0.3}

	if a.Eligible(m, vec, nil, time.Now()) {
		t.Fatal("modifier should not fire below min intensity")
	}
}

func TestEligibleRequiredParadoxMissing(t *testing.T) {
	a := testApplier()
	m := Modifier{Kind: KindPostingFrequency, RequiredParadoxes: []string{"self_observation"}}
	vec := confusion.Vector{Magnitude: 0.5}

	if a.Eligible(m, vec, map[string]bool{"other": true}, time.Now()) {
		t.Fatal("modifier should not fire without its required paradox")
	}
	if !a.Eligible(m, vec, map[string]bool{"self_observation": true}, time.Now()) {
		t.Fatal("modifier should fire when the required paradox is active")
	}
}

func TestCyclicFiresOncePerPeriod(t *testing.T) {
	a := testApplier()
	m := Modifier{
		Kind:    KindPostingFrequency,
		Pattern: &TemporalPattern{Kind: PatternCyclic, Period: time.Hour},
	}
	vec := confusion.Vector{Magnitude: 0.5}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if !a.Eligible(m, vec, nil, now) {
		t.Fatal("first cyclic check should fire")
	}
	if a.Eligible(m, vec, nil, now.Add(30*time.Minute)) {
		t.Fatal("cyclic modifier should not fire within its period")
	}
	if !a.Eligible(m, vec, nil, now.Add(61*time.Minute)) {
		t.Fatal("cyclic modifier should fire again after the period")
	}
}

func TestCrescendoRequiresRisingConfusion(t *testing.T) {
	a := testApplier()
	m := Modifier{
		Kind:    KindResponseStyle,
		Pattern: &TemporalPattern{Kind: PatternCrescendo, Intensity: 0.3},
	}

	rising := confusion.Vector{Magnitude: 0.5, Acceleration: 0.1}
	if !a.Eligible(m, rising, nil, time.Now()) {
		t.Fatal("crescendo should fire while accelerating past pattern intensity")
	}

	falling := confusion.Vector{Magnitude: 0.5, Acceleration: -0.1}
	if a.Eligible(m, falling, nil, time.Now()) {
		t.Fatal("crescendo should not fire while decelerating")
	}

	low := confusion.Vector{Magnitude: 0.2, Acceleration: 0.1}
	if a.Eligible(m, low, nil, time.Now()) {
		t.Fatal("crescendo should not fire below pattern intensity")
	}
}

func TestDecayPatternRequiresFallingConfusion(t *testing.T) {
	a := testApplier()
	m := Modifier{
		Kind:    KindResponseStyle,
		Pattern: &TemporalPattern{Kind: PatternDecay, Intensity: 0.6},
	}

	falling := confusion.Vector{Magnitude: 0.4, Acceleration: -0.1}
	if !a.Eligible(m, falling, nil, time.Now()) {
		t.Fatal("decay pattern should fire while decelerating below pattern intensity")
	}

	rising := confusion.Vector{Magnitude: 0.4, Acceleration: 0.1}
	if a.Eligible(m, rising, nil, time.Now()) {
		t.Fatal("decay pattern should not fire while accelerating")
	}
}

func TestApplyPostingFrequencyScalesMultiplicatively(t *testing.T) {
	a := testApplier()
	b := confusion.DefaultBehavioralState()

	a.Apply(Modifier{Kind: KindPostingFrequency, Strength: 0.5}, &b)
	if b.Posting.Frequency != 1.5 {
		t.Fatalf("expected frequency 1.5, got %f", b.Posting.Frequency)
	}

	a.Apply(Modifier{Kind: KindPostingFrequency, Strength: -2.0}, &b)
	if b.Posting.Frequency != 0 {
		t.Fatalf("frequency should floor at 0, got %f", b.Posting.Frequency)
	}
}

func TestApplyResponseStyleWalksToneLadder(t *testing.T) {
	a := testApplier()
	b := confusion.DefaultBehavioralState() // starts questioning

	app := a.Apply(Modifier{Kind: KindResponseStyle, Strength: 0.5}, &b)
	if b.Posting.Tone != confusion.ToneDeclarative {
		t.Fatalf("expected declarative after one step, got %s", b.Posting.Tone)
	}
	if b.Posting.Coherence >= 0.9 {
		t.Fatalf("coherence should degrade, got %f", b.Posting.Coherence)
	}
	if app.Detail == "" {
		t.Fatal("expected application detail")
	}

	// Walking down from the bottom rung stays on the ladder.
	b.Posting.Tone = confusion.ToneQuestioning
	a.Apply(Modifier{Kind: KindResponseStyle, Strength: -0.5}, &b)
	if b.Posting.Tone != confusion.ToneQuestioning {
		t.Fatalf("tone should clamp at ladder bottom, got %s", b.Posting.Tone)
	}
}

func TestApplyAbstractionLevelFourWayRule(t *testing.T) {
	a := testApplier()

	cases := []struct {
		strength float64
		want     confusion.Method
	}{
		{0.8, confusion.MethodDialectical},
		{0.2, confusion.MethodSystematic},
		{-0.2, confusion.MethodIntuitive},
		{-0.8, confusion.MethodChaotic},
	}
	for _, c := range cases {
		b := confusion.DefaultBehavioralState()
		a.Apply(Modifier{Kind: KindAbstractionLevel, Strength: c.strength}, &b)
		if b.Investigation.Method != c.want {
			t.Errorf("strength %.1f: expected %s, got %s", c.strength, c.want, b.Investigation.Method)
		}
	}
}

func TestApplyQuestioningDepthClamps(t *testing.T) {
	a := testApplier()
	b := confusion.DefaultBehavioralState()
	b.Interaction.QuestioningIntensity = 0.99

	a.Apply(Modifier{Kind: KindQuestioningDepth, Strength: 1.0}, &b)
	if b.Interaction.QuestioningIntensity != 1.0 {
		t.Fatalf("expected clamp at 1.0, got %f", b.Interaction.QuestioningIntensity)
	}
}

func TestProjectToPromptBaselineIsEmpty(t *testing.T) {
	if block := ProjectToPrompt(confusion.DefaultBehavioralState()); block != "" {
		t.Fatalf("baseline state should project to empty block, got %q", block)
	}
}

func TestProjectToPromptRendersState(t *testing.T) {
	b := confusion.DefaultBehavioralState()
	b.Posting.Tone = confusion.ToneFragmented
	b.Posting.Coherence = 0.4

	block := ProjectToPrompt(b)
	if !strings.Contains(block, "[BEHAVIORAL STATE]") {
		t.Fatalf("missing header: %q", block)
	}
	if !strings.Contains(block, "fragmented") {
		t.Fatalf("missing tone: %q", block)
	}

	wrapped := WrapPrompt(block, "hello")
	if !strings.Contains(wrapped, "[PROMPT]\nhello") {
		t.Fatalf("prompt not wrapped: %q", wrapped)
	}
	if WrapPrompt("", "hello") != "hello" {
		t.Fatal("empty block should return prompt unchanged")
	}
}
