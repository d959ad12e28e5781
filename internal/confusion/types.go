package confusion

import "time"

// #region tone

// Tone is the voice the agent speaks in.
type Tone string

const (
	ToneQuestioning Tone = "questioning"
	ToneDeclarative Tone = "declarative"
	ToneFragmented  Tone = "fragmented"
	TonePoetic      Tone = "poetic"
)

// ToneLadder orders tones from most grounded to most dissolved.
// Response-style modifiers walk this ladder one step at a time.
var ToneLadder = []Tone{ToneQuestioning, ToneDeclarative, ToneFragmented, TonePoetic}

// #endregion tone

// #region length

// Length is the expected post length.
type Length string

const (
	LengthTerse    Length = "terse"
	LengthVerbose  Length = "verbose"
	LengthVariable Length = "variable"
)

// #endregion length

// #region method

// Method is the investigation method the agent currently favors.
type Method string

const (
	MethodSystematic  Method = "systematic"
	MethodIntuitive   Method = "intuitive"
	MethodChaotic     Method = "chaotic"
	MethodDialectical Method = "dialectical"
)

// #endregion method

// #region explosion-pattern

// ExplosionPattern categorizes how accumulated frustration discharges.
type ExplosionPattern string

const (
	ExplosionConstructive  ExplosionPattern = "constructive"
	ExplosionChaotic       ExplosionPattern = "chaotic"
	ExplosionInvestigative ExplosionPattern = "investigative"
	ExplosionReflective    ExplosionPattern = "reflective"
)

// #endregion explosion-pattern

// #region vector

// Vector is the aggregate confusion state: a scalar magnitude with
// directional topic tags plus first and second derivatives over wall time.
type Vector struct {
	Magnitude    float64   `json:"magnitude"`    // [0, MaxConfusion]
	Direction    []string  `json:"direction"`    // append-only topic tags
	Velocity     float64   `json:"velocity"`     // d(magnitude)/dt
	Acceleration float64   `json:"acceleration"` // d(velocity)/dt
	Oscillation  float64   `json:"oscillation"`  // [0,1] uncertainty-about-uncertainty
	LastUpdated  time.Time `json:"last_updated"`
}

// #endregion vector

// #region posting-style

// PostingStyle shapes how often and in what voice the agent posts.
type PostingStyle struct {
	Frequency float64 `json:"frequency"` // posts-per-interval multiplier, >= 0
	Length    Length  `json:"length"`
	Tone      Tone    `json:"tone"`
	Coherence float64 `json:"coherence"` // [0,1]
}

// #endregion posting-style

// #region investigation-style

// InvestigationStyle shapes how the agent digs into topics.
type InvestigationStyle struct {
	Depth   float64 `json:"depth"`   // [0,1]
	Breadth float64 `json:"breadth"` // [0,1]
	Method  Method  `json:"method"`
}

// #endregion investigation-style

// #region interaction-style

// InteractionStyle shapes how the agent engages with others.
type InteractionStyle struct {
	Responsiveness       float64 `json:"responsiveness"`        // [0,1]
	InitiationRate       float64 `json:"initiation_rate"`       // [0,1]
	QuestioningIntensity float64 `json:"questioning_intensity"` // [0,1]
	MirroringTendency    float64 `json:"mirroring_tendency"`    // [0,1]
}

// #endregion interaction-style

// #region behavioral-state

// BehavioralState is the derived output consumed by text generation.
// Mutated only through behavioral modifiers and explosion effects.
type BehavioralState struct {
	Posting       PostingStyle       `json:"posting"`
	Investigation InvestigationStyle `json:"investigation"`
	Interaction   InteractionStyle   `json:"interaction"`
}

// #endregion behavioral-state

// #region frustration-state

// FrustrationState tracks tension building toward an explosion.
type FrustrationState struct {
	Level                 float64          `json:"level"`        // min(1, accumulation/threshold)
	Accumulation          float64          `json:"accumulation"` // unbounded positive
	Triggers              []string         `json:"triggers"`
	Threshold             float64          `json:"threshold"`
	BreakthroughPotential float64          `json:"breakthrough_potential"`
	LastExplosion         *time.Time       `json:"last_explosion,omitempty"`
	Pattern               ExplosionPattern `json:"pattern"`
}

// #endregion frustration-state

// #region defaults

// DefaultVector returns the baseline vector for a fresh engine.
func DefaultVector(now time.Time) Vector {
	return Vector{
		Magnitude:   0.1,
		Direction:   []string{},
		Oscillation: 0.05,
		LastUpdated: now,
	}
}

// DefaultBehavioralState returns the grounded starting behavior.
func DefaultBehavioralState() BehavioralState {
	return BehavioralState{
		Posting: PostingStyle{
			Frequency: 1.0,
			Length:    LengthVariable,
			Tone:      ToneQuestioning,
			Coherence: 0.9,
		},
		Investigation: InvestigationStyle{
			Depth:   0.5,
			Breadth: 0.5,
			Method:  MethodSystematic,
		},
		Interaction: InteractionStyle{
			Responsiveness:       0.7,
			InitiationRate:       0.3,
			QuestioningIntensity: 0.5,
			MirroringTendency:    0.3,
		},
	}
}

// DefaultFrustrationState returns an empty accumulator state.
func DefaultFrustrationState(threshold float64) FrustrationState {
	return FrustrationState{
		Threshold: threshold,
		Triggers:  []string{},
		Pattern:   ExplosionConstructive,
	}
}

// #endregion defaults
