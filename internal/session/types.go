package session

import (
	"time"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

// #region event-type

// EventType enumerates everything the engine reports.
type EventType string

const (
	EventConfusionChange      EventType = "confusion_change"
	EventParadoxEmergence     EventType = "paradox_emergence"
	EventMetaParadoxEmergence EventType = "meta_paradox_emergence"
	EventBehavioralMod        EventType = "behavioral_modification"
	EventFirstModification    EventType = "first_modification"
	EventFrustrationExplosion EventType = "frustration_explosion"
	EventCoherenceDegradation EventType = "coherence_degradation"
	EventZoneTransition       EventType = "zone_transition"
	EventSafetyCorrection     EventType = "safety_correction"
	EventEmergencyReset       EventType = "emergency_reset"
	EventRecoveryAttempt      EventType = "recovery_attempt"
	EventBrakeChange          EventType = "brake_change"
)

// #endregion event-type

// #region event

// Event is one typed record in a session's append-only log.
type Event struct {
	ID        string         `json:"id"` // ULID, sortable
	SessionID string         `json:"session_id"`
	Type      EventType      `json:"type"`
	At        time.Time      `json:"at"` // strictly increasing within a session
	Payload   map[string]any `json:"payload,omitempty"`
}

// #endregion event

// #region baseline

// Baseline is the engine snapshot taken when a session starts.
type Baseline struct {
	Vector      confusion.Vector           `json:"vector"`
	Behavior    confusion.BehavioralState  `json:"behavior"`
	Frustration confusion.FrustrationState `json:"frustration"`
}

// #endregion baseline

// #region session

// Session is the unit of analysis: a baseline plus an ordered event list.
// Exactly one session is current at a time; ending it is terminal.
type Session struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
	Baseline  Baseline          `json:"baseline"`
	Events    []Event           `json:"events"`
	Counters  map[EventType]int `json:"counters"`
}

// #endregion session

// #region analysis

// Analysis is the derived session report. Computed as a pure fold over
// the event list; no engine state is consulted.
type Analysis struct {
	SessionID               string            `json:"session_id"`
	Duration                time.Duration     `json:"duration"`
	EventCount              int               `json:"event_count"`
	TimeToFirstModification time.Duration     `json:"time_to_first_modification"` // 0 when none fired
	ModificationVelocity    float64           `json:"modification_velocity"`      // modifications per minute
	MetaCognitionDepth      float64           `json:"meta_cognition_depth"`       // [0,1]
	StabilityScore          float64           `json:"stability_score"`            // [0,1]
	EventCounts             map[EventType]int `json:"event_counts"`
}

// Summary is returned when a session ends.
type Summary struct {
	SessionID  string    `json:"session_id"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	EventCount int       `json:"event_count"`
	Analysis   Analysis  `json:"analysis"`
}

// #endregion analysis
