package session

import "time"

// #region analyze

// Analyze derives the session report as a pure fold over the event list.
// It never consults engine state, so a persisted session analyzes
// identically to a live one.
func Analyze(s *Session) Analysis {
	a := Analysis{
		SessionID:   s.ID,
		EventCounts: make(map[EventType]int),
	}

	end := s.StartedAt
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	modifications := 0
	destabilizing := 0
	var firstMod time.Duration

	for _, ev := range s.Events {
		a.EventCounts[ev.Type]++
		if ev.At.After(end) {
			end = ev.At
		}
		switch ev.Type {
		case EventBehavioralMod:
			modifications++
		case EventFirstModification:
			firstMod = ev.At.Sub(s.StartedAt)
		case EventFrustrationExplosion, EventSafetyCorrection, EventEmergencyReset, EventCoherenceDegradation:
			destabilizing++
		}
	}

	a.EventCount = len(s.Events)
	a.Duration = end.Sub(s.StartedAt)
	a.TimeToFirstModification = firstMod

	if minutes := a.Duration.Minutes(); minutes > 0 {
		a.ModificationVelocity = float64(modifications) / minutes
	}

	// Meta-cognition depth: how much of the session's emergence was
	// second-order. Saturates at five meta-paradox events.
	metas := a.EventCounts[EventMetaParadoxEmergence]
	a.MetaCognitionDepth = float64(metas) / 5
	if a.MetaCognitionDepth > 1 {
		a.MetaCognitionDepth = 1
	}

	// Stability: fraction of events that were not destabilizing.
	if a.EventCount > 0 {
		a.StabilityScore = 1 - float64(destabilizing)/float64(a.EventCount)
	} else {
		a.StabilityScore = 1
	}

	return a
}

// #endregion analyze
