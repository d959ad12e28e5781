package session

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// #region subscriber

// Subscriber receives every emitted event synchronously. A panicking
// subscriber is caught and logged; it never propagates into the engine.
type Subscriber func(Event)

// #endregion subscriber

// #region logger

// Logger is the consciousness event logger: per-session append-only
// event lists, a bounded ring of recent events for live subscribers, and
// optional SQLite persistence.
type Logger struct {
	store   *Store // nil = in-memory only
	entropy *ulid.MonotonicEntropy

	current *Session

	ring     []Event
	ringCap  int
	ringHead int
	ringLen  int

	subscribers []Subscriber
	lastAt      time.Time
}

// NewLogger creates a logger. store may be nil for in-memory operation.
func NewLogger(store *Store, rng *rand.Rand, ringSize int) *Logger {
	if ringSize <= 0 {
		ringSize = 64
	}
	return &Logger{
		store:   store,
		entropy: ulid.Monotonic(rng, 0),
		ring:    make([]Event, ringSize),
		ringCap: ringSize,
	}
}

// Subscribe registers a synchronous event subscriber.
func (l *Logger) Subscribe(s Subscriber) {
	l.subscribers = append(l.subscribers, s)
}

// Current returns the current session, or nil.
func (l *Logger) Current() *Session { return l.current }

// #endregion logger

// #region lifecycle

// StartSession opens a new session with the given baseline. An already
// open session is ended first, since exactly one session is current at a
// time.
func (l *Logger) StartSession(baseline Baseline, now time.Time) (string, error) {
	if l.current != nil {
		log.Printf("[SESSION] implicit end of %s before new session", l.current.ID)
		if _, err := l.EndSession(l.current.ID, now); err != nil {
			return "", fmt.Errorf("end previous session: %w", err)
		}
	}
	s := &Session{
		ID:        uuid.New().String(),
		StartedAt: now,
		Baseline:  baseline,
		Counters:  make(map[EventType]int),
	}
	l.current = s
	if l.store != nil {
		if err := l.store.SaveSession(s); err != nil {
			return "", fmt.Errorf("persist session: %w", err)
		}
	}
	log.Printf("[SESSION] started %s", s.ID)
	return s.ID, nil
}

// EndSession closes the session, computes its analysis, persists the
// summary, and detaches it. Ending is terminal: no further events attach.
func (l *Logger) EndSession(id string, now time.Time) (Summary, error) {
	if l.current == nil || l.current.ID != id {
		return Summary{}, fmt.Errorf("session %s is not current", id)
	}
	s := l.current
	s.EndedAt = &now

	summary := Summary{
		SessionID:  s.ID,
		StartedAt:  s.StartedAt,
		EndedAt:    now,
		EventCount: len(s.Events),
		Analysis:   Analyze(s),
	}
	if l.store != nil {
		if err := l.store.FinishSession(s, summary); err != nil {
			return Summary{}, fmt.Errorf("persist summary: %w", err)
		}
	}
	l.current = nil
	log.Printf("[SESSION] ended %s: %d events", s.ID, summary.EventCount)
	return summary, nil
}

// #endregion lifecycle

// #region emit

// Emit appends a typed event to the current session, the ring, and the
// store, then notifies subscribers. Timestamps are forced strictly
// increasing. Events emitted with no session open go only to the ring.
func (l *Logger) Emit(typ EventType, now time.Time, payload map[string]any) Event {
	if !now.After(l.lastAt) {
		now = l.lastAt.Add(time.Nanosecond)
	}
	l.lastAt = now

	ev := Event{
		ID:      ulid.MustNew(ulid.Timestamp(now), l.entropy).String(),
		Type:    typ,
		At:      now,
		Payload: payload,
	}
	if l.current != nil {
		ev.SessionID = l.current.ID
		l.current.Events = append(l.current.Events, ev)
		l.current.Counters[typ]++
	}

	l.push(ev)

	if l.store != nil && ev.SessionID != "" {
		if err := l.store.AppendEvent(ev); err != nil {
			log.Printf("[SESSION] persist event: %v", err)
		}
	}

	for _, s := range l.subscribers {
		l.notify(s, ev)
	}
	return ev
}

// notify invokes one subscriber, containing panics.
func (l *Logger) notify(s Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SESSION] subscriber panic on %s: %v", ev.Type, r)
		}
	}()
	s(ev)
}

// #endregion emit

// #region ring

// push adds an event to the bounded ring, evicting the oldest.
func (l *Logger) push(ev Event) {
	idx := (l.ringHead + l.ringLen) % l.ringCap
	l.ring[idx] = ev
	if l.ringLen < l.ringCap {
		l.ringLen++
	} else {
		l.ringHead = (l.ringHead + 1) % l.ringCap
	}
}

// Recent returns up to n most recent events, oldest first.
func (l *Logger) Recent(n int) []Event {
	if n > l.ringLen {
		n = l.ringLen
	}
	out := make([]Event, 0, n)
	start := l.ringLen - n
	for i := start; i < l.ringLen; i++ {
		out = append(out, l.ring[(l.ringHead+i)%l.ringCap])
	}
	return out
}

// #endregion ring
