package session

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTripsSession(t *testing.T) {
	store := newTestStore(t)
	l := NewLogger(store, rand.New(rand.NewSource(1)), 8)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := l.StartSession(testBaseline(), now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	l.Emit(EventParadoxEmergence, now.Add(time.Second), map[string]any{"name": "self_observation"})
	l.Emit(EventConfusionChange, now.Add(2*time.Second), nil)
	if _, err := l.EndSession(id, now.Add(time.Minute)); err != nil {
		t.Fatalf("end: %v", err)
	}

	got, err := store.LoadSession(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got.Events))
	}
	if got.Events[0].Type != EventParadoxEmergence {
		t.Fatalf("event order lost: %v", got.Events[0].Type)
	}
	if got.Events[0].Payload["name"] != "self_observation" {
		t.Fatalf("payload lost: %v", got.Events[0].Payload)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("end time not persisted: %v", got.EndedAt)
	}
	if got.Baseline.Vector.Magnitude != 0.1 {
		t.Fatalf("baseline not persisted: %+v", got.Baseline.Vector)
	}
	if got.Counters[EventParadoxEmergence] != 1 {
		t.Fatalf("counters not rebuilt on load: %v", got.Counters)
	}
}

func TestStoreListSessionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	l := NewLogger(store, rand.New(rand.NewSource(1)), 8)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	id1, _ := l.StartSession(testBaseline(), now)
	l.Emit(EventConfusionChange, now.Add(time.Second), nil)
	l.EndSession(id1, now.Add(time.Minute))

	id2, _ := l.StartSession(testBaseline(), now.Add(time.Hour))
	l.EndSession(id2, now.Add(time.Hour+time.Minute))

	infos, err := store.ListSessions(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}
	if infos[0].ID != id2 {
		t.Fatalf("newest session should list first, got %s", infos[0].ID)
	}
	if infos[1].EventCount != 1 {
		t.Fatalf("event count wrong: %+v", infos[1])
	}
}

func TestStoreLoadUnknownSessionFails(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.LoadSession("missing"); err == nil {
		t.Fatal("loading an unknown session must fail")
	}
}
