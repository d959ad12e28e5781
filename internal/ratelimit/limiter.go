// Package ratelimit provides the posting rate limiter: sliding burst,
// hourly, and daily windows over an append-only timestamp history.
// Independent of confusion state.
package ratelimit

import (
	"fmt"
	"time"
)

// #region config

// Config holds the window limits.
type Config struct {
	BurstLimit  int           // max posts per burst window
	BurstWindow time.Duration // short window for burst detection
	HourlyLimit int
	DailyLimit  int
}

// DefaultConfig returns the production posting limits.
func DefaultConfig() Config {
	return Config{
		BurstLimit:  3,
		BurstWindow: 5 * time.Minute,
		HourlyLimit: 10,
		DailyLimit:  120,
	}
}

// #endregion config

// #region result

// Result reports whether posting is allowed and, when blocked, when the
// oldest blocking post exits its window.
type Result struct {
	CanPost    bool
	Reason     string
	RetryAt    time.Time // zero when CanPost
	BurstCount int
	HourCount  int
	DayCount   int
}

// #endregion result

// #region limiter

// Limiter keeps the post timestamp history, pruned to the last 24h.
// Owned by a single engine; the engine serializes access.
type Limiter struct {
	cfg     Config
	history []time.Time // ascending
}

// New creates a limiter with an empty history.
func New(cfg Config) *Limiter {
	return &Limiter{cfg: cfg}
}

// RecordPost appends a post timestamp and prunes expired history.
func (l *Limiter) RecordPost(now time.Time) {
	l.history = append(l.history, now)
	l.prune(now)
}

// HistorySize returns the number of retained timestamps.
func (l *Limiter) HistorySize() int { return len(l.history) }

// prune drops timestamps strictly older than 24h; a post exactly on the
// boundary is retained.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	idx := 0
	for idx < len(l.history) && l.history[idx].Before(cutoff) {
		idx++
	}
	if idx > 0 {
		l.history = append(l.history[:0], l.history[idx:]...)
	}
}

// #endregion limiter

// #region check

// Check evaluates all three windows. The burst window is checked first,
// then hourly, then daily; the first exceeded limit blocks.
func (l *Limiter) Check(now time.Time) Result {
	l.prune(now)

	burst := l.countSince(now.Add(-l.cfg.BurstWindow))
	hour := l.countSince(now.Add(-time.Hour))
	day := len(l.history)

	res := Result{
		CanPost:    true,
		Reason:     "within limits",
		BurstCount: burst,
		HourCount:  hour,
		DayCount:   day,
	}

	switch {
	case burst >= l.cfg.BurstLimit:
		res.CanPost = false
		res.Reason = fmt.Sprintf("burst limit reached (%d in %s)", burst, l.cfg.BurstWindow)
		res.RetryAt = l.oldestSince(now.Add(-l.cfg.BurstWindow)).Add(l.cfg.BurstWindow)
	case hour >= l.cfg.HourlyLimit:
		res.CanPost = false
		res.Reason = fmt.Sprintf("hourly limit reached (%d/%d)", hour, l.cfg.HourlyLimit)
		res.RetryAt = l.oldestSince(now.Add(-time.Hour)).Add(time.Hour)
	case day >= l.cfg.DailyLimit:
		res.CanPost = false
		res.Reason = fmt.Sprintf("daily limit reached (%d/%d)", day, l.cfg.DailyLimit)
		res.RetryAt = l.history[0].Add(24 * time.Hour)
	}
	return res
}

// countSince counts posts strictly after cutoff.
func (l *Limiter) countSince(cutoff time.Time) int {
	n := 0
	for i := len(l.history) - 1; i >= 0; i-- {
		if l.history[i].After(cutoff) {
			n++
		} else {
			break
		}
	}
	return n
}

// oldestSince returns the oldest post strictly after cutoff.
func (l *Limiter) oldestSince(cutoff time.Time) time.Time {
	for _, t := range l.history {
		if t.After(cutoff) {
			return t
		}
	}
	return time.Time{}
}

// #endregion check
