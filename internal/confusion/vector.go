package confusion

import (
	"math"
	"time"
)

// #region clamp

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampMagnitude restricts a magnitude to [0, max].
func ClampMagnitude(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// #endregion clamp

// #region sanitize

// SafeMagnitude is the fallback value when the magnitude corrupts.
const SafeMagnitude = 0.5

// Sanitize corrects NaN, infinite, or negative magnitude to SafeMagnitude
// and zeroes corrupted derivatives. Returns true if anything was corrected.
func (v *Vector) Sanitize() bool {
	corrected := false
	if math.IsNaN(v.Magnitude) || math.IsInf(v.Magnitude, 0) || v.Magnitude < 0 {
		v.Magnitude = SafeMagnitude
		corrected = true
	}
	if math.IsNaN(v.Velocity) || math.IsInf(v.Velocity, 0) {
		v.Velocity = 0
		corrected = true
	}
	if math.IsNaN(v.Acceleration) || math.IsInf(v.Acceleration, 0) {
		v.Acceleration = 0
		corrected = true
	}
	if math.IsNaN(v.Oscillation) || math.IsInf(v.Oscillation, 0) || v.Oscillation < 0 {
		v.Oscillation = 0
		corrected = true
	}
	if v.Oscillation > 1 {
		v.Oscillation = 1
		corrected = true
	}
	return corrected
}

// #endregion sanitize

// #region apply-impact

// ApplyImpact moves the magnitude by impact (clamped into [0, max]) and
// rederives velocity and acceleration from the wall-clock delta.
func (v *Vector) ApplyImpact(impact, max float64, now time.Time) {
	oldMagnitude := v.Magnitude
	oldVelocity := v.Velocity

	v.Magnitude = ClampMagnitude(v.Magnitude+impact, max)

	dt := now.Sub(v.LastUpdated).Seconds()
	if dt <= 0 {
		dt = 1e-3 // same-instant updates still produce finite derivatives
	}
	v.Velocity = (v.Magnitude - oldMagnitude) / dt
	v.Acceleration = (v.Velocity - oldVelocity) / dt
	v.LastUpdated = now
}

// #endregion apply-impact

// #region decay

// Decay applies natural exponential decay to the magnitude over dt and
// rederives the derivatives. rate is the per-second decay constant.
func (v *Vector) Decay(rate float64, dt time.Duration, now time.Time) {
	if dt <= 0 {
		return
	}
	seconds := dt.Seconds()
	oldMagnitude := v.Magnitude
	oldVelocity := v.Velocity

	v.Magnitude *= math.Exp(-rate * seconds)

	v.Velocity = (v.Magnitude - oldMagnitude) / seconds
	v.Acceleration = (v.Velocity - oldVelocity) / seconds
	v.LastUpdated = now
}

// #endregion decay

// #region direction

// AddDirection appends a topic tag if not already present. Direction is
// append-only: tags are never removed, even by emergency reset.
func (v *Vector) AddDirection(tag string) bool {
	for _, d := range v.Direction {
		if d == tag {
			return false
		}
	}
	v.Direction = append(v.Direction, tag)
	return true
}

// #endregion direction

// #region oscillation

// RaiseOscillation increases oscillation by delta, capped at 1.0.
func (v *Vector) RaiseOscillation(delta float64) {
	v.Oscillation = Clamp01(v.Oscillation + delta)
}

// #endregion oscillation
