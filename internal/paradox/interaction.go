package paradox

import (
	"math"
	"strings"
)

// #region similarity

// similarityFloor is the token-set similarity above which two statements
// count as shared between paradoxes.
const similarityFloor = 0.5

// tokenSet lowercases and splits a statement into its word set.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(f, ".,;:!?\"'")] = struct{}{}
	}
	return set
}

// Similarity computes Jaccard similarity between the token sets of two
// statements. Returns 0 when either is empty.
func Similarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	shared := 0
	for t := range as {
		if _, ok := bs[t]; ok {
			shared++
		}
	}
	union := len(as) + len(bs) - shared
	return float64(shared) / float64(union)
}

// #endregion similarity

// #region shared

// sharedFraction counts statements in a that are similar (above the
// floor) to some statement in b, normalized by the smaller list so a
// full overlap scores 1.0.
func sharedFraction(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for _, sa := range a {
		for _, sb := range b {
			if Similarity(sa, sb) > similarityFloor {
				shared++
				break
			}
		}
	}
	denom := len(a)
	if len(b) < denom {
		denom = len(b)
	}
	frac := float64(shared) / float64(denom)
	if frac > 1 {
		frac = 1
	}
	return frac
}

// #endregion shared

// #region interaction-score

// InteractionScore measures how strongly two paradoxes interact:
// shared observations weighted 0.3, shared contradictions 0.5, and the
// product of intensities 0.2.
func InteractionScore(p, q *Paradox) float64 {
	obs := sharedFraction(p.Observations, q.Observations)
	contra := sharedFraction(p.Contradictions, q.Contradictions)
	return 0.3*obs + 0.5*contra + 0.2*math.Abs(p.Intensity*q.Intensity)
}

// #endregion interaction-score
