// Package roll provides the core randomness abstraction for the Eldoria
// combat engine. Every chance-based decision (hit tiers, criticals, flee
// attempts, monster ability selection) draws from a Source so tests can
// substitute deterministic implementations.
package roll

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Percent draws a uniform value in [0, 100) from src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [0, 100).
func Percent(src Source) float64 {
	// Two decimal places of resolution keeps fractional chances
	// (e.g. lck*0.3) meaningful without a float source.
	return float64(src.Intn(10000)) / 100.0
}

// Chance reports whether a roll succeeds against a percent chance.
//
// Precondition: src must be non-nil.
// Postcondition: Always false for pct <= 0; always true for pct >= 100.
func Chance(src Source, pct float64) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	return Percent(src) < pct
}

// Between returns a uniform value in [min, max] inclusive.
//
// Precondition: src must be non-nil; min <= max.
// Postcondition: min <= result <= max.
func Between(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return min + src.Intn(max-min+1)
}
