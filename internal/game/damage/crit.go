package damage

import (
	"math"

	"github.com/seojin-dev/eldoria/internal/game/roll"
)

// CriticalChance returns the percent chance for a critical strike.
// 5 + lck*0.3 + secondaryStat*0.05, capped at 60.
// The secondary stat is dex for physical attacks and int for magic.
//
// Precondition: lck and secondaryStat must be >= 0.
// Postcondition: Returns a value in [5, 60].
func CriticalChance(lck, secondaryStat int) float64 {
	chance := 5.0 + float64(lck)*0.3 + float64(secondaryStat)*0.05
	return math.Min(60.0, chance)
}

// CriticalMultiplier returns the damage multiplier applied on a critical.
// 1.5 + lck*0.01, capped at 2.5.
//
// Precondition: lck must be >= 0.
// Postcondition: Returns a value in [1.5, 2.5].
func CriticalMultiplier(lck int) float64 {
	return math.Min(2.5, 1.5+float64(lck)*0.01)
}

// CritResult reports the outcome of a critical roll applied to damage.
type CritResult struct {
	Damage     int
	IsCritical bool
	Multiplier float64
}

// ApplyCritical performs a single Bernoulli roll against CriticalChance and,
// on success, multiplies dmg by CriticalMultiplier, flooring the product.
//
// Precondition: src must be non-nil; dmg must be >= 0.
// Postcondition: result.Damage >= dmg when IsCritical; result.Damage == dmg otherwise.
func ApplyCritical(src roll.Source, dmg, lck, secondaryStat int) CritResult {
	if !roll.Chance(src, CriticalChance(lck, secondaryStat)) {
		return CritResult{Damage: dmg, Multiplier: 1.0}
	}
	mult := CriticalMultiplier(lck)
	return CritResult{
		Damage:     int(math.Floor(float64(dmg) * mult)),
		IsCritical: true,
		Multiplier: mult,
	}
}
