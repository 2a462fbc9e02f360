package damage

import "github.com/seojin-dev/eldoria/internal/game/roll"

// HitOutcome is the tiered result of an attack's to-hit resolution.
type HitOutcome int

const (
	// Hit lands full damage.
	Hit HitOutcome = iota
	// Dodge avoids the attack entirely.
	Dodge
	// Block stops the attack with a shield.
	Block
	// Parry turns the attack aside with a melee weapon.
	Parry
)

// String returns a human-readable outcome label.
func (o HitOutcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Dodge:
		return "dodge"
	case Block:
		return "block"
	case Parry:
		return "parry"
	default:
		return "unknown"
	}
}

// Avoided reports whether the outcome negates the attack's damage.
func (o HitOutcome) Avoided() bool { return o != Hit }

// HitContext carries the inputs for to-hit resolution.
type HitContext struct {
	// AttackerDex and DefenderDex feed the dodge chance.
	AttackerDex int
	DefenderDex int
	// DefenderHasShield enables the block tier.
	DefenderHasShield bool
	// MeleeVsMelee enables the parry tier (both sides wielding melee weapons).
	MeleeVsMelee bool
}

// Baseline avoidance tuning. These are starting values; live balancing
// happens in the content balance tables, which scale on top of these.
const (
	baseDodgeChance = 5.0
	maxDodgeChance  = 30.0
	blockChance     = 10.0
	parryChance     = 5.0
)

// DodgeChance returns the percent chance for the defender to dodge,
// 5 + (defenderDex - attackerDex)*0.5, clamped to [1, 30].
//
// Postcondition: Returns a value in [1, 30].
func DodgeChance(attackerDex, defenderDex int) float64 {
	chance := baseDodgeChance + float64(defenderDex-attackerDex)*0.5
	if chance < 1 {
		return 1
	}
	if chance > maxDodgeChance {
		return maxDodgeChance
	}
	return chance
}

// ResolveHit rolls the avoidance tiers in order: dodge, block, parry.
// The first tier that succeeds determines the outcome; otherwise Hit.
//
// Precondition: src must be non-nil.
// Postcondition: Block requires hc.DefenderHasShield; Parry requires hc.MeleeVsMelee.
func ResolveHit(src roll.Source, hc HitContext) HitOutcome {
	if roll.Chance(src, DodgeChance(hc.AttackerDex, hc.DefenderDex)) {
		return Dodge
	}
	if hc.DefenderHasShield && roll.Chance(src, blockChance) {
		return Block
	}
	if hc.MeleeVsMelee && roll.Chance(src, parryChance) {
		return Parry
	}
	return Hit
}
