// Package damage implements the Eldoria damage model: physical and magic
// damage formulas, hit-tier resolution, and critical strikes. Every function
// is pure except for the explicit rolls, which draw from an injected
// roll.Source.
package damage

import "math"

// Element tags a magic school or a monster's elemental alignment.
// The empty string means unaligned.
type Element string

// Kind classifies an attack for formula dispatch.
type Kind int

const (
	// KindUntyped is a plain attack with no proficiency backing.
	KindUntyped Kind = iota
	// KindMeleePhysical is a melee weapon attack.
	KindMeleePhysical
	// KindRangedPhysical is a ranged weapon attack.
	KindRangedPhysical
	// KindMagic is a spell attack.
	KindMagic
)

// String returns the attack kind's wire tag.
func (k Kind) String() string {
	switch k {
	case KindMeleePhysical:
		return "melee_physical"
	case KindRangedPhysical:
		return "ranged_physical"
	case KindMagic:
		return "magic"
	default:
		return "untyped"
	}
}

// IsPhysical reports whether the kind uses the physical damage formula.
func (k Kind) IsPhysical() bool {
	return k == KindMeleePhysical || k == KindRangedPhysical
}

// Multiplier resolves a proficiency level into a damage multiplier.
// Implementations must be monotonic non-decreasing in level, return
// approximately 1.0 at level 0, and be bounded above.
type Multiplier interface {
	At(level int) float64
}

// flatMultiplier always returns 1.0. Used when no proficiency applies.
type flatMultiplier struct{}

func (flatMultiplier) At(int) float64 { return 1.0 }

// NoProficiency is the identity Multiplier: every level maps to 1.0.
var NoProficiency Multiplier = flatMultiplier{}

// Effectiveness resolves elemental matchups into a damage multiplier.
// A nil Effectiveness or an unknown pairing means 1.0.
type Effectiveness interface {
	Against(attacker, target Element) float64
}

// Modifiers bundles the contextual multipliers consumed by the magic
// formula. Zero-value fields fall back to identity.
type Modifiers struct {
	// Proficiency maps the caster's proficiency level to a multiplier.
	Proficiency Multiplier
	// Elements resolves attacker-vs-target elemental effectiveness.
	Elements Effectiveness
	// TimeBoost is the contextual day/time boost for an element,
	// e.g. fire during daylight hours. Nil means no boost.
	TimeBoost func(element Element) float64
}

func (m Modifiers) proficiencyAt(level int) float64 {
	if m.Proficiency == nil {
		return 1.0
	}
	return m.Proficiency.At(level)
}

func (m Modifiers) effectiveness(attacker, target Element) float64 {
	if m.Elements == nil || target == "" {
		return 1.0
	}
	return m.Elements.Against(attacker, target)
}

func (m Modifiers) timeBoost(element Element) float64 {
	if m.TimeBoost == nil {
		return 1.0
	}
	return m.TimeBoost(element)
}

// Physical computes physical weapon damage.
// raw = baseDamage + attackerStr*0.5, scaled by the proficiency multiplier,
// reduced by the target's full defense.
//
// Precondition: prof must be nil or satisfy the Multiplier contract.
// Postcondition: Returns >= 1.
func Physical(baseDamage, attackerStr, proficiencyLevel int, prof Multiplier, targetDefense int) int {
	if prof == nil {
		prof = NoProficiency
	}
	raw := float64(baseDamage) + float64(attackerStr)*0.5
	dmg := int(math.Floor(raw*prof.At(proficiencyLevel))) - targetDefense
	if dmg < 1 {
		return 1
	}
	return dmg
}

// Magic computes spell damage.
// raw = baseDamage + attackerInt*0.8, scaled by proficiency, elemental
// effectiveness (identity when targetElement is empty), and the day/time
// boost. Magic defense counts 30% of the target's defense.
//
// Postcondition: Returns >= 1.
func Magic(baseDamage, attackerInt, proficiencyLevel int, element, targetElement Element, mods Modifiers, targetDefense int) int {
	raw := float64(baseDamage) + float64(attackerInt)*0.8
	raw *= mods.proficiencyAt(proficiencyLevel)
	raw *= mods.effectiveness(element, targetElement)
	raw *= mods.timeBoost(element)
	magicDefense := float64(targetDefense) * 0.3
	dmg := int(math.Floor(raw - magicDefense))
	if dmg < 1 {
		return 1
	}
	return dmg
}

// Input carries everything needed to resolve one player-side damage
// computation through Compute.
type Input struct {
	Kind             Kind
	BaseDamage       int
	AttackerStr      int
	AttackerInt      int
	ProficiencyLevel int
	Element          Element
	TargetElement    Element
	TargetDefense    int
	Mods             Modifiers
}

// Compute dispatches to the physical or magic formula based on in.Kind.
// Untyped attacks fall back to baseDamage - targetDefense, floored at 1.
//
// Postcondition: Returns >= 1.
func Compute(in Input) int {
	switch {
	case in.Kind.IsPhysical():
		return Physical(in.BaseDamage, in.AttackerStr, in.ProficiencyLevel, in.Mods.Proficiency, in.TargetDefense)
	case in.Kind == KindMagic:
		return Magic(in.BaseDamage, in.AttackerInt, in.ProficiencyLevel, in.Element, in.TargetElement, in.Mods, in.TargetDefense)
	default:
		dmg := in.BaseDamage - in.TargetDefense
		if dmg < 1 {
			return 1
		}
		return dmg
	}
}

// Monster computes a monster's attack damage against the player.
// Unlike the player-side formulas this may floor to exactly 0, which the
// orchestrator treats as a glancing blow.
//
// Postcondition: Returns >= 0.
func Monster(monsterAttack, playerDefense int) int {
	dmg := int(math.Floor(float64(monsterAttack) - float64(playerDefense)*0.5))
	if dmg < 0 {
		return 0
	}
	return dmg
}
