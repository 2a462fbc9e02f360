// Package status implements the buff/debuff ledger: creation, stacking,
// per-turn ticking, periodic damage and healing, stat modifiers, and shield
// absorption.
package status

// Type is the closed set of status effect kinds.
type Type int

const (
	// Poison deals periodic damage each turn boundary.
	Poison Type = iota
	// Burn deals periodic fire damage each turn boundary.
	Burn
	// Regen heals periodically each turn boundary.
	Regen
	// Shield absorbs incoming damage until its value is exhausted.
	Shield
	// Freeze incapacitates the holder.
	Freeze
	// Silence blocks spell casting.
	Silence
	// AttackUp / AttackDown modify the attack stat.
	AttackUp
	AttackDown
	// DefenseUp / DefenseDown modify the defense stat.
	DefenseUp
	DefenseDown
	// SpeedUp / SpeedDown modify the speed stat.
	SpeedUp
	SpeedDown
	// MagicUp / MagicDown modify the magic stat.
	MagicUp
	MagicDown
)

// String returns the effect type's wire tag.
func (t Type) String() string {
	switch t {
	case Poison:
		return "poison"
	case Burn:
		return "burn"
	case Regen:
		return "regen"
	case Shield:
		return "shield"
	case Freeze:
		return "freeze"
	case Silence:
		return "silence"
	case AttackUp:
		return "attack_up"
	case AttackDown:
		return "attack_down"
	case DefenseUp:
		return "defense_up"
	case DefenseDown:
		return "defense_down"
	case SpeedUp:
		return "speed_up"
	case SpeedDown:
		return "speed_down"
	case MagicUp:
		return "magic_up"
	case MagicDown:
		return "magic_down"
	default:
		return "unknown"
	}
}

// Category distinguishes beneficial from harmful effects.
type Category int

const (
	// Buff is a beneficial effect.
	Buff Category = iota
	// Debuff is a harmful effect.
	Debuff
)

// String returns "buff" or "debuff".
func (c Category) String() string {
	if c == Buff {
		return "buff"
	}
	return "debuff"
}

// CategoryOf returns the fixed category for a given effect type.
func CategoryOf(t Type) Category {
	switch t {
	case Regen, Shield, AttackUp, DefenseUp, SpeedUp, MagicUp:
		return Buff
	default:
		return Debuff
	}
}

// StatKind names a combat stat a status effect can modify.
type StatKind int

const (
	// StatAttack is physical attack power.
	StatAttack StatKind = iota
	// StatDefense is damage reduction.
	StatDefense
	// StatSpeed is turn-order speed.
	StatSpeed
	// StatMagic is magic power.
	StatMagic
)

// statModifiers maps each stat kind to the effect types that raise and
// lower it.
var statModifiers = map[StatKind]struct{ up, down Type }{
	StatAttack:  {AttackUp, AttackDown},
	StatDefense: {DefenseUp, DefenseDown},
	StatSpeed:   {SpeedUp, SpeedDown},
	StatMagic:   {MagicUp, MagicDown},
}

// Effect is one applied status effect on a combatant.
//
// Invariant: Duration > 0 while the effect is held by a Ledger.
// Invariant: CurrentStacks is in [1, MaxStacks].
type Effect struct {
	ID            string
	Type          Type
	Category      Category
	Duration      int // turns remaining
	Value         int
	Stackable     bool
	CurrentStacks int
	MaxStacks     int
	Source        string // ability ID that applied the effect, if any
}

// New creates a single-stack Effect of the given type.
// Category is derived from the type; unstackable effects get MaxStacks 1.
//
// Precondition: duration must be >= 1.
// Postcondition: CurrentStacks == 1; MaxStacks >= 1.
func New(id string, t Type, duration, value int, stackable bool, maxStacks int) *Effect {
	if maxStacks < 1 {
		maxStacks = 1
	}
	if !stackable {
		maxStacks = 1
	}
	return &Effect{
		ID:            id,
		Type:          t,
		Category:      CategoryOf(t),
		Duration:      duration,
		Value:         value,
		Stackable:     stackable,
		CurrentStacks: 1,
		MaxStacks:     maxStacks,
	}
}
