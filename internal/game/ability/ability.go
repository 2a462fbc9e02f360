// Package ability defines the unified spell/combat-skill representation:
// level-scaled effects, action and mana costs, usage gating, proficiency
// curves, and experience fan-out.
package ability

import (
	"fmt"
	"sort"

	"github.com/seojin-dev/eldoria/internal/game/damage"
)

// Source identifies where an ability originates.
type Source string

const (
	// SourceSpell is a learned spell.
	SourceSpell Source = "spell"
	// SourceCombatSkill is a weapon combat skill.
	SourceCombatSkill Source = "combatskill"
	// SourceMonster is a monster-only ability.
	SourceMonster Source = "monster"
)

// Type classifies what an ability does when executed.
type Type string

const (
	TypeAttack  Type = "attack"
	TypeHeal    Type = "heal"
	TypeBuff    Type = "buff"
	TypeDebuff  Type = "debuff"
	TypeDefense Type = "defense"
	TypePassive Type = "passive"
	TypeDot     Type = "dot"
)

// knownTypes is the closed set accepted by Validate. The battle dispatcher
// covers exactly these; anything else is rejected at load time.
var knownTypes = map[Type]bool{
	TypeAttack: true, TypeHeal: true, TypeBuff: true, TypeDebuff: true,
	TypeDefense: true, TypePassive: true, TypeDot: true,
}

// UsageContext restricts where an ability may be used.
type UsageContext string

const (
	UsageCombatOnly UsageContext = "combat_only"
	UsageFieldOnly  UsageContext = "field_only"
	UsageBoth       UsageContext = "both"
	UsagePassive    UsageContext = "passive"
)

var knownUsage = map[UsageContext]bool{
	UsageCombatOnly: true, UsageFieldOnly: true, UsageBoth: true, UsagePassive: true,
}

// Target identifies who an ability affects.
type Target string

const (
	TargetSelf  Target = "self"
	TargetEnemy Target = "enemy"
)

// Default costs applied when neither the level effects nor the base cost
// specify a value.
const (
	DefaultAPCost = 5
	DefaultMPCost = 0
)

// Effects is the sparse per-level effect block. Nil fields mean "unchanged
// from the previous level entry".
type Effects struct {
	BaseDamage  *int `yaml:"base_damage"`
	APCost      *int `yaml:"ap_cost"`
	MPCost      *int `yaml:"mp_cost"`
	HealAmount  *int `yaml:"heal_amount"`
	EffectValue *int `yaml:"effect_value"`
	Duration    *int `yaml:"duration"`
}

// merge overlays o's set fields onto e.
func (e *Effects) merge(o Effects) {
	if o.BaseDamage != nil {
		e.BaseDamage = o.BaseDamage
	}
	if o.APCost != nil {
		e.APCost = o.APCost
	}
	if o.MPCost != nil {
		e.MPCost = o.MPCost
	}
	if o.HealAmount != nil {
		e.HealAmount = o.HealAmount
	}
	if o.EffectValue != nil {
		e.EffectValue = o.EffectValue
	}
	if o.Duration != nil {
		e.Duration = o.Duration
	}
}

// LevelBonus binds an effect block to the minimum level that unlocks it.
type LevelBonus struct {
	Level   int     `yaml:"level"`
	Effects Effects `yaml:"effects"`
}

// BaseCost is the fallback cost when a level entry does not override it.
type BaseCost struct {
	AP *int `yaml:"ap"`
	MP *int `yaml:"mp"`
}

// Requirements gate ability usability.
type Requirements struct {
	// Skills maps prerequisite ability IDs to minimum levels.
	Skills map[string]int `yaml:"skills"`
	// Equipment, when non-empty, requires the caster's main hand to hold
	// an item of this type tag.
	Equipment string `yaml:"equipment"`
}

// Ability is the unified representation of a spell or combat skill.
//
// Invariant: LevelBonuses is sorted ascending by Level.
type Ability struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Source       Source       `yaml:"source"`
	Type         Type         `yaml:"type"`
	AttackType   string       `yaml:"attack_type"` // melee_physical | ranged_physical | magic | empty
	Element      string       `yaml:"element"`
	Usage        UsageContext `yaml:"usage"`
	MaxLevel     int          `yaml:"max_level"`
	ExpPerLevel  int          `yaml:"exp_per_level"`
	LevelBonuses []LevelBonus `yaml:"level_bonuses"`
	BaseCost     BaseCost     `yaml:"base_cost"`
	Cooldown     int          `yaml:"cooldown"`
	Requirements Requirements `yaml:"requirements"`
	// GrantsExpTo lists ability IDs that also receive experience whenever
	// this ability is used (e.g. a sword skill feeding sword mastery).
	GrantsExpTo []string `yaml:"grants_exp_to"`
	Target      Target   `yaml:"target"`
	// StatusID names the status definition applied by buff/debuff/dot
	// abilities.
	StatusID string `yaml:"status_id"`
}

// AttackKind maps the attack type tag to a damage.Kind.
//
// Postcondition: Returns KindUntyped for an empty or unknown tag.
func (a *Ability) AttackKind() damage.Kind {
	switch a.AttackType {
	case "melee_physical":
		return damage.KindMeleePhysical
	case "ranged_physical":
		return damage.KindRangedPhysical
	case "magic":
		return damage.KindMagic
	default:
		return damage.KindUntyped
	}
}

// Validate checks that the ability satisfies its invariants.
//
// Precondition: a must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Type and Usage
// are known tags, MaxLevel >= 1, and LevelBonuses is non-empty and sorted
// strictly ascending by level.
func (a *Ability) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", a.ID)
	}
	if !knownTypes[a.Type] {
		return fmt.Errorf("ability %q: unknown type %q", a.ID, a.Type)
	}
	if !knownUsage[a.Usage] {
		return fmt.Errorf("ability %q: unknown usage %q", a.ID, a.Usage)
	}
	if a.MaxLevel < 1 {
		return fmt.Errorf("ability %q: max_level must be >= 1, got %d", a.ID, a.MaxLevel)
	}
	if len(a.LevelBonuses) == 0 {
		return fmt.Errorf("ability %q: level_bonuses must not be empty", a.ID)
	}
	for i := 1; i < len(a.LevelBonuses); i++ {
		if a.LevelBonuses[i].Level <= a.LevelBonuses[i-1].Level {
			return fmt.Errorf("ability %q: level_bonuses must be strictly ascending (entry %d)", a.ID, i)
		}
	}
	if (a.Type == TypeBuff || a.Type == TypeDebuff || a.Type == TypeDot) && a.StatusID == "" {
		return fmt.Errorf("ability %q: %s abilities must reference a status_id", a.ID, a.Type)
	}
	return nil
}

// EffectsAtLevel resolves the effective effect block at the given level.
// Entries are overlaid in order up to the greatest entry whose level is
// <= level; fields an entry leaves unset inherit the last set value.
// Levels below the first entry resolve to the first entry, so effects
// never regress to empty. An ability with no level entries at all (rejected
// by Validate, but registrable by hand) resolves to the zero block so the
// cost fallbacks still engage.
func (a *Ability) EffectsAtLevel(level int) Effects {
	if len(a.LevelBonuses) == 0 {
		return Effects{}
	}
	merged := a.LevelBonuses[0].Effects
	for _, lb := range a.LevelBonuses[1:] {
		if lb.Level > level {
			break
		}
		merged.merge(lb.Effects)
	}
	return merged
}

// APCostAt returns the action point cost at the given level, falling back
// to the base cost, then to DefaultAPCost.
//
// Postcondition: Returns >= 0.
func (a *Ability) APCostAt(level int) int {
	if eff := a.EffectsAtLevel(level); eff.APCost != nil {
		return *eff.APCost
	}
	if a.BaseCost.AP != nil {
		return *a.BaseCost.AP
	}
	return DefaultAPCost
}

// MPCostAt returns the mana cost at the given level, falling back to the
// base cost, then to DefaultMPCost.
//
// Postcondition: Returns >= 0.
func (a *Ability) MPCostAt(level int) int {
	if eff := a.EffectsAtLevel(level); eff.MPCost != nil {
		return *eff.MPCost
	}
	if a.BaseCost.MP != nil {
		return *a.BaseCost.MP
	}
	return DefaultMPCost
}

// sortLevelBonuses orders the bonuses ascending by level. Loaders call this
// before Validate so hand-ordered YAML is normalised.
func (a *Ability) sortLevelBonuses() {
	sort.SliceStable(a.LevelBonuses, func(i, j int) bool {
		return a.LevelBonuses[i].Level < a.LevelBonuses[j].Level
	})
}
