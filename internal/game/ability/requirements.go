package ability

import "fmt"

// UsabilityResult reports whether an ability may be used and, when it may
// not, a player-facing reason. Requirement failures are validation
// rejections, never errors.
type UsabilityResult struct {
	OK     bool
	Reason string
}

// usable is the success result.
var usable = UsabilityResult{OK: true}

// CheckRequirement verifies that the caster satisfies every skill
// prerequisite and, when the ability demands a weapon type, that the main
// hand holds a matching item.
//
// Precondition: a must have passed Validate(); progress may be nil (treated
// as all-level-0); mainHandType is the equipped main-hand item type tag, or
// empty when unarmed.
// Postcondition: Returns OK iff all requirements are satisfied.
func CheckRequirement(a *Ability, progress ProgressMap, mainHandType string) UsabilityResult {
	for skillID, minLevel := range a.Requirements.Skills {
		if progress.LevelOf(skillID) < minLevel {
			return UsabilityResult{
				Reason: fmt.Sprintf("requires %s level %d", skillID, minLevel),
			}
		}
	}
	if req := a.Requirements.Equipment; req != "" && req != mainHandType {
		return UsabilityResult{
			Reason: fmt.Sprintf("requires a %s equipped", req),
		}
	}
	return usable
}

// UsableInCombat reports whether the ability's usage context permits combat
// use. Passive abilities are never directly usable.
func UsableInCombat(a *Ability) bool {
	return a.Usage == UsageCombatOnly || a.Usage == UsageBoth
}

// UsableInField reports whether the ability may be used outside combat.
func UsableInField(a *Ability) bool {
	return a.Usage == UsageFieldOnly || a.Usage == UsageBoth
}
