package ability

// Progress is a character's advancement in one ability.
// Level-up thresholds are computed by the persistence layer; the combat core
// only reads Level and emits experience deltas.
type Progress struct {
	Level int
	Exp   int
}

// ProgressMap holds a character's progress across all known abilities,
// keyed by ability ID. A missing entry means level 0 with no experience.
type ProgressMap map[string]Progress

// LevelOf returns the character's level in the given ability, or 0 when the
// ability has never been used.
func (m ProgressMap) LevelOf(abilityID string) int {
	return m[abilityID].Level
}

// Grant is one experience delta destined for the persistence layer.
type Grant struct {
	AbilityID string
	Exp       int
}

// ExperienceGrants returns the experience deltas produced by one use of a:
// the full base amount to the ability itself, plus the same amount fanned
// out to every GrantsExpTo target (e.g. the weapon mastery skill).
//
// Precondition: baseExp must be >= 0.
// Postcondition: Returns at least one grant; the first is always a itself.
func ExperienceGrants(a *Ability, baseExp int) []Grant {
	grants := make([]Grant, 0, 1+len(a.GrantsExpTo))
	grants = append(grants, Grant{AbilityID: a.ID, Exp: baseExp})
	for _, target := range a.GrantsExpTo {
		grants = append(grants, Grant{AbilityID: target, Exp: baseExp})
	}
	return grants
}
