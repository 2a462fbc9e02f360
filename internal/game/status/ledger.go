package status

// Ledger tracks all status effects currently applied to one combatant.
// It is not safe for concurrent use; the battle session serialises access.
//
// Invariant: no held effect has Duration <= 0.
// Invariant: at most one effect of any unstackable type is held.
type Ledger struct {
	effects []*Effect
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add merges eff into the ledger.
// If an effect of the same type exists and is stackable below its cap, its
// stack count increments and its duration becomes the max of old and new.
// If the existing effect is unstackable (or already capped), only the
// duration refreshes. Otherwise eff is appended as-is.
//
// Precondition: eff must be non-nil with Duration >= 1.
// Postcondition: Has(eff.Type) is true; stack invariants hold.
func (l *Ledger) Add(eff *Effect) {
	for _, existing := range l.effects {
		if existing.Type != eff.Type {
			continue
		}
		if existing.Stackable && existing.CurrentStacks < existing.MaxStacks {
			existing.CurrentStacks++
		}
		if eff.Duration > existing.Duration {
			existing.Duration = eff.Duration
		}
		return
	}
	l.effects = append(l.effects, eff)
}

// Remove deletes the effect with the given ID. No-op when absent.
//
// Postcondition: no held effect has the given ID.
func (l *Ledger) Remove(id string) {
	out := l.effects[:0]
	for _, e := range l.effects {
		if e.ID != id {
			out = append(out, e)
		}
	}
	l.effects = out
}

// RemoveByType deletes every effect of the given type.
//
// Postcondition: Has(t) is false.
func (l *Ledger) RemoveByType(t Type) {
	out := l.effects[:0]
	for _, e := range l.effects {
		if e.Type != t {
			out = append(out, e)
		}
	}
	l.effects = out
}

// Tick decrements every effect's duration by 1 and drops those that reach 0.
// Returns the IDs of expired effects in ledger order.
//
// Postcondition: every remaining effect has Duration >= 1.
func (l *Ledger) Tick() []string {
	var expired []string
	out := l.effects[:0]
	for _, e := range l.effects {
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e.ID)
			continue
		}
		out = append(out, e)
	}
	l.effects = out
	return expired
}

// Has reports whether any effect of type t is held.
func (l *Ledger) Has(t Type) bool {
	for _, e := range l.effects {
		if e.Type == t {
			return true
		}
	}
	return false
}

// All returns the held effects in application order. The slice is a new
// allocation but the pointed-to effects are shared.
func (l *Ledger) All() []*Effect {
	out := make([]*Effect, len(l.effects))
	copy(out, l.effects)
	return out
}

// DotDamage sums the per-turn damage from all periodic damage effects
// (poison, burn), each scaled by its stack count.
//
// Postcondition: Returns >= 0.
func (l *Ledger) DotDamage() int {
	total := 0
	for _, e := range l.effects {
		if e.Type == Poison || e.Type == Burn {
			total += e.Value * e.CurrentStacks
		}
	}
	return total
}

// RegenHeal sums the per-turn healing from regen effects, scaled by stacks.
//
// Postcondition: Returns >= 0.
func (l *Ledger) RegenHeal() int {
	total := 0
	for _, e := range l.effects {
		if e.Type == Regen {
			total += e.Value * e.CurrentStacks
		}
	}
	return total
}

// StatModifier returns the signed net contribution of all held effects to
// the given stat: up-effects add value*stacks, down-effects subtract it.
func (l *Ledger) StatModifier(kind StatKind) int {
	mod, ok := statModifiers[kind]
	if !ok {
		return 0
	}
	total := 0
	for _, e := range l.effects {
		switch e.Type {
		case mod.up:
			total += e.Value * e.CurrentStacks
		case mod.down:
			total -= e.Value * e.CurrentStacks
		}
	}
	return total
}

// IsIncapacitated reports whether the holder cannot act this turn.
func (l *Ledger) IsIncapacitated() bool {
	return l.Has(Freeze)
}

// IsSilenced reports whether the holder cannot cast spells.
func (l *Ledger) IsSilenced() bool {
	return l.Has(Silence)
}

// ShieldAmount returns the remaining absorption across all shield effects.
//
// Postcondition: Returns >= 0.
func (l *Ledger) ShieldAmount() int {
	total := 0
	for _, e := range l.effects {
		if e.Type == Shield {
			total += e.Value
		}
	}
	return total
}

// AbsorbDamage routes dmg through held shields, consuming their value in
// ledger order, and returns the overflow that reaches the holder's HP.
// Shields whose value reaches 0 are removed.
//
// Precondition: dmg must be >= 0.
// Postcondition: Returns a value in [0, dmg]; remaining shields have Value > 0.
func (l *Ledger) AbsorbDamage(dmg int) int {
	if dmg <= 0 {
		return 0
	}
	remaining := dmg
	out := l.effects[:0]
	for _, e := range l.effects {
		if e.Type != Shield || remaining <= 0 {
			out = append(out, e)
			continue
		}
		if e.Value > remaining {
			e.Value -= remaining
			remaining = 0
			out = append(out, e)
			continue
		}
		remaining -= e.Value
		// shield exhausted; drop it
	}
	l.effects = out
	return remaining
}
