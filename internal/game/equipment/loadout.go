package equipment

import "github.com/seojin-dev/eldoria/internal/game/stats"

// Rejection reasons surfaced to the player as inline messages.
const (
	ReasonWrongSlot        = "item cannot be equipped in that slot"
	ReasonOffHandOccupied  = "unequip your off-hand first"
	ReasonOffHandDisabled  = "off-hand is blocked by a two-handed weapon"
	ReasonDualWieldNoMain  = "dual wielding requires a one-handed weapon in the main hand"
	ReasonTwoHandedOffHand = "a two-handed weapon must go in the main hand"
)

// CheckResult is the structured outcome of an equip legality check.
// Failed checks carry a player-facing reason; they are never errors.
type CheckResult struct {
	CanEquip bool
	Reason   string
}

func rejected(reason string) CheckResult { return CheckResult{Reason: reason} }

// EquipResult reports a completed Equip call: the check outcome plus any
// items displaced as a side effect (e.g. the off-hand cleared by a
// two-handed weapon).
type EquipResult struct {
	CheckResult
	Displaced []*Item
}

// Loadout holds a character's equipped items across all twelve slots.
// It is not safe for concurrent use; the owning session serialises access.
//
// Invariant: when the main hand holds a two-handed weapon, the off-hand
// slot is empty.
// Invariant: when the off-hand holds a weapon, the main hand holds a
// one-handed weapon.
type Loadout struct {
	slots map[Slot]*Item
}

// NewLoadout returns an empty Loadout.
//
// Postcondition: every slot is empty.
func NewLoadout() *Loadout {
	return &Loadout{slots: make(map[Slot]*Item)}
}

// Equipped returns the item in the given slot, or nil when empty.
func (l *Loadout) Equipped(slot Slot) *Item {
	return l.slots[slot]
}

// IsOffHandDisabled reports whether the off-hand slot is blocked by a
// two-handed main-hand weapon.
func (l *Loadout) IsOffHandDisabled() bool {
	main := l.slots[SlotMainHand]
	return main != nil && main.HandType == TwoHanded
}

// MainHandType returns the main-hand item's type tag, or empty when unarmed.
// Ability equipment requirements match against this value.
func (l *Loadout) MainHandType() string {
	if main := l.slots[SlotMainHand]; main != nil {
		return main.Type
	}
	return ""
}

// HasShield reports whether a shield is equipped in the off-hand.
func (l *Loadout) HasShield() bool {
	off := l.slots[SlotOffHand]
	return off != nil && off.Category == CategoryShield
}

// HasMeleeWeapon reports whether the main hand holds a melee weapon.
func (l *Loadout) HasMeleeWeapon() bool {
	main := l.slots[SlotMainHand]
	return main != nil && main.Melee
}

// CanEquip checks whether it may legally occupy slot given the current
// loadout. It never mutates state.
//
// Precondition: it must be non-nil and have passed Validate().
// Postcondition: CanEquip is false iff a slot or hand rule is violated.
func (l *Loadout) CanEquip(slot Slot, it *Item) CheckResult {
	if !slotAccepts(slot, it) {
		return rejected(ReasonWrongSlot)
	}
	switch slot {
	case SlotMainHand:
		if it.HandType == TwoHanded && l.slots[SlotOffHand] != nil {
			return rejected(ReasonOffHandOccupied)
		}
	case SlotOffHand:
		if it.HandType == TwoHanded {
			return rejected(ReasonTwoHandedOffHand)
		}
		if l.IsOffHandDisabled() {
			return rejected(ReasonOffHandDisabled)
		}
		if it.Category == CategoryWeapon {
			main := l.slots[SlotMainHand]
			if main == nil || main.HandType != OneHanded {
				return rejected(ReasonDualWieldNoMain)
			}
		}
	}
	return CheckResult{CanEquip: true}
}

// Equip places it into slot, enforcing the constraint rules. Unlike
// CanEquip, placing a two-handed weapon in the main hand succeeds and
// auto-clears the off-hand, reporting the displaced items. The previous
// occupant of the target slot is also reported as displaced.
//
// Precondition: it must be non-nil and have passed Validate().
// Postcondition: on success the hand invariants hold; on rejection the
// loadout is unchanged.
func (l *Loadout) Equip(slot Slot, it *Item) EquipResult {
	if !slotAccepts(slot, it) {
		return EquipResult{CheckResult: rejected(ReasonWrongSlot)}
	}

	var displaced []*Item
	if slot == SlotMainHand && it.HandType == TwoHanded {
		if off := l.slots[SlotOffHand]; off != nil {
			displaced = append(displaced, off)
			delete(l.slots, SlotOffHand)
		}
	} else {
		check := l.CanEquip(slot, it)
		if !check.CanEquip {
			return EquipResult{CheckResult: check}
		}
	}

	if prev := l.slots[slot]; prev != nil {
		displaced = append(displaced, prev)
	}
	l.slots[slot] = it
	return EquipResult{
		CheckResult: CheckResult{CanEquip: true},
		Displaced:   displaced,
	}
}

// Unequip removes and returns the item in slot, or nil when empty.
// Unequipping a one-handed main-hand weapon while dual wielding also clears
// the off-hand weapon to preserve the dual-wield invariant.
//
// Postcondition: Equipped(slot) == nil; hand invariants hold.
func (l *Loadout) Unequip(slot Slot) []*Item {
	it := l.slots[slot]
	if it == nil {
		return nil
	}
	delete(l.slots, slot)
	removed := []*Item{it}

	if slot == SlotMainHand {
		if off := l.slots[SlotOffHand]; off != nil && off.Category == CategoryWeapon {
			delete(l.slots, SlotOffHand)
			removed = append(removed, off)
		}
	}
	return removed
}

// TotalStats sums every equipped item's stat contributions into one
// aggregate. A key appears once any item defines it; per-item missing
// values count as 0.
//
// Postcondition: the aggregate contains exactly the union of equipped
// items' stat keys.
func (l *Loadout) TotalStats() stats.Aggregate {
	total := make(stats.Aggregate)
	for _, slot := range AllSlots {
		if it := l.slots[slot]; it != nil {
			total.Add(it.Stats)
		}
	}
	return total
}
