package equipment

// Slot identifies one of the twelve equipment positions.
type Slot string

const (
	SlotMainHand Slot = "mainHand"
	SlotOffHand  Slot = "offHand"
	SlotHelmet   Slot = "helmet"
	SlotArmor    Slot = "armor"
	SlotCloth    Slot = "cloth"
	SlotPants    Slot = "pants"
	SlotRing1    Slot = "ring1"
	SlotRing2    Slot = "ring2"
	SlotNecklace Slot = "necklace"
	SlotEarring1 Slot = "earring1"
	SlotEarring2 Slot = "earring2"
	SlotBracelet Slot = "bracelet"
)

// AllSlots lists every equipment slot in display order.
var AllSlots = []Slot{
	SlotMainHand, SlotOffHand,
	SlotHelmet, SlotArmor, SlotCloth, SlotPants,
	SlotRing1, SlotRing2, SlotNecklace, SlotEarring1, SlotEarring2, SlotBracelet,
}

// accessorySlotFamily maps accessory slots to the accessory type they accept.
var accessorySlotFamily = map[Slot]AccessoryType{
	SlotRing1:    AccessoryRing,
	SlotRing2:    AccessoryRing,
	SlotNecklace: AccessoryNecklace,
	SlotEarring1: AccessoryEarring,
	SlotEarring2: AccessoryEarring,
	SlotBracelet: AccessoryBracelet,
}

// slotAccepts reports whether the item's category fits the slot at all,
// ignoring hand-exclusivity rules (those live in the Loadout).
func slotAccepts(slot Slot, it *Item) bool {
	switch slot {
	case SlotMainHand:
		return it.Category == CategoryWeapon
	case SlotOffHand:
		return it.Category == CategoryWeapon || it.Category == CategoryShield
	case SlotHelmet:
		return it.Category == CategoryHelmet
	case SlotArmor:
		return it.Category == CategoryArmor
	case SlotCloth:
		return it.Category == CategoryCloth
	case SlotPants:
		return it.Category == CategoryPants
	default:
		family, ok := accessorySlotFamily[slot]
		return ok && it.Category == CategoryAccessory && it.AccessoryType == family
	}
}
