// Package equipment implements the twelve-slot equipment model and its
// constraint engine: slot compatibility, two-handed and dual-wield
// exclusivity, and aggregate stat totals.
package equipment

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the broad item class that determines slot compatibility.
type Category string

const (
	CategoryWeapon    Category = "weapon"
	CategoryShield    Category = "shield"
	CategoryHelmet    Category = "helmet"
	CategoryArmor     Category = "armor"
	CategoryCloth     Category = "cloth"
	CategoryPants     Category = "pants"
	CategoryAccessory Category = "accessory"
)

var knownCategories = map[Category]bool{
	CategoryWeapon: true, CategoryShield: true, CategoryHelmet: true,
	CategoryArmor: true, CategoryCloth: true, CategoryPants: true,
	CategoryAccessory: true,
}

// HandType classifies a weapon's grip, controlling off-hand availability.
type HandType string

const (
	// OneHanded weapons leave the off-hand free.
	OneHanded HandType = "one_handed"
	// TwoHanded weapons occupy both hands.
	TwoHanded HandType = "two_handed"
)

// AccessoryType names the accessory slot family an accessory fits.
type AccessoryType string

const (
	AccessoryRing     AccessoryType = "ring"
	AccessoryNecklace AccessoryType = "necklace"
	AccessoryEarring  AccessoryType = "earring"
	AccessoryBracelet AccessoryType = "bracelet"
)

// Item is the static definition of an equippable item loaded from YAML.
type Item struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	// Type is the specific tag consumed by ability equipment requirements,
	// e.g. "sword", "staff", "bow".
	Type string `yaml:"type"`
	// HandType applies to weapons only.
	HandType HandType `yaml:"hand_type"`
	// AccessoryType applies to accessories only.
	AccessoryType AccessoryType `yaml:"accessory_type"`
	// Melee marks close-range weapons; parry applies only melee vs melee.
	Melee bool `yaml:"melee"`
	// Stats are the item's named numeric bonuses (attack, defense, str, ...).
	Stats map[string]int `yaml:"stats"`
	// AttackSpeed scales attack pacing; presentation-level, carried through.
	AttackSpeed float64 `yaml:"attack_speed"`
	// ElementDamage tags elemental weapon damage.
	ElementDamage string `yaml:"element_damage"`
}

// Validate checks the item definition's invariants.
//
// Precondition: it must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Category is
// known, weapons carry a valid hand type, and accessories carry a valid
// accessory type.
func (it *Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item: id must not be empty")
	}
	if it.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", it.ID)
	}
	if !knownCategories[it.Category] {
		return fmt.Errorf("item %q: unknown category %q", it.ID, it.Category)
	}
	if it.Category == CategoryWeapon {
		if it.HandType != OneHanded && it.HandType != TwoHanded {
			return fmt.Errorf("item %q: weapon hand_type must be one_handed or two_handed, got %q", it.ID, it.HandType)
		}
	}
	if it.Category == CategoryAccessory {
		switch it.AccessoryType {
		case AccessoryRing, AccessoryNecklace, AccessoryEarring, AccessoryBracelet:
		default:
			return fmt.Errorf("item %q: unknown accessory_type %q", it.ID, it.AccessoryType)
		}
	}
	return nil
}

// Registry holds all known item definitions keyed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// Register adds it to the registry, overwriting any existing entry.
func (r *Registry) Register(it *Item) {
	r.items[it.ID] = it
}

// Get returns the Item for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// LoadDirectory reads every *.yaml file in dir and returns a populated
// Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry or an error on the first parse
// or validation failure.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var it Item
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&it); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&it)
	}
	return reg, nil
}
