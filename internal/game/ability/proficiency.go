package ability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seojin-dev/eldoria/internal/game/damage"
)

// CurvePoint binds a proficiency level to its damage multiplier.
type CurvePoint struct {
	Level      int     `yaml:"level"`
	Multiplier float64 `yaml:"multiplier"`
}

// Curve is a level→multiplier balancing table.
// Lookup selects the greatest entry whose level is <= the query; queries
// below the first entry resolve to the first entry.
//
// Invariant: points are strictly ascending by level and multipliers are
// monotonic non-decreasing.
type Curve struct {
	Points []CurvePoint `yaml:"points"`
}

// Validate checks the curve's invariants: at least one point, strictly
// ascending levels, monotonic non-decreasing multipliers, and a first
// multiplier of approximately 1.0 (no bonus at the base level).
//
// Precondition: c must not be nil.
func (c *Curve) Validate() error {
	if len(c.Points) == 0 {
		return fmt.Errorf("proficiency curve: must have at least one point")
	}
	first := c.Points[0].Multiplier
	if first < 0.95 || first > 1.05 {
		return fmt.Errorf("proficiency curve: first multiplier must be ~1.0, got %f", first)
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].Level <= c.Points[i-1].Level {
			return fmt.Errorf("proficiency curve: levels must be strictly ascending (entry %d)", i)
		}
		if c.Points[i].Multiplier < c.Points[i-1].Multiplier {
			return fmt.Errorf("proficiency curve: multipliers must be non-decreasing (entry %d)", i)
		}
	}
	return nil
}

// At returns the multiplier for the given proficiency level.
// Implements damage.Multiplier.
//
// Precondition: c must have passed Validate().
// Postcondition: monotonic non-decreasing in level; bounded by the last point.
func (c *Curve) At(level int) float64 {
	mult := c.Points[0].Multiplier
	for _, p := range c.Points[1:] {
		if p.Level > level {
			break
		}
		mult = p.Multiplier
	}
	return mult
}

var _ damage.Multiplier = (*Curve)(nil)

// ElementTable maps attacker element → target element → multiplier.
// Unknown pairings resolve to 1.0.
type ElementTable struct {
	Matchups map[string]map[string]float64 `yaml:"matchups"`
}

// Against implements damage.Effectiveness.
//
// Postcondition: Returns 1.0 for any pairing absent from the table.
func (t *ElementTable) Against(attacker, target damage.Element) float64 {
	if t == nil || t.Matchups == nil {
		return 1.0
	}
	row, ok := t.Matchups[string(attacker)]
	if !ok {
		return 1.0
	}
	mult, ok := row[string(target)]
	if !ok {
		return 1.0
	}
	return mult
}

var _ damage.Effectiveness = (*ElementTable)(nil)

// Balance bundles the balancing tables loaded from the content balance
// directory.
type Balance struct {
	// Weapon is the weapon proficiency level→multiplier curve.
	Weapon *Curve `yaml:"weapon"`
	// Magic is the magic proficiency level→multiplier curve.
	Magic *Curve `yaml:"magic"`
	// Elements is the elemental effectiveness table.
	Elements *ElementTable `yaml:"elements"`
}

// Validate checks both curves.
func (b *Balance) Validate() error {
	if b.Weapon == nil || b.Magic == nil {
		return fmt.Errorf("balance: weapon and magic curves must both be present")
	}
	if err := b.Weapon.Validate(); err != nil {
		return fmt.Errorf("balance: weapon: %w", err)
	}
	if err := b.Magic.Validate(); err != nil {
		return fmt.Errorf("balance: magic: %w", err)
	}
	return nil
}

// CurveFor returns the proficiency curve matching the attack kind, or nil
// for untyped attacks.
func (b *Balance) CurveFor(kind damage.Kind) damage.Multiplier {
	switch {
	case kind.IsPhysical():
		return b.Weapon
	case kind == damage.KindMagic:
		return b.Magic
	default:
		return nil
	}
}

// Modifiers builds the damage.Modifiers bundle for the given attack kind.
// timeBoost may be nil (no contextual boost).
func (b *Balance) Modifiers(kind damage.Kind, timeBoost func(damage.Element) float64) damage.Modifiers {
	return damage.Modifiers{
		Proficiency: b.CurveFor(kind),
		Elements:    b.Elements,
		TimeBoost:   timeBoost,
	}
}

// LoadBalance reads balance.yaml from dir and returns the validated tables.
//
// Precondition: dir must contain a balance.yaml file.
// Postcondition: Returns a validated *Balance or a non-nil error.
func LoadBalance(dir string) (*Balance, error) {
	path := filepath.Join(dir, "balance.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var b Balance
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
