package damage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/seojin-dev/eldoria/internal/game/damage"
)

// fixedSrc is a deterministic Source returning the same value for every Intn
// call, with no bounds clamping.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// scriptSrc returns pre-scripted values in order, then repeats the last one.
type scriptSrc struct {
	vals []int
	i    int
}

func (s *scriptSrc) Intn(_ int) int {
	if s.i >= len(s.vals) {
		return s.vals[len(s.vals)-1]
	}
	v := s.vals[s.i]
	s.i++
	return v
}

func TestPhysical_BasicAttack(t *testing.T) {
	// raw = 10 + 20*0.5 = 20; 20*1.0 - 5 = 15
	got := damage.Physical(10, 20, 0, damage.NoProficiency, 5)
	assert.Equal(t, 15, got)
}

func TestPhysical_FloorClamp(t *testing.T) {
	// raw = 1; 1 - 100 = -99 → floored to 1
	got := damage.Physical(1, 0, 0, damage.NoProficiency, 100)
	assert.Equal(t, 1, got)
}

// tableMultiplier doubles damage at level >= 10 for dispatch tests.
type tableMultiplier struct{}

func (tableMultiplier) At(level int) float64 {
	if level >= 10 {
		return 2.0
	}
	return 1.0
}

func TestPhysical_ProficiencyMultiplier(t *testing.T) {
	// raw = 10 + 10 = 20; 20*2.0 - 5 = 35
	got := damage.Physical(10, 20, 10, tableMultiplier{}, 5)
	assert.Equal(t, 35, got)
}

func TestMagic_IdentityModifiers(t *testing.T) {
	// raw = 10 + 10*0.8 = 18; magic defense = 10*0.3 = 3 → 15
	got := damage.Magic(10, 10, 0, "fire", "", damage.Modifiers{}, 10)
	assert.Equal(t, 15, got)
}

type doubleVsIce struct{}

func (doubleVsIce) Against(attacker, target damage.Element) float64 {
	if attacker == "fire" && target == "ice" {
		return 2.0
	}
	return 1.0
}

func TestMagic_ElementalEffectiveness(t *testing.T) {
	mods := damage.Modifiers{Elements: doubleVsIce{}}
	// raw = 18 * 2.0 = 36; 36 - 3 = 33
	got := damage.Magic(10, 10, 0, "fire", "ice", mods, 10)
	assert.Equal(t, 33, got)

	// No target element: effectiveness is identity even with a table present.
	got = damage.Magic(10, 10, 0, "fire", "", mods, 10)
	assert.Equal(t, 15, got)
}

func TestMagic_TimeBoost(t *testing.T) {
	mods := damage.Modifiers{TimeBoost: func(e damage.Element) float64 {
		if e == "fire" {
			return 1.5
		}
		return 1.0
	}}
	// raw = 18 * 1.5 = 27; 27 - 3 = 24
	got := damage.Magic(10, 10, 0, "fire", "", mods, 10)
	assert.Equal(t, 24, got)
}

func TestCompute_Dispatch(t *testing.T) {
	in := damage.Input{
		Kind:          damage.KindMeleePhysical,
		BaseDamage:    10,
		AttackerStr:   20,
		TargetDefense: 5,
	}
	assert.Equal(t, 15, damage.Compute(in))

	in.Kind = damage.KindMagic
	in.AttackerInt = 10
	in.TargetDefense = 10
	assert.Equal(t, 15, damage.Compute(in))

	in.Kind = damage.KindUntyped
	in.BaseDamage = 7
	in.TargetDefense = 3
	assert.Equal(t, 4, damage.Compute(in))

	// Untyped attacks floor at 1 as well.
	in.TargetDefense = 50
	assert.Equal(t, 1, damage.Compute(in))
}

func TestMonster_FloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, damage.Monster(5, 20))
	assert.Equal(t, 7, damage.Monster(10, 6))
	assert.Equal(t, 10, damage.Monster(10, 0))
}

func TestCriticalChance_Bounds(t *testing.T) {
	assert.InDelta(t, 5.0, damage.CriticalChance(0, 0), 1e-9)
	assert.InDelta(t, 8.0, damage.CriticalChance(10, 0), 1e-9)
	assert.InDelta(t, 60.0, damage.CriticalChance(1000, 1000), 1e-9)
}

func TestCriticalMultiplier_Bounds(t *testing.T) {
	assert.InDelta(t, 1.5, damage.CriticalMultiplier(0), 1e-9)
	assert.InDelta(t, 1.6, damage.CriticalMultiplier(10), 1e-9)
	assert.InDelta(t, 2.5, damage.CriticalMultiplier(1000), 1e-9)
}

func TestApplyCritical_Forced(t *testing.T) {
	// Roll of 0 is always below the minimum 5% chance.
	res := damage.ApplyCritical(fixedSrc{val: 0}, 100, 10, 0)
	require.True(t, res.IsCritical)
	assert.InDelta(t, 1.6, res.Multiplier, 1e-9)
	assert.Equal(t, 160, res.Damage)
}

func TestApplyCritical_ForcedMiss(t *testing.T) {
	// Roll of 9999 → 99.99%, above the 60% cap.
	res := damage.ApplyCritical(fixedSrc{val: 9999}, 100, 1000, 1000)
	require.False(t, res.IsCritical)
	assert.Equal(t, 100, res.Damage)
	assert.InDelta(t, 1.0, res.Multiplier, 1e-9)
}

func TestResolveHit_Tiers(t *testing.T) {
	hc := damage.HitContext{AttackerDex: 10, DefenderDex: 10, DefenderHasShield: true, MeleeVsMelee: true}

	// Dodge roll succeeds immediately.
	assert.Equal(t, damage.Dodge, damage.ResolveHit(fixedSrc{val: 0}, hc))

	// Dodge fails (99.99), block succeeds (0).
	src := &scriptSrc{vals: []int{9999, 0}}
	assert.Equal(t, damage.Block, damage.ResolveHit(src, hc))

	// Dodge and block fail, parry succeeds.
	src = &scriptSrc{vals: []int{9999, 9999, 0}}
	assert.Equal(t, damage.Parry, damage.ResolveHit(src, hc))

	// Everything fails.
	assert.Equal(t, damage.Hit, damage.ResolveHit(fixedSrc{val: 9999}, hc))

	// Without shield or melee matchup, only dodge can avoid.
	hc.DefenderHasShield = false
	hc.MeleeVsMelee = false
	src = &scriptSrc{vals: []int{9999, 0, 0}}
	assert.Equal(t, damage.Hit, damage.ResolveHit(src, hc))
}

func TestDodgeChance_Clamped(t *testing.T) {
	assert.InDelta(t, 1.0, damage.DodgeChance(100, 0), 1e-9)
	assert.InDelta(t, 30.0, damage.DodgeChance(0, 100), 1e-9)
	assert.InDelta(t, 5.0, damage.DodgeChance(10, 10), 1e-9)
}

// TestPropertyDamageFloors: player-side formulas never return below 1,
// monster damage never below 0, crit chance and multiplier stay bounded.
func TestPropertyDamageFloors(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(0, 500).Draw(rt, "base")
		str := rapid.IntRange(0, 99).Draw(rt, "str")
		intl := rapid.IntRange(0, 99).Draw(rt, "int")
		def := rapid.IntRange(0, 1000).Draw(rt, "def")
		lck := rapid.IntRange(0, 99).Draw(rt, "lck")
		sec := rapid.IntRange(0, 99).Draw(rt, "sec")

		if p := damage.Physical(base, str, 0, nil, def); p < 1 {
			rt.Errorf("Physical returned %d < 1", p)
		}
		if m := damage.Magic(base, intl, 0, "fire", "ice", damage.Modifiers{}, def); m < 1 {
			rt.Errorf("Magic returned %d < 1", m)
		}
		if md := damage.Monster(base, def); md < 0 {
			rt.Errorf("Monster returned %d < 0", md)
		}
		if c := damage.CriticalChance(lck, sec); c < 5 || c > 60 {
			rt.Errorf("CriticalChance out of bounds: %f", c)
		}
		if m := damage.CriticalMultiplier(lck); m < 1.5 || m > 2.5 {
			rt.Errorf("CriticalMultiplier out of bounds: %f", m)
		}
	})
}
