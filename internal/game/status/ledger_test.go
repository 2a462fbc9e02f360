package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/seojin-dev/eldoria/internal/game/status"
)

func TestAdd_StackableIncrements(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("psn", status.Poison, 3, 5, true, 3))
	l.Add(status.New("psn", status.Poison, 2, 5, true, 3))

	effects := l.All()
	require.Len(t, effects, 1)
	assert.Equal(t, 2, effects[0].CurrentStacks)
	// Duration stays at the max of old and new.
	assert.Equal(t, 3, effects[0].Duration)
}

func TestAdd_StackCapRefreshesDuration(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("psn", status.Poison, 2, 5, true, 2))
	l.Add(status.New("psn", status.Poison, 2, 5, true, 2))
	l.Add(status.New("psn", status.Poison, 6, 5, true, 2))

	effects := l.All()
	require.Len(t, effects, 1)
	assert.Equal(t, 2, effects[0].CurrentStacks)
	assert.Equal(t, 6, effects[0].Duration)
}

func TestAdd_UnstackableRefreshesOnly(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("frz", status.Freeze, 1, 0, false, 0))
	l.Add(status.New("frz", status.Freeze, 3, 0, false, 0))

	effects := l.All()
	require.Len(t, effects, 1)
	assert.Equal(t, 1, effects[0].CurrentStacks)
	assert.Equal(t, 3, effects[0].Duration)
}

func TestTick_RemovesExpired(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("a", status.Poison, 1, 5, false, 0))
	l.Add(status.New("b", status.AttackUp, 2, 10, false, 0))

	expired := l.Tick()
	assert.Equal(t, []string{"a"}, expired)
	assert.False(t, l.Has(status.Poison))
	assert.True(t, l.Has(status.AttackUp))

	expired = l.Tick()
	assert.Equal(t, []string{"b"}, expired)
	assert.Empty(t, l.All())
}

func TestTick_ExactDurationTicks(t *testing.T) {
	// An effect with duration D survives exactly D-1 ticks and expires on the Dth.
	const d = 5
	l := status.NewLedger()
	l.Add(status.New("x", status.Burn, d, 2, false, 0))
	for i := 0; i < d-1; i++ {
		require.Empty(t, l.Tick(), "tick %d", i)
	}
	assert.Equal(t, []string{"x"}, l.Tick())
}

func TestRemoveByType(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("a", status.Poison, 3, 5, false, 0))
	l.Add(status.New("b", status.Silence, 3, 0, false, 0))

	l.RemoveByType(status.Poison)
	assert.False(t, l.Has(status.Poison))
	assert.True(t, l.IsSilenced())

	l.Remove("b")
	assert.False(t, l.IsSilenced())
}

func TestDotAndRegenSums(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("psn", status.Poison, 3, 4, true, 3))
	l.Add(status.New("psn", status.Poison, 3, 4, true, 3)) // 2 stacks
	l.Add(status.New("brn", status.Burn, 3, 3, false, 0))
	l.Add(status.New("rgn", status.Regen, 3, 6, false, 0))

	assert.Equal(t, 4*2+3, l.DotDamage())
	assert.Equal(t, 6, l.RegenHeal())
}

func TestStatModifier_SignedSum(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("au", status.AttackUp, 3, 10, true, 2))
	l.Add(status.New("au", status.AttackUp, 3, 10, true, 2)) // 2 stacks
	l.Add(status.New("ad", status.AttackDown, 3, 7, false, 0))
	l.Add(status.New("du", status.DefenseUp, 3, 4, false, 0))

	assert.Equal(t, 20-7, l.StatModifier(status.StatAttack))
	assert.Equal(t, 4, l.StatModifier(status.StatDefense))
	assert.Equal(t, 0, l.StatModifier(status.StatSpeed))
}

func TestIncapacitation(t *testing.T) {
	l := status.NewLedger()
	assert.False(t, l.IsIncapacitated())
	l.Add(status.New("frz", status.Freeze, 2, 0, false, 0))
	assert.True(t, l.IsIncapacitated())
}

func TestShield_AbsorbAndOverflow(t *testing.T) {
	l := status.NewLedger()
	l.Add(status.New("sh", status.Shield, 3, 10, false, 0))
	assert.Equal(t, 10, l.ShieldAmount())

	// Partial absorb: shield survives with reduced value.
	overflow := l.AbsorbDamage(4)
	assert.Equal(t, 0, overflow)
	assert.Equal(t, 6, l.ShieldAmount())

	// Overflow passes through and the exhausted shield is removed.
	overflow = l.AbsorbDamage(10)
	assert.Equal(t, 4, overflow)
	assert.Equal(t, 0, l.ShieldAmount())
	assert.False(t, l.Has(status.Shield))
}

func TestShield_NoShieldPassesThrough(t *testing.T) {
	l := status.NewLedger()
	assert.Equal(t, 9, l.AbsorbDamage(9))
}

// TestPropertyStackingInvariant: after any sequence of Adds, stacks stay in
// [1, maxStacks] and unstackable types never hold more than one entry.
func TestPropertyStackingInvariant(t *testing.T) {
	types := []status.Type{status.Poison, status.Burn, status.Freeze, status.AttackUp}
	rapid.Check(t, func(rt *rapid.T) {
		l := status.NewLedger()
		n := rapid.IntRange(1, 40).Draw(rt, "n")
		for i := 0; i < n; i++ {
			typ := types[rapid.IntRange(0, len(types)-1).Draw(rt, "type")]
			stackable := rapid.Bool().Draw(rt, "stackable")
			maxStacks := rapid.IntRange(1, 5).Draw(rt, "maxStacks")
			dur := rapid.IntRange(1, 9).Draw(rt, "dur")
			l.Add(status.New("e", typ, dur, 1, stackable, maxStacks))
		}

		seen := make(map[status.Type]int)
		for _, e := range l.All() {
			seen[e.Type]++
			if e.CurrentStacks < 1 || e.CurrentStacks > e.MaxStacks {
				rt.Errorf("effect %s stacks %d out of [1,%d]", e.Type, e.CurrentStacks, e.MaxStacks)
			}
		}
		for typ, count := range seen {
			if count > 1 {
				rt.Errorf("type %s held %d times; merge must collapse same-type entries", typ, count)
			}
		}
	})
}

// TestPropertyTickTermination: D ticks always empty a ledger whose longest
// effect has duration D.
func TestPropertyTickTermination(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := status.NewLedger()
		maxDur := 0
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			dur := rapid.IntRange(1, 12).Draw(rt, "dur")
			if dur > maxDur {
				maxDur = dur
			}
			l.Add(status.New("e", status.Poison, dur, 1, true, 99))
		}
		for i := 0; i < maxDur; i++ {
			l.Tick()
		}
		if len(l.All()) != 0 {
			rt.Errorf("ledger not empty after %d ticks", maxDur)
		}
	})
}
