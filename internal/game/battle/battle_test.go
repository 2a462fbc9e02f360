package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/battle"
	"github.com/seojin-dev/eldoria/internal/game/equipment"
	"github.com/seojin-dev/eldoria/internal/game/monster"
	"github.com/seojin-dev/eldoria/internal/game/stats"
	"github.com/seojin-dev/eldoria/internal/game/status"
)

// fixedSrc always returns the same value from Intn.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func intp(v int) *int { return &v }

func testAbilities() *ability.Registry {
	reg := ability.NewRegistry()
	reg.Register(&ability.Ability{
		ID: "slash", Name: "Slash",
		Source: ability.SourceCombatSkill, Type: ability.TypeAttack,
		AttackType: "melee_physical", Usage: ability.UsageCombatOnly,
		MaxLevel: 5, Target: ability.TargetEnemy,
		LevelBonuses: []ability.LevelBonus{
			{Level: 1, Effects: ability.Effects{BaseDamage: intp(10), APCost: intp(4)}},
		},
		GrantsExpTo: []string{"sword_mastery"},
	})
	reg.Register(&ability.Ability{
		ID: "fireball", Name: "Fireball",
		Source: ability.SourceSpell, Type: ability.TypeAttack,
		AttackType: "magic", Element: "fire", Usage: ability.UsageCombatOnly,
		MaxLevel: 5, Target: ability.TargetEnemy,
		LevelBonuses: []ability.LevelBonus{
			{Level: 1, Effects: ability.Effects{BaseDamage: intp(12), APCost: intp(5), MPCost: intp(10)}},
		},
	})
	reg.Register(&ability.Ability{
		ID: "poison_sting", Name: "Poison Sting",
		Source: ability.SourceCombatSkill, Type: ability.TypeDot,
		Usage: ability.UsageCombatOnly, MaxLevel: 3,
		Target: ability.TargetEnemy, StatusID: "poison",
		LevelBonuses: []ability.LevelBonus{
			{Level: 1, Effects: ability.Effects{APCost: intp(4)}},
		},
	})
	reg.Register(&ability.Ability{
		ID: "first_aid", Name: "First Aid",
		Source: ability.SourceCombatSkill, Type: ability.TypeHeal,
		Usage: ability.UsageBoth, MaxLevel: 3, Target: ability.TargetSelf,
		LevelBonuses: []ability.LevelBonus{
			{Level: 1, Effects: ability.Effects{HealAmount: intp(15), APCost: intp(4)}},
		},
	})
	reg.Register(&ability.Ability{
		ID: "healing_light", Name: "Healing Light",
		Source: ability.SourceSpell, Type: ability.TypeHeal,
		Usage: ability.UsageBoth, MaxLevel: 3, Target: ability.TargetSelf,
		LevelBonuses: []ability.LevelBonus{
			{Level: 1, Effects: ability.Effects{HealAmount: intp(12), APCost: intp(4), MPCost: intp(6)}},
		},
	})
	return reg
}

func testStatuses() *status.Registry {
	reg := status.NewRegistry()
	reg.Register(&status.Definition{
		ID: "poison", Name: "Poison", Type: "poison",
		Duration: 2, Value: 4, Stackable: true, MaxStacks: 3,
	})
	return reg
}

func newPlayer() *battle.Player {
	return &battle.Player{
		Name:     "Hero",
		Stats:    stats.CharacterStats{Str: 20, Dex: 10, Int: 15, Lck: 0},
		Loadout:  equipment.NewLoadout(),
		Progress: ability.ProgressMap{},
		MaxHP:    50, MaxMP: 20, MaxAP: 10,
	}
}

func orc() *monster.Monster {
	return &monster.Monster{
		ID: "orc", Name: "Orc",
		Stats:    monster.Stats{HP: 60, Attack: 6, Defense: 2, Speed: 4},
		Behavior: monster.BehaviorPassive,
		Rewards:  monster.Rewards{Exp: 20, Gold: 10},
	}
}

func newSession(src fixedSrc, m *monster.Monster) (*battle.Session, *battle.Player) {
	p := newPlayer()
	s := battle.NewSession(battle.Config{
		Source:    src,
		Logger:    zap.NewNop(),
		Abilities: testAbilities(),
		Statuses:  testStatuses(),
	}, p, m)
	return s, p
}

func TestVictoryViaBasicAttack(t *testing.T) {
	m := orc()
	m.Stats.HP = 8
	// High rolls: no dodge, no crit.
	s, _ := newSession(fixedSrc{9999}, m)

	require.False(t, s.MonsterGoesFirst())
	require.True(t, s.QueueBasicAttack().OK)
	s.ExecuteQueue()

	// Unarmed: raw = 0 + str*0.5 = 10, minus defense 2 = 8, exactly lethal.
	assert.Equal(t, battle.Victory, s.Result())
	assert.Equal(t, 0, s.MonsterHP())
	require.NotNil(t, s.Reward())
	assert.Equal(t, 20, s.Reward().Exp)
	assert.Equal(t, 10, s.Reward().Gold)
}

func TestPreemptiveStrike(t *testing.T) {
	m := orc()
	m.Stats.Attack = 10
	m.Stats.Speed = 20 // faster than the player's dex 10
	s, p := newSession(fixedSrc{9999}, m)

	require.True(t, s.MonsterGoesFirst())
	s.Begin()

	// Unmitigated floor(10 * 0.8) = 8.
	assert.Equal(t, p.MaxHP-8, s.PlayerHP())
	assert.Equal(t, battle.Ongoing, s.Result())

	// Begin is idempotent.
	s.Begin()
	assert.Equal(t, p.MaxHP-8, s.PlayerHP())
}

func TestQueueValidation(t *testing.T) {
	s, _ := newSession(fixedSrc{9999}, orc())

	res := s.QueueAbility("nonexistent")
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonUnknownAbility, res.Reason)

	// Fireball costs 10 MP; two would exceed the 20 MP pool only at three.
	require.True(t, s.QueueAbility("fireball").OK)
	require.True(t, s.QueueAbility("fireball").OK)
	res = s.QueueAbility("fireball")
	require.False(t, res.OK)
	// The third fireball fails on AP (5+5+5 > 10) before MP.
	assert.Equal(t, battle.ReasonInsufficientAP, res.Reason)

	s.ClearQueue()
	require.True(t, s.QueueAbility("fireball").OK)
	require.True(t, s.QueueAbility("slash").OK)
	// 5+4 AP queued; one more slash would exceed 10 AP.
	res = s.QueueAbility("slash")
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonInsufficientAP, res.Reason)
}

func TestQueueMPValidation(t *testing.T) {
	p := newPlayer()
	p.MaxMP = 10
	s := battle.NewSession(battle.Config{
		Source:    fixedSrc{9999},
		Logger:    zap.NewNop(),
		Abilities: testAbilities(),
		Statuses:  testStatuses(),
	}, p, orc())

	require.True(t, s.QueueAbility("fireball").OK)
	res := s.QueueAbility("fireball")
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonInsufficientMP, res.Reason)
}

func TestSilenceBlocksSpells(t *testing.T) {
	s, _ := newSession(fixedSrc{9999}, orc())
	s.PlayerEffects().Add(status.New("silence", status.Silence, 2, 0, false, 1))

	res := s.QueueAbility("fireball")
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonSilenced, res.Reason)

	// Non-offensive spells are blocked too.
	res = s.QueueAbility("healing_light")
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonSilenced, res.Reason)

	// Physical and other non-spell skills still work while silenced.
	assert.True(t, s.QueueAbility("slash").OK)
	assert.True(t, s.QueueAbility("first_aid").OK)
}

func TestCounterAttackVersusPassive(t *testing.T) {
	// Passive monster: no retaliation, only its own 3-attack turn.
	s, p := newSession(fixedSrc{9999}, orc())
	require.True(t, s.QueueBasicAttack().OK)
	s.ExecuteQueue()
	// Three basic attacks at Monster(6, 0) = 6 each.
	assert.Equal(t, p.MaxHP-18, s.PlayerHP())

	// Aggressive monster: one retaliation plus the 3-attack turn.
	m := orc()
	m.Behavior = monster.BehaviorAggressive
	s, p = newSession(fixedSrc{9999}, m)
	require.True(t, s.QueueBasicAttack().OK)
	s.ExecuteQueue()
	assert.Equal(t, p.MaxHP-24, s.PlayerHP())
}

func TestNoCounterWhenMonsterDies(t *testing.T) {
	m := orc()
	m.Behavior = monster.BehaviorAggressive
	m.Stats.HP = 8
	s, p := newSession(fixedSrc{9999}, m)

	require.True(t, s.QueueBasicAttack().OK)
	s.ExecuteQueue()

	assert.Equal(t, battle.Victory, s.Result())
	assert.Equal(t, p.MaxHP, s.PlayerHP())
}

func TestDotAppliedAndTicked(t *testing.T) {
	s, _ := newSession(fixedSrc{9999}, orc())

	require.True(t, s.QueueAbility("poison_sting").OK)
	report := s.ExecuteQueue()

	require.Len(t, report.Actions, 1)
	assert.Equal(t, "poison", report.Actions[0].StatusApplied)
	// Poison value 4 applied at the round boundary, duration 2 -> 1.
	assert.Equal(t, 60-4, s.MonsterHP())
	assert.True(t, s.MonsterEffects().Has(status.Poison))

	// Second empty round: 4 more damage, then the effect expires.
	s.ExecuteQueue()
	assert.Equal(t, 60-8, s.MonsterHP())
	assert.False(t, s.MonsterEffects().Has(status.Poison))
}

func TestHealClampedToMax(t *testing.T) {
	m := orc()
	m.Stats.Attack = 10
	m.Stats.Speed = 20
	s, p := newSession(fixedSrc{9999}, m)
	s.Begin() // take the 8-damage opening strike

	require.True(t, s.QueueAbility("first_aid").OK)
	report := s.ExecuteQueue()

	require.Len(t, report.Actions, 1)
	// Only 8 of the 15 heal lands before hitting max HP, then the monster
	// turn deals 3 x Monster(10, 0) = 30.
	assert.Equal(t, 8, report.Actions[0].Healed)
	assert.Equal(t, p.MaxHP-30, s.PlayerHP())
}

func TestFrozenPlayerForfeitsRound(t *testing.T) {
	s, p := newSession(fixedSrc{9999}, orc())
	s.PlayerEffects().Add(status.New("freeze", status.Freeze, 1, 0, false, 1))

	require.True(t, s.QueueBasicAttack().OK)
	report := s.ExecuteQueue()

	assert.Empty(t, report.Actions)
	assert.Equal(t, 60, s.MonsterHP())
	assert.Equal(t, p.MaxHP-18, s.PlayerHP())
	// Freeze ticked away at the boundary.
	assert.False(t, s.PlayerEffects().IsIncapacitated())
}

func TestDefeatEndsSession(t *testing.T) {
	m := orc()
	m.Stats.Attack = 30
	p := newPlayer()
	p.MaxHP = 10
	s := battle.NewSession(battle.Config{
		Source:    fixedSrc{9999},
		Logger:    zap.NewNop(),
		Abilities: testAbilities(),
		Statuses:  testStatuses(),
	}, p, m)

	s.ExecuteQueue()

	assert.Equal(t, battle.Defeat, s.Result())
	assert.Equal(t, 0, s.PlayerHP())

	res := s.QueueBasicAttack()
	require.False(t, res.OK)
	assert.Equal(t, battle.ReasonBattleOver, res.Reason)
}

func TestFlee(t *testing.T) {
	// Low roll: 0 < 50, flee succeeds immediately with no monster action.
	s, p := newSession(fixedSrc{0}, orc())
	require.True(t, s.Flee())
	assert.Equal(t, battle.Fled, s.Result())
	assert.Equal(t, p.MaxHP, s.PlayerHP())

	// Terminal session refuses further actions.
	assert.False(t, s.Flee())
	assert.False(t, s.QueueBasicAttack().OK)

	// High roll: flee fails and the monster gets its full turn.
	s, p = newSession(fixedSrc{9999}, orc())
	require.False(t, s.Flee())
	assert.Equal(t, battle.Ongoing, s.Result())
	assert.Equal(t, p.MaxHP-18, s.PlayerHP())
	assert.Equal(t, 2, s.Turn())
}

func TestExperienceGrantsFanOut(t *testing.T) {
	s, _ := newSession(fixedSrc{9999}, orc())

	require.True(t, s.QueueAbility("slash").OK)
	s.ExecuteQueue()

	grants := s.PendingGrants()
	require.Len(t, grants, 2)
	assert.Equal(t, "slash", grants[0].AbilityID)
	assert.Equal(t, "sword_mastery", grants[1].AbilityID)
	assert.Equal(t, 1, grants[0].Exp)
}

func TestShieldAbsorbsMonsterDamage(t *testing.T) {
	s, p := newSession(fixedSrc{9999}, orc())
	s.PlayerEffects().Add(status.New("barrier", status.Shield, 3, 20, false, 1))

	s.ExecuteQueue()

	// 18 incoming damage fully absorbed by the 20-point shield, leaving 2.
	assert.Equal(t, p.MaxHP, s.PlayerHP())
	assert.Equal(t, 2, s.PlayerEffects().ShieldAmount())
}

func TestBattleLogAccumulates(t *testing.T) {
	m := orc()
	m.Stats.HP = 8
	s, _ := newSession(fixedSrc{9999}, m)

	require.True(t, s.QueueBasicAttack().OK)
	s.ExecuteQueue()

	log := s.Log()
	require.NotEmpty(t, log)
	assert.Equal(t, battle.ActorSystem, log[0].Actor)
	last := log[len(log)-1]
	assert.Contains(t, last.Message, "defeated")
}
