package battle

import (
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/damage"
	"github.com/seojin-dev/eldoria/internal/game/monster"
	"github.com/seojin-dev/eldoria/internal/game/roll"
	"github.com/seojin-dev/eldoria/internal/game/status"
)

// ActionResult reports one executed player action.
type ActionResult struct {
	AbilityID  string
	Outcome    damage.HitOutcome
	Damage     int
	Healed     int
	IsCritical bool
	// StatusApplied is the ID of the status effect the action applied, if any.
	StatusApplied string
}

// DeferredReaction is the monster's reactive counter-attack earned by a
// damaging player action. The timing delay around it is purely
// presentational; callers may resolve it immediately without changing the
// battle outcome.
type DeferredReaction struct {
	resolved bool
}

// TurnReport summarises one full player round: per-action results plus
// whatever the monster did in response.
type TurnReport struct {
	Actions []ActionResult
}

// ExecuteQueue runs the pending player queue strictly in insertion order,
// resolving each counter-attack reaction immediately after the action that
// earned it. After the queue, the monster takes its AI-selected turn, the
// status boundary resolves (DoT/HoT then duration tick) for both sides, and
// the turn counter advances.
//
// A call while the session is terminal, or while the player is frozen, is a
// no-op apart from log entries; a frozen player still forfeits the round.
//
// Postcondition: the queue is empty; Turn() advanced unless terminal.
func (s *Session) ExecuteQueue() TurnReport {
	var report TurnReport
	if s.result != Ongoing {
		return report
	}
	s.Begin()

	if s.playerEffects.IsIncapacitated() {
		s.logf(ActorSystem, "%s is frozen and cannot act!", s.player.Name)
		s.queue = s.queue[:0]
	}

	for _, qa := range s.queue {
		if s.result != Ongoing {
			break
		}
		res, reaction := s.playAction(qa)
		report.Actions = append(report.Actions, res)
		if reaction != nil {
			s.ResolveReaction(reaction)
		}
	}
	s.queue = s.queue[:0]

	if s.result == Ongoing {
		s.monsterTurn()
	}
	if s.result == Ongoing {
		s.resolveStatusBoundary()
	}
	if s.result == Ongoing {
		s.turn++
	}
	return report
}

// playAction executes one queued action, spending MP and granting
// experience. A damaging action that leaves the monster alive earns a
// DeferredReaction when the monster's behavior counters.
func (s *Session) playAction(qa QueuedAction) (ActionResult, *DeferredReaction) {
	if qa.BasicAttack {
		return s.playBasicAttack()
	}

	a, ok := s.cfg.Abilities.Get(qa.AbilityID)
	if !ok {
		// Validated at queue time; content may have been swapped since.
		s.logger.Warn("queued ability vanished, skipping", zap.String("ability", qa.AbilityID))
		s.logf(ActorSystem, "Nothing happens.")
		return ActionResult{AbilityID: qa.AbilityID}, nil
	}

	s.playerMP -= qa.MPCost
	s.grants = append(s.grants, ability.ExperienceGrants(a, s.cfg.ExpPerUse)...)
	eff := a.EffectsAtLevel(qa.Level)

	switch a.Type {
	case ability.TypeAttack:
		return s.playAttack(a, qa.Level, eff)
	case ability.TypeHeal:
		return s.playHeal(a, eff), nil
	case ability.TypeBuff, ability.TypeDefense:
		return s.applyStatusFrom(a, s.playerEffects), nil
	case ability.TypeDebuff, ability.TypeDot:
		res := s.applyStatusFrom(a, s.monsterEffects)
		return res, s.reactionIfCounters()
	default:
		// passive or an unknown tag reaching the dispatcher: log and treat
		// as no-effect so the turn still advances.
		s.logger.Warn("unhandled ability type in dispatcher",
			zap.String("ability", a.ID), zap.String("type", string(a.Type)))
		s.logf(ActorSystem, "%s has no effect.", a.Name)
		return ActionResult{AbilityID: a.ID}, nil
	}
}

// playBasicAttack resolves the player's plain weapon strike. Base damage
// comes from equipment attack totals.
func (s *Session) playBasicAttack() (ActionResult, *DeferredReaction) {
	base := s.player.Loadout.TotalStats().Get("attack")
	in := damage.Input{
		Kind:          damage.KindMeleePhysical,
		BaseDamage:    base,
		AttackerStr:   s.player.Stats.Str,
		TargetDefense: s.monsterDefense(),
		Mods:          s.mods(damage.KindMeleePhysical),
	}
	return s.resolvePlayerStrike("", s.player.Name+"'s attack", in, damage.KindMeleePhysical)
}

// playAttack resolves an attack ability through the damage model.
func (s *Session) playAttack(a *ability.Ability, level int, eff ability.Effects) (ActionResult, *DeferredReaction) {
	base := 0
	if eff.BaseDamage != nil {
		base = *eff.BaseDamage
	}
	kind := a.AttackKind()
	in := damage.Input{
		Kind:             kind,
		BaseDamage:       base,
		AttackerStr:      s.player.Stats.Str,
		AttackerInt:      s.player.Stats.Int,
		ProficiencyLevel: level,
		Element:          damage.Element(a.Element),
		TargetElement:    damage.Element(s.monster.Element),
		TargetDefense:    s.monsterDefense(),
		Mods:             s.mods(kind),
	}
	return s.resolvePlayerStrike(a.ID, a.Name, in, kind)
}

// resolvePlayerStrike runs hit resolution, damage, crit, and shield
// absorption for one player-side strike against the monster.
func (s *Session) resolvePlayerStrike(abilityID, label string, in damage.Input, kind damage.Kind) (ActionResult, *DeferredReaction) {
	outcome := damage.ResolveHit(s.cfg.Source, damage.HitContext{
		AttackerDex: s.player.Stats.Dex,
		DefenderDex: s.monster.Stats.Speed,
	})
	if outcome.Avoided() {
		s.logf(ActorMonster, "%s %ss %s!", s.monster.Name, outcome, label)
		return ActionResult{AbilityID: abilityID, Outcome: outcome}, nil
	}

	// Player attack-up buffs feed straight into the base damage.
	in.BaseDamage += s.playerEffects.StatModifier(status.StatAttack)
	dmg := damage.Compute(in)

	secondary := s.player.Stats.Dex
	if kind == damage.KindMagic {
		secondary = s.player.Stats.Int
	}
	crit := damage.ApplyCritical(s.cfg.Source, dmg, s.player.Stats.Lck, secondary)

	dealt := s.monsterEffects.AbsorbDamage(crit.Damage)
	s.monsterHP -= dealt
	if crit.IsCritical {
		s.logf(ActorPlayer, "Critical! %s hits %s for %d damage.", label, s.monster.Name, dealt)
	} else {
		s.logf(ActorPlayer, "%s hits %s for %d damage.", label, s.monster.Name, dealt)
	}
	s.checkTermination()

	res := ActionResult{
		AbilityID:  abilityID,
		Outcome:    outcome,
		Damage:     dealt,
		IsCritical: crit.IsCritical,
	}
	return res, s.reactionIfCounters()
}

// playHeal resolves a healing ability, clamped to the player's max HP.
func (s *Session) playHeal(a *ability.Ability, eff ability.Effects) ActionResult {
	amount := 0
	if eff.HealAmount != nil {
		amount = *eff.HealAmount
	}
	healed := amount
	if s.playerHP+healed > s.player.MaxHP {
		healed = s.player.MaxHP - s.playerHP
	}
	s.playerHP += healed
	s.logf(ActorPlayer, "%s restores %d HP.", a.Name, healed)
	return ActionResult{AbilityID: a.ID, Healed: healed}
}

// applyStatusFrom instantiates the ability's status definition onto the
// given ledger. A missing definition is a logged no-op.
func (s *Session) applyStatusFrom(a *ability.Ability, target *status.Ledger) ActionResult {
	def, ok := s.cfg.Statuses.Get(a.StatusID)
	if !ok {
		s.logger.Warn("ability references unknown status, skipping",
			zap.String("ability", a.ID), zap.String("status", a.StatusID))
		s.logf(ActorSystem, "%s has no effect.", a.Name)
		return ActionResult{AbilityID: a.ID}
	}
	target.Add(def.Instantiate(a.ID))
	s.logf(ActorPlayer, "%s applies %s.", a.Name, def.Name)
	return ActionResult{AbilityID: a.ID, StatusApplied: def.ID}
}

// reactionIfCounters earns a counter-attack reaction when the monster
// survives the action and its behavior retaliates.
func (s *Session) reactionIfCounters() *DeferredReaction {
	if s.result != Ongoing || s.monsterHP <= 0 {
		return nil
	}
	if !s.monster.Behavior.Counters() {
		return nil
	}
	if s.monsterEffects.IsIncapacitated() {
		return nil
	}
	return &DeferredReaction{}
}

// ResolveReaction applies a pending counter-attack: a single plain monster
// strike, separate from the monster's own turn. Resolving twice, or after
// the battle ended, is a no-op.
func (s *Session) ResolveReaction(r *DeferredReaction) {
	if r == nil || r.resolved || s.result != Ongoing {
		return
	}
	r.resolved = true
	s.monsterStrike(s.monster.Name + " retaliates")
}

// monsterStrike lands one plain monster attack on the player, through hit
// resolution and shield absorption.
func (s *Session) monsterStrike(label string) {
	outcome := damage.ResolveHit(s.cfg.Source, damage.HitContext{
		AttackerDex:       s.monster.Stats.Speed,
		DefenderDex:       s.player.Stats.Dex,
		DefenderHasShield: s.player.Loadout.HasShield(),
		MeleeVsMelee:      s.player.Loadout.HasMeleeWeapon(),
	})
	if outcome.Avoided() {
		s.logf(ActorPlayer, "%s %ss the attack!", s.player.Name, outcome)
		return
	}
	dmg := damage.Monster(s.monsterAttack(), s.playerDefense())
	dealt := s.playerEffects.AbsorbDamage(dmg)
	s.playerHP -= dealt
	if dealt == 0 {
		s.logf(ActorMonster, "%s, but it glances off.", label)
	} else {
		s.logf(ActorMonster, "%s for %d damage.", label, dealt)
	}
	s.checkTermination()
}

// monsterTurn runs the monster's AI-selected action queue.
func (s *Session) monsterTurn() {
	if s.monsterEffects.IsIncapacitated() {
		s.logf(ActorSystem, "%s is frozen and cannot act!", s.monster.Name)
		return
	}
	ctx := monster.TurnContext{
		HPFraction: float64(s.monsterHP) / float64(s.monster.Stats.HP),
		Turn:       s.turn,
		MaxAP:      s.cfg.MonsterMaxAP,
	}
	queue := monster.BuildQueue(s.cfg.Source, s.monster, s.cfg.Abilities, ctx, s.logger)
	for _, act := range queue {
		if s.result != Ongoing {
			return
		}
		if act.BasicAttack {
			s.monsterStrike(s.monster.Name + " attacks")
			continue
		}
		s.monsterAbility(act)
	}
}

// monsterAbility executes one AI-selected monster ability against the
// player (or on the monster itself for self-targeted types).
func (s *Session) monsterAbility(act monster.PlannedAction) {
	a, ok := s.cfg.Abilities.Get(act.AbilityID)
	if !ok {
		// BuildQueue filters unknown IDs; fall back to a plain attack if one
		// slips through anyway.
		s.monsterStrike(s.monster.Name + " attacks")
		return
	}
	eff := a.EffectsAtLevel(act.Level)

	switch a.Type {
	case ability.TypeAttack:
		base := 0
		if eff.BaseDamage != nil {
			base = *eff.BaseDamage
		}
		kind := a.AttackKind()
		in := damage.Input{
			Kind:             kind,
			BaseDamage:       base,
			AttackerStr:      s.monsterAttack(),
			AttackerInt:      s.monsterAttack(),
			ProficiencyLevel: act.Level,
			Element:          damage.Element(a.Element),
			TargetDefense:    s.playerDefense(),
			Mods:             s.mods(kind),
		}
		outcome := damage.ResolveHit(s.cfg.Source, damage.HitContext{
			AttackerDex:       s.monster.Stats.Speed,
			DefenderDex:       s.player.Stats.Dex,
			DefenderHasShield: s.player.Loadout.HasShield(),
			MeleeVsMelee:      kind == damage.KindMeleePhysical && s.player.Loadout.HasMeleeWeapon(),
		})
		if outcome.Avoided() {
			s.logf(ActorPlayer, "%s %ss %s!", s.player.Name, outcome, a.Name)
			return
		}
		dealt := s.playerEffects.AbsorbDamage(damage.Compute(in))
		s.playerHP -= dealt
		s.logf(ActorMonster, "%s uses %s for %d damage.", s.monster.Name, a.Name, dealt)
		s.checkTermination()
	case ability.TypeHeal:
		amount := 0
		if eff.HealAmount != nil {
			amount = *eff.HealAmount
		}
		if s.monsterHP+amount > s.monster.Stats.HP {
			amount = s.monster.Stats.HP - s.monsterHP
		}
		s.monsterHP += amount
		s.logf(ActorMonster, "%s uses %s and recovers %d HP.", s.monster.Name, a.Name, amount)
	case ability.TypeBuff, ability.TypeDefense:
		s.monsterApplyStatus(a, s.monsterEffects)
	case ability.TypeDebuff, ability.TypeDot:
		s.monsterApplyStatus(a, s.playerEffects)
	default:
		s.logger.Warn("unhandled monster ability type",
			zap.String("ability", a.ID), zap.String("type", string(a.Type)))
	}
}

func (s *Session) monsterApplyStatus(a *ability.Ability, target *status.Ledger) {
	def, ok := s.cfg.Statuses.Get(a.StatusID)
	if !ok {
		s.logger.Warn("monster ability references unknown status",
			zap.String("ability", a.ID), zap.String("status", a.StatusID))
		return
	}
	target.Add(def.Instantiate(a.ID))
	s.logf(ActorMonster, "%s uses %s: %s.", s.monster.Name, a.Name, def.Name)
}

// resolveStatusBoundary applies DoT and regen for both sides, then ticks
// every effect's duration once. Runs at the end of each full round.
func (s *Session) resolveStatusBoundary() {
	if dot := s.monsterEffects.DotDamage(); dot > 0 {
		s.monsterHP -= dot
		s.logf(ActorSystem, "%s suffers %d damage from lingering effects.", s.monster.Name, dot)
	}
	if heal := s.monsterEffects.RegenHeal(); heal > 0 {
		if s.monsterHP+heal > s.monster.Stats.HP {
			heal = s.monster.Stats.HP - s.monsterHP
		}
		s.monsterHP += heal
	}
	if dot := s.playerEffects.DotDamage(); dot > 0 {
		s.playerHP -= dot
		s.logf(ActorSystem, "%s suffers %d damage from lingering effects.", s.player.Name, dot)
	}
	if heal := s.playerEffects.RegenHeal(); heal > 0 {
		if s.playerHP+heal > s.player.MaxHP {
			heal = s.player.MaxHP - s.playerHP
		}
		s.playerHP += heal
	}
	s.checkTermination()
	if s.result != Ongoing {
		return
	}
	for _, id := range s.playerEffects.Tick() {
		s.logf(ActorSystem, "%s wore off.", id)
	}
	for _, id := range s.monsterEffects.Tick() {
		s.logf(ActorSystem, "%s wore off.", id)
	}
}

// Flee attempts to escape the battle at a fixed 50% chance. Success is an
// immediate terminal transition with no counter-attack; failure forfeits
// the round, letting the monster act before the status boundary.
//
// Postcondition: Returns true iff Result() == Fled.
func (s *Session) Flee() bool {
	if s.result != Ongoing {
		return false
	}
	s.Begin()
	if s.result != Ongoing {
		return false
	}
	s.queue = s.queue[:0]
	if roll.Chance(s.cfg.Source, fleeChance) {
		s.result = Fled
		s.logf(ActorSystem, "%s fled the battle.", s.player.Name)
		s.logger.Info("battle fled", zap.Int("turn", s.turn))
		return true
	}
	s.logf(ActorSystem, "%s failed to flee!", s.player.Name)
	s.monsterTurn()
	if s.result == Ongoing {
		s.resolveStatusBoundary()
	}
	if s.result == Ongoing {
		s.turn++
	}
	return false
}
