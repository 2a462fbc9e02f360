// Package main provides the battle simulator binary: it loads game content,
// builds a sample character, and runs one scripted battle against a named
// monster, printing the battle log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/config"
	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/battle"
	"github.com/seojin-dev/eldoria/internal/game/damage"
	"github.com/seojin-dev/eldoria/internal/game/equipment"
	"github.com/seojin-dev/eldoria/internal/game/monster"
	"github.com/seojin-dev/eldoria/internal/game/roll"
	"github.com/seojin-dev/eldoria/internal/game/stats"
	"github.com/seojin-dev/eldoria/internal/game/status"
	"github.com/seojin-dev/eldoria/internal/observability"
	"github.com/seojin-dev/eldoria/internal/progression"
	"github.com/seojin-dev/eldoria/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	monsterID := flag.String("monster", "forest_wolf", "monster definition ID to fight")
	abilityID := flag.String("ability", "slash", "ability the simulated player spams each turn")
	maxTurns := flag.Int("max-turns", 30, "abort the simulation after this many turns")
	persist := flag.Bool("persist", false, "write experience grants to PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewServiceLogger(cfg.Logging, "battlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := roll.NewLoggedSource(roll.NewCryptoSource(), logger)

	// Load content
	contentStart := time.Now()
	abilities, err := ability.LoadDirectory(cfg.Content.Dir(cfg.Content.AbilityDir))
	if err != nil {
		logger.Fatal("loading abilities", zap.Error(err))
	}
	statuses, err := status.LoadDirectory(cfg.Content.Dir(cfg.Content.StatusDir))
	if err != nil {
		logger.Fatal("loading status definitions", zap.Error(err))
	}
	items, err := equipment.LoadDirectory(cfg.Content.Dir(cfg.Content.ItemDir))
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	monsters, err := monster.LoadDirectory(cfg.Content.Dir(cfg.Content.MonsterDir))
	if err != nil {
		logger.Fatal("loading monsters", zap.Error(err))
	}
	balance, err := ability.LoadBalance(cfg.Content.Dir(cfg.Content.BalanceDir))
	if err != nil {
		logger.Fatal("loading balance tables", zap.Error(err))
	}
	logger.Info("content loaded", zap.Duration("elapsed", time.Since(contentStart)))

	m, ok := monsters.Get(*monsterID)
	if !ok {
		logger.Fatal("unknown monster", zap.String("monster", *monsterID))
	}

	player := samplePlayer(items, logger)

	session := battle.NewSession(battle.Config{
		Source:       src,
		Logger:       logger,
		Abilities:    abilities,
		Statuses:     statuses,
		Balance:      balance,
		TimeBoost:    daylightBoost,
		MonsterMaxAP: cfg.Battle.MonsterMaxAP,
		ExpPerUse:    cfg.Battle.ExpPerUse,
	}, player, m)

	session.Begin()

	// Scripted player: spam the chosen ability, fill leftover AP with basic
	// attacks, execute, repeat until the battle ends.
	for session.Result() == battle.Ongoing && session.Turn() <= *maxTurns {
		for {
			if res := session.QueueAbility(*abilityID); !res.OK {
				break
			}
		}
		for {
			if res := session.QueueBasicAttack(); !res.OK {
				break
			}
		}
		session.ExecuteQueue()
	}

	for _, entry := range session.Log() {
		fmt.Printf("[turn %2d] %-7s %s\n", entry.Turn, entry.Actor, entry.Message)
	}

	logger.Info("simulation finished",
		zap.String("result", session.Result().String()),
		zap.Int("turns", session.Turn()),
		zap.Int("player_hp", session.PlayerHP()),
		zap.Int("monster_hp", session.MonsterHP()),
		zap.Int("pending_grants", len(session.PendingGrants())),
		zap.Duration("elapsed", time.Since(start)),
	)
	if reward := session.Reward(); reward != nil {
		for _, drop := range reward.Drops {
			logger.Info("item dropped",
				zap.String("item", drop.ItemID),
				zap.Int("quantity", drop.Quantity))
		}
	}

	if *persist {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()

		repo := postgres.NewAbilityProgressRepository(pool.DB())
		granter := progression.NewGranter(repo, logger)
		granter.GrantAsync(uuid.New(), session.PendingGrants())
		granter.Wait()
		logger.Info("experience grants written")
	}
}

// samplePlayer builds the simulated character: a sword-and-board fighter
// with mid-range stats and a little proficiency behind the starter skills.
func samplePlayer(items *equipment.Registry, logger *zap.Logger) *battle.Player {
	loadout := equipment.NewLoadout()
	for _, want := range []struct {
		slot   equipment.Slot
		itemID string
	}{
		{equipment.SlotMainHand, "iron_sword"},
		{equipment.SlotOffHand, "wooden_shield"},
		{equipment.SlotArmor, "leather_armor"},
	} {
		it, ok := items.Get(want.itemID)
		if !ok {
			logger.Warn("sample item missing, slot left empty",
				zap.String("item", want.itemID))
			continue
		}
		if res := loadout.Equip(want.slot, it); !res.CanEquip {
			logger.Warn("sample item rejected",
				zap.String("item", want.itemID),
				zap.String("reason", res.Reason))
		}
	}

	return &battle.Player{
		Name: "Simulated Hero",
		Stats: stats.CharacterStats{
			Str: 18,
			Dex: 12,
			Con: 14,
			Int: 10,
			Wis: 10,
			Cha: 8,
			Lck: 6,
		},
		Loadout: loadout,
		Progress: ability.ProgressMap{
			"slash":         {Level: 2, Exp: 40},
			"sword_mastery": {Level: 1, Exp: 10},
		},
		MaxHP: 80,
		MaxMP: 30,
		MaxAP: 10,
	}
}

// daylightBoost gives fire a small edge during the day and dark at night.
func daylightBoost(element damage.Element) float64 {
	hour := time.Now().Hour()
	day := hour >= 6 && hour < 18
	switch {
	case day && element == "fire":
		return 1.1
	case !day && element == "dark":
		return 1.1
	default:
		return 1.0
	}
}
