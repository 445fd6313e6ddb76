package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Dre1stein/xiuxian-mud/internal/ai"
	"github.com/Dre1stein/xiuxian-mud/internal/config"
	"github.com/Dre1stein/xiuxian-mud/internal/data"
	"github.com/Dre1stein/xiuxian-mud/internal/db"
	"github.com/Dre1stein/xiuxian-mud/internal/game/battle"
	"github.com/Dre1stein/xiuxian-mud/internal/game/combat"
)

const ConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("XIUXIAN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Battle log lines and opponent decisions are only traced at debug level
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("xiuxian game server starting",
		"log_level", cfg.LogLevel,
		"persistence", cfg.Persistence,
		"max_auto_rounds", cfg.Combat.MaxAutoRounds)

	skills, err := data.LoadSkillCatalog(cfg.Content.SkillsPath)
	if err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}
	monsters, err := data.LoadMonsterCatalog(cfg.Content.MonstersPath)
	if err != nil {
		return fmt.Errorf("loading monsters: %w", err)
	}
	if missing := missingMonsterSkills(monsters, skills.Has); len(missing) > 0 {
		slog.Warn("monster skills missing from catalog, using physical strikes", "skills", missing)
	}

	rules := battle.Rules{
		Calculator:    combat.NewCalculator(combat.DefaultCounterTable()),
		Advantage:     combat.DefaultAdvantageTable(),
		Opponent:      ai.DefaultOpponentPolicy(),
		AutoPilot:     ai.DefaultAutoPilot(),
		ItemHeal:      cfg.Combat.ItemHeal,
		MaxAutoRounds: cfg.Combat.MaxAutoRounds,
	}
	regCfg := battle.RegistryConfig{
		SessionTTL:    cfg.Combat.SessionTTL,
		TerminalGrace: cfg.Combat.TerminalGrace,
		SweepInterval: cfg.Combat.SweepInterval,
	}

	var opts []battle.RegistryOption
	if cfg.Persistence {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		snapshots := db.NewSnapshotRepository(database.Pool())
		counts, err := snapshots.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("counting snapshots: %w", err)
		}
		slog.Info("battle snapshots on disk", "by_status", counts)
		opts = append(opts, battle.WithSnapshotStore(snapshots))
	}

	registry := battle.NewRegistry(rules, regCfg, opts...)
	if _, err := registry.Resume(ctx, skills); err != nil {
		return fmt.Errorf("resuming battle sessions: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := registry.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("battle registry: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	// Final checkpoint so ACTIVE sessions survive the restart.
	if cfg.Persistence {
		if _, err := registry.Sweep(context.WithoutCancel(ctx)); err != nil {
			slog.Error("final checkpoint", "error", err)
		}
	}
	slog.Info("xiuxian game server stopped", "sessions", registry.Count())
	return nil
}

// missingMonsterSkills lists monster skill ids the skill catalog lacks.
func missingMonsterSkills(monsters *data.MonsterCatalog, has func(string) bool) []string {
	var missing []string
	for _, t := range monsters.Templates() {
		for _, id := range t.Skills {
			if !has(id) {
				missing = append(missing, t.ID+"/"+id)
			}
		}
	}
	return missing
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
