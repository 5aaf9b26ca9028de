package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"dungeon-kernel/internal/agent"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/infrastructure/storage"
	"dungeon-kernel/internal/network"
	"dungeon-kernel/internal/server"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/internal/version"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	var (
		configPath string
		seed       int64
		replayPath string
		bot        bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	flag.Int64Var(&seed, "seed", 0, "Master seed, overrides config (0 - keep config/random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .cdrp replay file to verify")
	flag.BoolVar(&bot, "bot", false, "Let the built-in agent control the player")
	flag.Parse()

	logger.Log.Info("Starting Dungeon Kernel...")
	logger.Log.Info(version.String())

	if replayPath != "" {
		if err := runReplay(replayPath); err != nil {
			logger.Log.WithError(err).Fatal("Replay failed")
		}
		return
	}

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if bot {
		cfg.Server.Bot = true
	}

	if err := run(cfg); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped with error")
	}
	logger.Log.Info("Done.")
}

func run(cfg engine.Config) error {
	game, err := engine.NewGameFromConfig(cfg)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"seed":    cfg.Seed,
		"level":   cfg.LevelName(),
		"policy":  cfg.AI.Policy,
		"session": game.Replay.ID,
	}).Info("World built")

	var opts []engine.InstanceOption
	if cfg.JournalDir != "" {
		journal, err := storage.NewJournal(cfg.JournalDir, game.Replay.ID)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithJournal(journal))
	}
	if cfg.ReplayDir != "" {
		replays, err := storage.NewReplayService(cfg.ReplayDir)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithReplayStore(replays))
	}

	playerID, hasPlayer := game.World.PlayerID()
	inst := engine.NewInstance(game, opts...)
	hub := network.NewBroadcaster()
	srv := server.New(inst, hub, cfg.Server.Port)
	srv.Spectate = cfg.Server.Bot

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return inst.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Server.Bot && hasPlayer {
		b := agent.NewBot(playerID, inst, hub, systems.NewRandomWalker(cfg.Seed))
		g.Go(func() error { return b.Run(gctx) })
	}

	return g.Wait()
}

// runReplay пересобирает партию из файла и сверяет итоговый хеш
func runReplay(path string) error {
	session, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"session": session.ID,
		"seed":    session.Seed,
		"actions": len(session.Actions),
	}).Info("Mode: Replay Simulation")

	game, err := engine.Replay(session)
	if err != nil {
		return err
	}
	logger.Log.WithField("digest", engine.Digest(game)).Info("Replay verified")
	return nil
}
