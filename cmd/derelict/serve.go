// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/derelict-game/derelict/internal/config"
	"github.com/derelict-game/derelict/internal/engine"
	"github.com/derelict-game/derelict/internal/logging"
	"github.com/derelict-game/derelict/internal/observability"
	playerpg "github.com/derelict-game/derelict/internal/player/postgres"
	"github.com/derelict-game/derelict/internal/server"
	"github.com/derelict-game/derelict/internal/store"
	worldpg "github.com/derelict-game/derelict/internal/world/postgres"
)

const shutdownTimeout = 5 * time.Second

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		Long: `Start the HTTP gateway and interaction engine. Pending database
migrations are applied on startup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	// Flag names match config keys so posflag can overlay them.
	cmd.Flags().String("server.addr", ":8080", "gateway listen address")
	cmd.Flags().String("observability.addr", ":9090", "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log.level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log.format", "text", "log format (text or json)")
	cmd.Flags().String("game.start_room", "secondary-control-room", "room where new players begin")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, cmd *cobra.Command) error {
	logging.SetDefault("derelict", version, cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"addr", cfg.Server.Addr,
		"observability_addr", cfg.Observability.Addr,
		"start_room", cfg.Game.StartRoom,
	)

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.With("operation", "create migrator").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		migrator.Close()
		return oops.With("operation", "apply migrations").Wrap(err)
	}
	migrator.Close()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	worldRepo := worldpg.NewRepository(pool)
	playerRepo := playerpg.NewRepository(pool)
	sessionRepo := playerpg.NewSessionRepository(pool)
	transactor := playerpg.NewTransactor(pool)

	eng := engine.New(worldRepo, playerRepo, transactor)

	// Verify the start room exists before accepting players.
	if _, err := worldRepo.GetRoom(ctx, cfg.Game.StartRoom); err != nil {
		return oops.Code("CONFIG_INVALID").
			With("start_room", cfg.Game.StartRoom).
			Hint("run `derelict seed` to load the world").
			Wrap(err)
	}

	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Observability.Addr != "" {
		obsServer = observability.NewServer(cfg.Observability.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		engine.RegisterMetrics(obsServer.Registry())
		metrics = obsServer.Metrics()

		if _, err := obsServer.Start(); err != nil {
			return err
		}
	}

	gateway := server.New(cfg.Server.Addr, server.Config{
		Engine:    eng,
		World:     worldRepo,
		Players:   playerRepo,
		Sessions:  sessionRepo,
		Metrics:   metrics,
		StartRoom: cfg.Game.StartRoom,
	})

	gatewayErrCh, err := gateway.Start()
	if err != nil {
		stopObservability(obsServer)
		return err
	}

	cmd.Println("Server started on " + gateway.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case serveErr := <-gatewayErrCh:
		if serveErr != nil {
			stopObservability(obsServer)
			return oops.With("operation", "serve gateway").Wrap(serveErr)
		}
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping gateway", "error", err)
	}
	stopObservability(obsServer)

	slog.Info("shutdown complete")
	return nil
}

func stopObservability(srv *observability.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}
