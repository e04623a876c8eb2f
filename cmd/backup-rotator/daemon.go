package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/rotation"
	"github.com/raoulx24/backup-rotator/internal/scheduler"
	"github.com/raoulx24/backup-rotator/internal/watcher"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Rotate configured targets on their schedules",
		Long: `Run in the foreground, rotating every configured target on its cron
schedule. The config file is reloaded on SIGHUP and, when configReload is
enabled, whenever the file changes. Stop with Ctrl+C or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("config")
			if path == "" {
				return fmt.Errorf("daemon requires --config")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), path, cfg, log)
		},
	}
}

func runDaemon(parent context.Context, path string, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	filesystem := newFS(cfg)
	engine := rotation.New(filesystem, log)
	w := worker.New(engine, filesystem, log, cfg.Worker.QueueSize)
	sched := scheduler.New(ctx, w, log)

	go w.Start(ctx)

	if err := sched.Start(cfg.Targets); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	var watch *watcher.Watcher
	var mu sync.Mutex
	reload := func() {
		mu.Lock()
		defer mu.Unlock()

		newCfg, err := config.Load(path)
		if err != nil {
			log.Error().Err(err).Msg("config reload failed")
			return
		}
		if err := sched.UpdateConfig(newCfg.Targets); err != nil {
			log.Error().Err(err).Msg("config reload failed, keeping previous schedule")
			return
		}
		if watch != nil {
			watch.UpdateConfig(newCfg.ConfigReload)
		}
		log.Info().Int("targets", len(newCfg.Targets)).Msg("config reloaded")
	}

	if cfg.ConfigReload.Enabled {
		watch = watcher.New(path, cfg.ConfigReload, log, reload)
		go func() {
			if err := watch.Start(ctx); err != nil {
				log.Error().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	// Hot reload on SIGHUP
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	log.Info().Int("targets", len(cfg.Targets)).Msg("daemon started")
	for {
		select {
		case <-hup:
			reload()
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		}
	}
}
