package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/rotation"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

func rotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate [file...]",
		Short: "Move files into their backup chains",
		Long: `Rotate each file into its numbered backup chain and report every
rename and delete as it happens.

Without arguments every target from --config is rotated with its configured
keep/shift. A file that is also a configured target uses the configured
values unless --keep or --shift is given.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, "keep", "shift", "create")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			jobs, err := rotateJobs(cfg, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			filesystem := newFS(cfg)
			w := worker.New(rotation.New(filesystem, log), filesystem, log, cfg.Worker.QueueSize)

			failed := 0
			for _, job := range jobs {
				warnUnusualBounds(log, job.Target)
				if out := runWithPrinter(ctx, w, job, cmd.OutOrStdout(), cmd.ErrOrStderr()); out.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rotations failed", failed, len(jobs))
			}
			return nil
		},
	}

	cmd.Flags().Int("keep", 0, "number of backups that are never shifted")
	cmd.Flags().Int("shift", 2, "number of backups in the shifting window")
	cmd.Flags().Bool("create", false, "create a fresh empty file after rotating")

	return cmd
}

// bindFlags binds the named local flags of the running command to viper.
// Binding happens per command because rotate and status share flag names.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func rotateJobs(cfg *config.Config, args []string) ([]worker.Job, error) {
	if len(args) == 0 {
		if len(cfg.Targets) == 0 {
			return nil, fmt.Errorf("no file given and no targets configured")
		}
		jobs := make([]worker.Job, 0, len(cfg.Targets))
		for _, t := range cfg.Targets {
			jobs = append(jobs, worker.JobFromConfig(t))
		}
		return jobs, nil
	}

	jobs := make([]worker.Job, 0, len(args))
	for _, path := range args {
		jobs = append(jobs, jobForPath(cfg, path))
	}
	return jobs, nil
}

func jobForPath(cfg *config.Config, path string) worker.Job {
	explicit := viper.IsSet("keep") || viper.IsSet("shift")
	if t, ok := findTarget(cfg, path); ok && !explicit {
		job := worker.JobFromConfig(t)
		job.Target.Path = path
		if viper.IsSet("create") {
			job.Create = viper.GetBool("create")
		}
		return job
	}
	return worker.Job{
		Target: rotation.Target{
			Path:  path,
			Keep:  viper.GetInt("keep"),
			Shift: viper.GetInt("shift"),
		},
		Create: viper.GetBool("create"),
	}
}

func findTarget(cfg *config.Config, path string) (config.TargetConfig, bool) {
	want, err := filepath.Abs(path)
	if err != nil {
		return config.TargetConfig{}, false
	}
	for _, t := range cfg.Targets {
		if abs, err := filepath.Abs(t.Path); err == nil && abs == want {
			return t, true
		}
	}
	return config.TargetConfig{}, false
}

func warnUnusualBounds(log zerolog.Logger, t rotation.Target) {
	if t.Keep > config.MaxKeep || t.Shift > config.MaxShift {
		log.Warn().
			Str("path", t.Path).
			Int("keep", t.Keep).
			Int("shift", t.Shift).
			Msgf("keep/shift above %d/%d; every rotation scans the whole chain", config.MaxKeep, config.MaxShift)
	}
}

// runWithPrinter runs one job and prints its messages while it is running.
func runWithPrinter(ctx context.Context, w *worker.Worker, job worker.Job, out, errOut io.Writer) worker.Outcome {
	mb := mailbox.New[rotation.Message]()
	job.Sink = rotation.SinkFunc(mb.Put)

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for {
			m, ok := mb.Take(context.Background())
			if !ok {
				return
			}
			printMessage(out, errOut, m)
		}
	}()

	outcome := w.Handle(ctx, job)
	mb.Close()
	<-printed
	return outcome
}

func printMessage(out, errOut io.Writer, m rotation.Message) {
	switch m.Severity {
	case rotation.SeverityError:
		fmt.Fprintln(errOut, "error: "+m.Text)
	default:
		fmt.Fprintln(out, m.Text)
	}
}
