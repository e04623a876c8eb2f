package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "backup-rotator",
	Short: "Keep numbered backups of a file",
	Long: `backup-rotator moves a file into a numbered backup chain
(name.1~, name.2~, ...) before it is replaced.

The first --keep slots are filled once and then left alone. The next
--shift slots form a window where the oldest backup is dropped on
every rotation once the chain is full.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().String("config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(rotateCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(daemonCmd())
}

// initViper lets BACKUP_ROTATOR_* environment variables stand in for flags.
func initViper() {
	viper.SetEnvPrefix("BACKUP_ROTATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads --config if given, otherwise returns the defaults.
// Explicit log flags win over the config file.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if viper.IsSet("log-level") || cfg.Logging.Level == "" {
		cfg.Logging.Level = viper.GetString("log-level")
	}
	if viper.IsSet("log-format") || cfg.Logging.Format == "" {
		cfg.Logging.Format = viper.GetString("log-format")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, os.Stderr)
}

func newFS(cfg *config.Config) fs.FS {
	return fs.NewWithRetry(fs.RetryPolicy{
		Attempts: cfg.FS.RetryAttempts,
		Backoff:  cfg.FS.RetryBackoff,
	})
}
