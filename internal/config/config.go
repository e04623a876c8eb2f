package config

import "time"

type Config struct {
	Targets      []TargetConfig `yaml:"targets"`
	Logging      LoggingConfig  `yaml:"logging"`
	FS           FSConfig       `yaml:"fs"`
	Worker       WorkerConfig   `yaml:"worker"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
}

// TargetConfig is one file whose backup chain is managed by the daemon.
type TargetConfig struct {
	Path     string `yaml:"path"`
	Keep     int    `yaml:"keep"`
	Shift    int    `yaml:"shift"`
	Create   bool   `yaml:"create"`   // recreate an empty file after rotating
	Schedule string `yaml:"schedule"` // cron spec, empty = manual only
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type FSConfig struct {
	RetryAttempts int           `yaml:"retryAttempts"` // 1 = no retry
	RetryBackoff  time.Duration `yaml:"retryBackoff"`
}

type WorkerConfig struct {
	QueueSize int `yaml:"queueSize"`
}

type ReloadConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Method         string        `yaml:"method"` // "auto", "fsnotify", "poll"
	PollInterval   time.Duration `yaml:"pollInterval"`
	DebounceWindow time.Duration `yaml:"debounceWindow"`
	// how long the file size must stay unchanged before it is re-read
	StabilityWindow time.Duration `yaml:"stabilityWindow"`
}
