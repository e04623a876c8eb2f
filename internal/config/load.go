package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads a YAML config file, expands $(VAR) placeholders, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with no targets and every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.FS.RetryAttempts < 1 {
		c.FS.RetryAttempts = 1
	}
	if c.FS.RetryBackoff <= 0 {
		c.FS.RetryBackoff = DefaultRetryBackoff
	}
	if c.Worker.QueueSize <= 0 {
		c.Worker.QueueSize = DefaultQueueSize
	}
	if c.ConfigReload.Method == "" {
		c.ConfigReload.Method = "auto"
	}
	if c.ConfigReload.PollInterval <= 0 {
		c.ConfigReload.PollInterval = DefaultPollInterval
	}
	if c.ConfigReload.DebounceWindow <= 0 {
		c.ConfigReload.DebounceWindow = DefaultDebounceWindow
	}
	if c.ConfigReload.StabilityWindow <= 0 {
		c.ConfigReload.StabilityWindow = DefaultStability
	}
}

// Validate rejects configs the daemon could not run.
func (c *Config) Validate() error {
	var errs []error
	seen := map[string]bool{}

	for i, t := range c.Targets {
		if t.Path == "" {
			errs = append(errs, fmt.Errorf("targets[%d]: path is required", i))
			continue
		}
		if t.Keep < 0 || t.Shift < 0 {
			errs = append(errs, fmt.Errorf("targets[%d] %s: keep and shift must not be negative", i, t.Path))
		}
		if seen[t.Path] {
			errs = append(errs, fmt.Errorf("targets[%d] %s: duplicate path", i, t.Path))
		}
		seen[t.Path] = true
	}

	switch c.ConfigReload.Method {
	case "auto", "fsnotify", "poll":
	default:
		errs = append(errs, fmt.Errorf("configReload.method: unknown method %q", c.ConfigReload.Method))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
