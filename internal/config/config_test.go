package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("ROTATOR_TEST_DIR", "/srv/data")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  - path: $(ROTATOR_TEST_DIR)/example.txt
    keep: 1
    shift: 3
    create: true
    schedule: "@daily"
logging:
  level: debug
  format: json
fs:
  retryAttempts: 4
  retryBackoff: 250ms
configReload:
  enabled: true
  method: poll
  pollInterval: 2s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, TargetConfig{
		Path:     "/srv/data/example.txt",
		Keep:     1,
		Shift:    3,
		Create:   true,
		Schedule: "@daily",
	}, cfg.Targets[0])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.FS.RetryAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.FS.RetryBackoff)
	assert.True(t, cfg.ConfigReload.Enabled)
	assert.Equal(t, "poll", cfg.ConfigReload.Method)
	assert.Equal(t, 2*time.Second, cfg.ConfigReload.PollInterval)
	assert.Equal(t, DefaultDebounceWindow, cfg.ConfigReload.DebounceWindow)
	assert.Equal(t, DefaultQueueSize, cfg.Worker.QueueSize)
}

func TestParse_CamelCaseKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
worker:
  queueSize: 3
configReload:
  method: fsnotify
  debounceWindow: 40ms
  stabilityWindow: 15ms
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Worker.QueueSize)
	assert.Equal(t, "fsnotify", cfg.ConfigReload.Method)
	assert.Equal(t, 40*time.Millisecond, cfg.ConfigReload.DebounceWindow)
	assert.Equal(t, 15*time.Millisecond, cfg.ConfigReload.StabilityWindow)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("logging: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 1, cfg.FS.RetryAttempts)
	assert.Equal(t, "auto", cfg.ConfigReload.Method)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "negative keep",
			yaml: "targets:\n  - path: a.txt\n    keep: -1\n",
			want: "must not be negative",
		},
		{
			name: "missing path",
			yaml: "targets:\n  - keep: 1\n",
			want: "path is required",
		},
		{
			name: "duplicate path",
			yaml: "targets:\n  - path: a.txt\n  - path: a.txt\n",
			want: "duplicate path",
		},
		{
			name: "unknown reload method",
			yaml: "configReload:\n  method: inotify\n",
			want: "unknown method",
		},
		{
			name: "bad yaml",
			yaml: "targets: [",
			want: "unmarshalling yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ROTATOR_A", "alpha")
	assert.Equal(t, "alpha/b/", expandEnvVars("$(ROTATOR_A)/b/$(ROTATOR_UNSET_VAR)"))
	assert.Equal(t, "$HOME stays", expandEnvVars("$HOME stays"))
}
