package config

import "time"

const (
	DefaultQueueSize      = 16
	DefaultRetryBackoff   = 100 * time.Millisecond
	DefaultPollInterval   = 5 * time.Second
	DefaultDebounceWindow = 500 * time.Millisecond
	DefaultStability      = 100 * time.Millisecond

	// Spinner bounds of the original desktop tool. The engine accepts any
	// non-negative value; the CLI warns outside this range.
	MaxKeep  = 6
	MaxShift = 6
)
