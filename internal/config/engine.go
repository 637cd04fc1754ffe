package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvEnginePollInterval   = "LETTERFLOW_ENGINE_POLL_INTERVAL"
	EnvEngineErrorBackoff   = "LETTERFLOW_ENGINE_ERROR_BACKOFF"
	EnvEngineApprovalWindow = "LETTERFLOW_ENGINE_APPROVAL_WINDOW"
)

// EngineConfig holds poll loop timing and the approval window granted to
// each stage before a pending letter is flagged overdue.
type EngineConfig struct {
	PollInterval   string `toml:"poll_interval"`
	ErrorBackoff   string `toml:"error_backoff"`
	ApprovalWindow string `toml:"approval_window"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *EngineConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// ErrorBackoffDuration returns ErrorBackoff as a time.Duration.
func (c *EngineConfig) ErrorBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.ErrorBackoff)
	return d
}

// ApprovalWindowDuration returns ApprovalWindow as a time.Duration.
func (c *EngineConfig) ApprovalWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.ApprovalWindow)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.ErrorBackoff != "" {
		c.ErrorBackoff = overlay.ErrorBackoff
	}
	if overlay.ApprovalWindow != "" {
		c.ApprovalWindow = overlay.ApprovalWindow
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "3s"
	}
	if c.ErrorBackoff == "" {
		c.ErrorBackoff = "20s"
	}
	if c.ApprovalWindow == "" {
		c.ApprovalWindow = "48h"
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEnginePollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvEngineErrorBackoff); v != "" {
		c.ErrorBackoff = v
	}
	if v := os.Getenv(EnvEngineApprovalWindow); v != "" {
		c.ApprovalWindow = v
	}
}

func (c *EngineConfig) validate() error {
	for name, value := range map[string]string{
		"poll_interval":   c.PollInterval,
		"error_backoff":   c.ErrorBackoff,
		"approval_window": c.ApprovalWindow,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
