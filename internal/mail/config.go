package mail

import (
	"fmt"
	"os"
	"strconv"
)

// placeholderSender matches the value shipped in sample config files. A
// sender left at the placeholder disables delivery rather than failing it.
const placeholderSender = "your-email@example.com"

// Config holds SMTP credentials and the institutional address domain used
// to derive per-stage recipient addresses.
type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Sender   string `toml:"sender"`
	Password string `toml:"password"`
	Domain   string `toml:"domain"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Host     string
	Port     string
	Sender   string
	Password string
	Domain   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Sender != "" {
		c.Sender = overlay.Sender
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.Domain != "" {
		c.Domain = overlay.Domain
	}
}

// Enabled reports whether delivery is configured. Unset or placeholder
// credentials put the sender in dry-run mode.
func (c *Config) Enabled() bool {
	return c.Host != "" && c.Sender != "" && c.Sender != placeholderSender
}

func (c *Config) loadDefaults() {
	if c.Port == 0 {
		c.Port = 465
	}
	if c.Domain == "" {
		c.Domain = "siddhartha.com"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Port != "" {
		if v := os.Getenv(env.Port); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Port = n
			}
		}
	}
	if env.Sender != "" {
		if v := os.Getenv(env.Sender); v != "" {
			c.Sender = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.Domain != "" {
		if v := os.Getenv(env.Domain); v != "" {
			c.Domain = v
		}
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid smtp port: %d", c.Port)
	}
	return nil
}
