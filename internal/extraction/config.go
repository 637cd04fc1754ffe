package extraction

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds OCR and rasterization settings. TesseractCmd may be a bare
// binary name resolved via PATH or an absolute path; when the binary cannot
// be found, extraction degrades to simulated OCR (empty text).
type Config struct {
	TesseractCmd string `toml:"tesseract_cmd"`
	Language     string `toml:"language"`
	PageSegMode  int    `toml:"page_seg_mode"`
	MaxPages     int    `toml:"max_pages"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TesseractCmd string
	Language     string
	PageSegMode  string
	MaxPages     string
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
	if overlay.TesseractCmd != "" {
		c.TesseractCmd = overlay.TesseractCmd
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.PageSegMode != 0 {
		c.PageSegMode = overlay.PageSegMode
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
}

func (c *Config) loadDefaults() {
	if c.TesseractCmd == "" {
		c.TesseractCmd = "tesseract"
	}
	if c.Language == "" {
		c.Language = "eng"
	}
	if c.PageSegMode == 0 {
		c.PageSegMode = 6
	}
	if c.MaxPages == 0 {
		c.MaxPages = 10
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TesseractCmd != "" {
		if v := os.Getenv(env.TesseractCmd); v != "" {
			c.TesseractCmd = v
		}
	}
	if env.Language != "" {
		if v := os.Getenv(env.Language); v != "" {
			c.Language = v
		}
	}
	if env.PageSegMode != "" {
		if v := os.Getenv(env.PageSegMode); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.PageSegMode = n
			}
		}
	}
	if env.MaxPages != "" {
		if v := os.Getenv(env.MaxPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxPages = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive")
	}
	if c.PageSegMode < 0 || c.PageSegMode > 13 {
		return fmt.Errorf("invalid page_seg_mode: %d", c.PageSegMode)
	}
	return nil
}
