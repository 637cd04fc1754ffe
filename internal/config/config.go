package config

import (
	"fmt"
	"os"
	"time"

	"github.com/campusworks/letterflow/internal/extraction"
	"github.com/campusworks/letterflow/internal/mail"
	"github.com/campusworks/letterflow/pkg/database"
	"github.com/campusworks/letterflow/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLetterflowEnv             = "LETTERFLOW_ENV"
	EnvLetterflowShutdownTimeout = "LETTERFLOW_SHUTDOWN_TIMEOUT"
	EnvLetterflowVersion         = "LETTERFLOW_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LETTERFLOW_DB_HOST",
	Port:            "LETTERFLOW_DB_PORT",
	Name:            "LETTERFLOW_DB_NAME",
	User:            "LETTERFLOW_DB_USER",
	Password:        "LETTERFLOW_DB_PASSWORD",
	SSLMode:         "LETTERFLOW_DB_SSL_MODE",
	MaxOpenConns:    "LETTERFLOW_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LETTERFLOW_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LETTERFLOW_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LETTERFLOW_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Driver:           "LETTERFLOW_STORAGE_DRIVER",
	Root:             "LETTERFLOW_STORAGE_ROOT",
	ContainerName:    "LETTERFLOW_STORAGE_CONTAINER_NAME",
	ConnectionString: "LETTERFLOW_STORAGE_CONNECTION_STRING",
}

var extractionEnv = &extraction.Env{
	TesseractCmd: "LETTERFLOW_OCR_TESSERACT_CMD",
	Language:     "LETTERFLOW_OCR_LANGUAGE",
	PageSegMode:  "LETTERFLOW_OCR_PAGE_SEG_MODE",
	MaxPages:     "LETTERFLOW_OCR_MAX_PAGES",
}

var mailEnv = &mail.Env{
	Host:     "LETTERFLOW_SMTP_HOST",
	Port:     "LETTERFLOW_SMTP_PORT",
	Sender:   "LETTERFLOW_SMTP_SENDER",
	Password: "LETTERFLOW_SMTP_PASSWORD",
	Domain:   "LETTERFLOW_MAIL_DOMAIN",
}

// Config is the root configuration for the Letterflow engine.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Engine          EngineConfig      `toml:"engine"`
	Extraction      extraction.Config `toml:"extraction"`
	Classifier      ClassifierConfig  `toml:"classifier"`
	Mail            mail.Config       `toml:"mail"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the LETTERFLOW_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLetterflowEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Engine.Merge(&overlay.Engine)
	c.Extraction.Merge(&overlay.Extraction)
	c.Classifier.Merge(&overlay.Classifier)
	c.Mail.Merge(&overlay.Mail)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Engine.Finalize(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Classifier.Finalize(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLetterflowShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLetterflowVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLetterflowEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
