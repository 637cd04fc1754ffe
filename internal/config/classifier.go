package config

import (
	"fmt"
	"os"
)

const EnvClassifierModelPath = "LETTERFLOW_CLASSIFIER_MODEL_PATH"

// ClassifierConfig locates the exported naive Bayes model.
type ClassifierConfig struct {
	ModelPath string `toml:"model_path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.ModelPath != "" {
		c.ModelPath = overlay.ModelPath
	}
}

func (c *ClassifierConfig) loadDefaults() {
	if c.ModelPath == "" {
		c.ModelPath = "models/classifier.json"
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierModelPath); v != "" {
		c.ModelPath = v
	}
}

func (c *ClassifierConfig) validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	return nil
}
