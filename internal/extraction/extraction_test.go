package extraction_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/campusworks/letterflow/internal/extraction"
)

func testConfig(t *testing.T) *extraction.Config {
	t.Helper()

	cfg := &extraction.Config{TesseractCmd: "letterflow-no-such-binary"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func TestConfigFinalizeDefaults(t *testing.T) {
	var cfg extraction.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.TesseractCmd != "tesseract" {
		t.Errorf("TesseractCmd = %q, want tesseract", cfg.TesseractCmd)
	}
	if cfg.Language != "eng" {
		t.Errorf("Language = %q, want eng", cfg.Language)
	}
	if cfg.PageSegMode != 6 {
		t.Errorf("PageSegMode = %d, want 6", cfg.PageSegMode)
	}
	if cfg.MaxPages != 10 {
		t.Errorf("MaxPages = %d, want 10", cfg.MaxPages)
	}
}

func TestConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("TEST_EXTRACTION_LANGUAGE", "deu")

	var cfg extraction.Config
	if err := cfg.Finalize(&extraction.Env{Language: "TEST_EXTRACTION_LANGUAGE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Language != "deu" {
		t.Errorf("Language = %q, want deu", cfg.Language)
	}
}

func TestMissingBinaryDegradesToSimulated(t *testing.T) {
	system := extraction.New(testConfig(t), nil, slog.New(slog.DiscardHandler))

	if !system.Simulated() {
		t.Fatal("Simulated() = false, want true when binary is absent")
	}
	if got := system.Extract(context.Background(), "scans/a.pdf"); got != "" {
		t.Errorf("Extract() = %q, want empty in simulated mode", got)
	}
}

func TestExtractEmptyKey(t *testing.T) {
	system := extraction.New(testConfig(t), nil, slog.New(slog.DiscardHandler))

	if got := system.Extract(context.Background(), ""); got != "" {
		t.Errorf("Extract(\"\") = %q, want empty", got)
	}
}
