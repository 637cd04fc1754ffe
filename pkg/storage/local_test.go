package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/campusworks/letterflow/pkg/storage"
)

func localSystem(t *testing.T) storage.System {
	t.Helper()

	cfg := &storage.Config{Driver: storage.DriverLocal, Root: t.TempDir()}
	sys, err := storage.NewLocal(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	return sys
}

func TestLocalRoundTrip(t *testing.T) {
	sys := localSystem(t)
	ctx := context.Background()

	content := "scanned letter body"
	if err := sys.Upload(ctx, "scans/2026/letter.pdf", strings.NewReader(content), "application/pdf"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	ok, err := sys.Exists(ctx, "scans/2026/letter.pdf")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Fatal("Exists() = false after upload")
	}

	reader, err := sys.Download(ctx, "scans/2026/letter.pdf")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != content {
		t.Errorf("downloaded %q, want %q", data, content)
	}
}

func TestLocalDownloadMissing(t *testing.T) {
	sys := localSystem(t)

	_, err := sys.Download(context.Background(), "scans/absent.pdf")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download() error = %v, want ErrNotFound", err)
	}
}

func TestLocalRejectsBadKeys(t *testing.T) {
	sys := localSystem(t)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "scans/../../escape.pdf"} {
		if _, err := sys.Exists(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Exists(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
