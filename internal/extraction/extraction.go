// Package extraction converts stored letter scans into plain text. PDFs are
// rasterized page by page through document-context's ImageMagick renderer and
// each page image is fed to the tesseract binary; standalone images go
// straight to tesseract. When the binary is not installed the package runs in
// simulated mode and every extraction yields empty text, which downstream
// stages treat as "Subject not found".
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/campusworks/letterflow/pkg/storage"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// System extracts text from a file held in blob storage. Extraction is
// best-effort: any failure is logged and reported as empty text so the
// workflow can continue with subject/amount fallbacks.
type System interface {
	Extract(ctx context.Context, key string) string
	Simulated() bool
}

type extractor struct {
	cfg     *Config
	store   storage.System
	logger  *slog.Logger
	tessBin string
}

// New resolves the tesseract binary once at construction. A missing binary
// is not fatal; the extractor degrades to simulated mode.
func New(cfg *Config, store storage.System, logger *slog.Logger) System {
	e := &extractor{
		cfg:    cfg,
		store:  store,
		logger: logger.With("system", "extraction"),
	}

	bin, err := exec.LookPath(cfg.TesseractCmd)
	if err != nil {
		e.logger.Warn("tesseract not found, OCR will be simulated",
			"cmd", cfg.TesseractCmd,
			"error", err,
		)
		return e
	}

	e.tessBin = bin
	return e
}

func (e *extractor) Simulated() bool {
	return e.tessBin == ""
}

func (e *extractor) Extract(ctx context.Context, key string) string {
	if key == "" {
		e.logger.Warn("extraction skipped: empty file reference")
		return ""
	}

	if e.Simulated() {
		e.logger.Info("simulated OCR", "key", key)
		return ""
	}

	text, err := e.extract(ctx, key)
	if err != nil {
		e.logger.Warn("extraction failed", "key", key, "error", err)
		return ""
	}

	return strings.TrimSpace(text)
}

func (e *extractor) extract(ctx context.Context, key string) (string, error) {
	tempDir, err := os.MkdirTemp("", "letterflow-extract-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	localPath, err := e.download(ctx, key, tempDir)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".pdf":
		return e.extractPDF(ctx, localPath, tempDir)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return e.runTesseract(ctx, localPath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(localPath))
	}
}

func (e *extractor) download(ctx context.Context, key, tempDir string) (string, error) {
	reader, err := e.store.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer reader.Close()

	localPath := filepath.Join(tempDir, "source"+strings.ToLower(filepath.Ext(key)))
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("stage download: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("stage download: %w", err)
	}

	return localPath, nil
}

func (e *extractor) extractPDF(ctx context.Context, pdfPath, tempDir string) (string, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %w", ErrRenderFailed, err)
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("%w: page count: %w", ErrRenderFailed, err)
	}

	if count > e.cfg.MaxPages {
		e.logger.Warn("page count exceeds limit, truncating",
			"pages", count,
			"max_pages", e.cfg.MaxPages,
		)
		count = e.cfg.MaxPages
	}

	imagePaths, err := renderPages(ctx, pdfPath, tempDir, count)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(imagePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(imagePaths)))

	for i, imgPath := range imagePaths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			text, err := e.runTesseract(gctx, imgPath)
			if err != nil {
				return err
			}

			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&sb, "\n--- PAGE %d ---\n%s", i+1, text)
	}

	return sb.String(), nil
}

func renderPages(ctx context.Context, pdfPath, tempDir string, pageCount int) ([]string, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	if pageCount > len(allPages) {
		pageCount = len(allPages)
	}

	paths := make([]string, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(pageCount))

	for i, page := range allPages[:pageCount] {
		pageNum := i + 1
		imgPath := filepath.Join(tempDir, fmt.Sprintf("page-%d.png", pageNum))
		paths[i] = imgPath

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("%w: render page %d: %w", ErrRenderFailed, pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("%w: write page %d image: %w", ErrRenderFailed, pageNum, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

func (e *extractor) runTesseract(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, e.tessBin, imagePath, "stdout",
		"-l", e.cfg.Language,
		"--psm", fmt.Sprintf("%d", e.cfg.PageSegMode),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOCRFailed, strings.TrimSpace(stderr.String()), err)
	}

	return stdout.String(), nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
