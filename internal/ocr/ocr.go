// Package ocr turns handwriting into text.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kim-mac/aiopad/internal/config"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/metrics"
)

// ErrNoText is returned when recognition succeeds but finds nothing
var ErrNoText = errors.New("ocr: no text recognized")

// Recognizer extracts plain text from an image
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Tesseract runs the tesseract command line tool
type Tesseract struct {
	Command  string
	Language string
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates a tesseract recognizer from configuration
func New(cfg config.OCRConfig, log *logger.Logger, m *metrics.Metrics) *Tesseract {
	if log == nil {
		log = logger.Nop()
	}
	cmd := cfg.Command
	if cmd == "" {
		cmd = "tesseract"
	}
	return &Tesseract{Command: cmd, Language: cfg.Language, log: log.WithComponent("ocr"), metrics: m}
}

// Recognize writes img to a temporary PNG and reads tesseract's stdout
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	started := time.Now()
	text, err := t.recognize(ctx, img)
	t.metrics.External("ocr", started, err)
	if err != nil {
		t.log.Warnw("recognition failed", "error", err)
	}
	return text, err
}

func (t *Tesseract) recognize(ctx context.Context, img image.Image) (string, error) {
	dir, err := os.MkdirTemp("", "aiopad-ocr-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ink.png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	args := []string{path, "stdout"}
	if t.Language != "" {
		args = append(args, "-l", t.Language)
	}
	cmd := exec.CommandContext(ctx, t.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s: %w: %s", t.Command, err, strings.TrimSpace(stderr.String()))
	}

	text := Clean(stdout.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Clean trims recognizer output: trailing spaces per line, form feeds and
// surrounding blank lines
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\f", "")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n ")
}
