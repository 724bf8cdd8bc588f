// Package capture renders the agenda page to a PNG with headless Chromium.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "atlanend/internal/log"
)

// Defaults roughly fit a landscape A4 page.
const (
	DefaultWidth   = 1240
	DefaultHeight  = 877
	DefaultTimeout = 30 * time.Second
)

// readySelector marks a fully rendered agenda.
const readySelector = `[data-ready="true"]`

// Options defines a single capture.
type Options struct {
	// URL of the agenda page, e.g. "http://127.0.0.1:8080/agenda".
	URL string

	// OutputPath is where the PNG is written.
	OutputPath string

	// Viewport size in pixels. Zero uses the defaults.
	Width  int
	Height int

	// Timeout bounds the whole capture. Zero uses DefaultTimeout.
	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if o.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// CaptureAgendaPNG navigates headless Chromium to opts.URL, waits until the
// page exposes data-ready="true", and writes a full-page screenshot.
func CaptureAgendaPNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("agenda captured", "path", opts.OutputPath, "bytes", len(png))
	return nil
}
