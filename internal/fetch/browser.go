package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/careeriq/internal/logger"
)

// RenderThreshold is the shortest statically extracted text, in characters,
// that is trusted without a browser render. Pages below it usually build
// their content in JavaScript.
const RenderThreshold = 500

// settle is how long scripts get to run once the body is ready.
const settle = 2 * time.Second

// NeedsRender reports whether statically extracted text is too thin to be
// the real page.
func NeedsRender(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < RenderThreshold
}

// Render loads rawURL in headless Chrome and returns the resulting DOM as
// HTML. Chrome or Chromium must be installed.
func Render(ctx context.Context, rawURL string, timeout time.Duration, log logger.Logger) (string, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log = logger.OrNop(log).WithFields(map[string]interface{}{"url": rawURL})

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(userAgent),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	start := time.Now()
	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", rawURL, err)
	}

	log.Debug("page rendered", map[string]interface{}{
		"bytes":   len(html),
		"elapsed": time.Since(start).String(),
	})
	return html, nil
}
