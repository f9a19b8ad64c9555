package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/careeriq/internal/fetch"
	"github.com/jonathan/careeriq/internal/logger"
)

var (
	// ErrHTTPRequestFailed is returned when the page could not be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions configures FromURL.
type URLOptions struct {
	// UseBrowser re-renders the page headlessly when the fetched text is too short.
	UseBrowser bool
	Timeout    time.Duration
	Logger     logger.Logger
	HTTP       *http.Client
}

// FromURL fetches an online resume and returns its cleaned main text.
func FromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	log := logger.OrNop(opts.Logger).WithFields(map[string]interface{}{"url": urlStr})

	client := &fetch.Client{HTTP: opts.HTTP, Timeout: opts.Timeout}
	page, err := client.Get(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug("fetched page", map[string]interface{}{"bytes": len(page.Body), "html": page.Markup})

	text := string(page.Body)
	if page.Markup {
		if text, err = fetch.MainText(bytes.NewReader(page.Body)); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	rendered := false
	if opts.UseBrowser && fetch.NeedsRender(text) {
		log.Info("page text too short, rendering with browser", map[string]interface{}{"chars": len(text)})
		html, renderErr := fetch.Render(ctx, urlStr, opts.Timeout, log)
		if renderErr != nil {
			log.WithError(renderErr).Warn("browser rendering failed, keeping fetched text", nil)
		} else if full, extractErr := fetch.MainText(strings.NewReader(html)); extractErr == nil {
			text = full
			rendered = true
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: page has no text", ErrContentExtractionFailed)
	}

	meta := describe(urlStr, "html", cleaned)
	meta.Rendered = rendered
	return cleaned, meta, nil
}
