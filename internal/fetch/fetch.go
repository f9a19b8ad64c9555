// Package fetch downloads online resumes and reduces their HTML to the
// readable text of the resume itself.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent      = "Mozilla/5.0 (compatible; CareerIQ/1.0)"
	defaultTimeout = 30 * time.Second
	maxPageBytes   = 5 << 20
)

// ErrInvalidURL is returned for anything but an absolute http or https URL.
var ErrInvalidURL = errors.New("only absolute http and https URLs can be fetched")

// StatusError reports a response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered HTTP %d", e.URL, e.Code)
}

// Page is a downloaded document, truncated to 5 MiB.
type Page struct {
	Body []byte
	// Markup is set when the server sent HTML or did not say.
	Markup bool
}

// Client downloads pages. The zero value uses http.DefaultClient with a 30
// second deadline per page.
type Client struct {
	HTTP    *http.Client
	Timeout time.Duration
}

// Get downloads rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	ct := resp.Header.Get("Content-Type")
	return &Page{Body: body, Markup: ct == "" || strings.Contains(ct, "html")}, nil
}
