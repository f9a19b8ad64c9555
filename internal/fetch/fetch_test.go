package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantMarkup  bool
	}{
		{"html", "text/html; charset=utf-8", true},
		{"undeclared", "", true},
		{"plain text", "text/plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var agent string
			u := serve(t, func(w http.ResponseWriter, r *http.Request) {
				agent = r.UserAgent()
				w.Header()["Content-Type"] = []string{tt.contentType}
				_, _ = w.Write([]byte("Jane Doe"))
			})

			page, err := (&Client{}).Get(context.Background(), u)
			require.NoError(t, err)
			assert.Equal(t, "Jane Doe", string(page.Body))
			assert.Equal(t, tt.wantMarkup, page.Markup)
			assert.Equal(t, userAgent, agent)
		})
	}
}

func TestGet_RejectsNonWebURLs(t *testing.T) {
	for _, raw := range []string{"", "cv.html", "ftp://example.com/cv", "http://", "file:///etc/passwd"} {
		_, err := (&Client{}).Get(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestGet_StatusError(t *testing.T) {
	u := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	})

	_, err := (&Client{}).Get(context.Background(), u)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusGone, statusErr.Code)
	assert.Contains(t, err.Error(), "410")
}

func TestGet_Timeout(t *testing.T) {
	release := make(chan struct{})
	u := serve(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := (&Client{Timeout: 50 * time.Millisecond}).Get(context.Background(), u)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
