package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/schemas"
	"github.com/jonathan/careeriq/internal/session"
	"github.com/jonathan/careeriq/internal/storage"
	"github.com/jonathan/careeriq/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navigatorFunc func(string)

func (f navigatorFunc) Navigate(path string) { f(path) }

// recordedRequest captures what the fake backend received.
type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	b.mu.Unlock()
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	b.handler(w, r)
}

func (b *fakeBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

type fixture struct {
	backend *fakeBackend
	server  *httptest.Server
	session *session.Manager
	client  *Client
	metrics *observability.Metrics
	navs    []string
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{backend: &fakeBackend{handler: handler}}
	f.server = httptest.NewServer(f.backend)
	t.Cleanup(f.server.Close)

	f.metrics = observability.NewMetrics()
	f.session = session.NewManager(storage.NewMemoryStore(), session.Options{
		Navigator: navigatorFunc(func(p string) { f.navs = append(f.navs, p) }),
		Metrics:   f.metrics,
	})

	client, err := New(Options{
		BaseURL: f.server.URL + "/api",
		Session: f.session,
		Logger:  logger.NewTestLogger(t),
		Metrics: f.metrics,
	})
	require.NoError(t, err)
	f.client = client
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Login(context.Background(), "secret-token", types.User{ID: "1", Email: "ada@example.com"}))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNew_RequiresBaseURLAndSession(t *testing.T) {
	_, err := New(Options{Session: session.NewManager(storage.NewMemoryStore(), session.Options{})})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "http://x"})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "not a url", Session: session.NewManager(storage.NewMemoryStore(), session.Options{})})
	assert.Error(t, err)
}

func TestPostJSON_AttachesBearerWhenActive(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"reply": "hello"}`)
	})
	f.login(t)

	var out types.ChatResponse
	err := f.client.PostJSON(context.Background(), "/chat", types.ChatRequest{Message: "hi"}, schemas.Chat, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Reply)

	reqs := f.backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/chat", reqs[0].Path)
	assert.Equal(t, "Bearer secret-token", reqs[0].Authorization)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.JSONEq(t, `{"message":"hi"}`, reqs[0].Body)
	assert.NotEmpty(t, reqs[0].RequestID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("/chat", "200")))
}

func TestGetJSON_NoAuthorizationWhenInactive(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"predictions_made": 1, "resumes_analyzed": 0, "user_level": "Beginner"}`)
	})

	var out types.Dashboard
	require.NoError(t, f.client.GetJSON(context.Background(), "/dashboard", schemas.Dashboard, &out))
	assert.Equal(t, "Beginner", out.UserLevel)

	reqs := f.backend.Requests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
}

func TestUnauthorized_EndsSessionBeforeReturning(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/predict" {
			writeJSON(w, http.StatusUnauthorized, `{"detail": "Could not validate credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"reply": "ok"}`)
	})
	f.login(t)

	err := f.client.PostJSON(context.Background(), "/predict", types.DefaultPredictionInput(), schemas.Prediction, &types.PredictionResult{})

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Could not validate credentials", authErr.Message)
	assert.False(t, f.session.IsActive(), "session must be inactive when the caller observes the 401")
	assert.Equal(t, []string{session.LoginPath}, f.navs)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionLogouts.WithLabelValues(session.ReasonUnauthorized)))

	// No later request carries the stale token.
	require.NoError(t, f.client.PostJSON(context.Background(), "/chat", types.ChatRequest{Message: "x"}, schemas.Chat, &types.ChatResponse{}))
	reqs := f.backend.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer secret-token", reqs[0].Authorization)
	assert.Empty(t, reqs[1].Authorization)
}

func TestRedirect_TokenStaysOnBackendHost(t *testing.T) {
	elsewhere := &fakeBackend{handler: func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"reply": "moved"}`)
	}}
	other := httptest.NewServer(elsewhere)
	t.Cleanup(other.Close)

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/landing", http.StatusTemporaryRedirect)
	})
	f.login(t)

	var out types.ChatResponse
	require.NoError(t, f.client.PostJSON(context.Background(), "/chat", types.ChatRequest{Message: "hi"}, schemas.Chat, &out))
	assert.Equal(t, "moved", out.Reply)

	require.Len(t, f.backend.Requests(), 1)
	assert.Equal(t, "Bearer secret-token", f.backend.Requests()[0].Authorization)
	hops := elsewhere.Requests()
	require.Len(t, hops, 1)
	assert.Empty(t, hops[0].Authorization, "token must not follow a redirect to another host")
}

func TestUnauthorized_ReplacedTokenKeepsNewSession(t *testing.T) {
	received := make(chan struct{})
	reply := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		close(received)
		<-reply
		writeJSON(w, http.StatusUnauthorized, `{"detail": "Could not validate credentials"}`)
	})
	f.login(t)

	done := make(chan error, 1)
	go func() {
		done <- f.client.PostJSON(context.Background(), "/chat", types.ChatRequest{Message: "x"}, schemas.Chat, &types.ChatResponse{})
	}()

	<-received
	require.NoError(t, f.session.Login(context.Background(), "fresh-token", types.User{ID: "1", Email: "ada@example.com"}))
	close(reply)

	var authErr *AuthError
	require.True(t, errors.As(<-done, &authErr))
	assert.True(t, f.session.IsActive(), "a 401 for the old token must not end the new session")
	assert.Equal(t, "fresh-token", f.session.Token())
	assert.Empty(t, f.navs)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.SessionLogouts.WithLabelValues(session.ReasonUnauthorized)))
}

func TestServerError_PreservesMessage(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		fromServer bool
	}{
		{name: "fastapi string detail", status: 400, body: `{"detail": "Email already registered"}`, wantMsg: "Email already registered", fromServer: true},
		{name: "fastapi validation list", status: 422, body: `{"detail": [{"loc": ["body","age"], "msg": "value too small"}, {"msg": "field required"}]}`, wantMsg: "value too small; field required", fromServer: true},
		{name: "message key", status: 503, body: `{"message": "Model warming up"}`, wantMsg: "Model warming up", fromServer: true},
		{name: "no message", status: 500, body: `{}`},
		{name: "html page", status: 502, body: `<html><body>Bad Gateway</body></html>`},
		{name: "plain text", status: 500, body: `Internal Server Error`, wantMsg: "Internal Server Error", fromServer: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			f.login(t)

			err := f.client.GetJSON(context.Background(), "/dashboard", schemas.Dashboard, &types.Dashboard{})

			var serverErr *ServerError
			require.True(t, errors.As(err, &serverErr))
			assert.Equal(t, tt.status, serverErr.StatusCode)
			assert.Equal(t, tt.wantMsg, serverErr.Message)
			assert.Equal(t, tt.fromServer, serverErr.FromServer)
			assert.True(t, f.session.IsActive(), "non-401 errors keep the session")
		})
	}
}

func TestNetworkError(t *testing.T) {
	f := newFixture(t, func(http.ResponseWriter, *http.Request) {})
	f.server.Close()

	err := f.client.GetJSON(context.Background(), "/dashboard", "", &types.Dashboard{})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "/dashboard", netErr.Path)
	assert.Error(t, errors.Unwrap(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("/dashboard", "network_error")))
}

func TestContractError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success_probability": "high"}`)
	})

	err := f.client.PostJSON(context.Background(), "/predict", types.DefaultPredictionInput(), schemas.Prediction, &types.PredictionResult{})

	var contractErr *ContractError
	require.True(t, errors.As(err, &contractErr))
	var ve *schemas.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestPostMultipart(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "resume.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))
		writeJSON(w, http.StatusOK, `{"ats_score": 81, "readability_score": 70.2, "sentiment": "positive", "skills": [], "bias_detected": [], "improvement_tips": []}`)
	})
	f.login(t)

	var out types.ResumeAnalysisResult
	err := f.client.PostMultipart(context.Background(), "/analyze_resume", Form{
		Files: []FilePart{{Field: "file", Filename: "resume.pdf", Content: strings.NewReader("%PDF-1.4")}},
	}, schemas.ResumeAnalysis, &out)
	require.NoError(t, err)
	assert.Equal(t, types.Score(81), out.ATSScore)

	reqs := f.backend.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, strings.HasPrefix(reqs[0].ContentType, "multipart/form-data"))
	assert.Equal(t, "Bearer secret-token", reqs[0].Authorization)
}

func TestAuthTransport_DoesNotMutateCallerRequest(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	f.login(t)

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/api/x", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer forged")

	resp, err := f.client.http.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "Bearer forged", req.Header.Get("Authorization"))
	assert.Equal(t, "Bearer secret-token", f.backend.Requests()[0].Authorization)
}
