package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// fakeBackend serves the CareerIQ API with canned responses and counts calls.
type fakeBackend struct {
	server *httptest.Server

	mu         sync.Mutex
	calls      map[string]int
	resumeText string
	resumeFile string
	chatStatus int
	pathStatus int
	revoked    bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{calls: make(map[string]int), chatStatus: http.StatusOK, pathStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/signup", b.handleLogin)
	mux.HandleFunc("POST /api/predict", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success_probability": 72.5,
			"top_factors":         []string{"Experience", "Education"},
			"recommendations":     []string{"Learn Kubernetes"},
		})
	}))
	mux.HandleFunc("POST /api/analyze_resume", b.authed(b.handleResume))
	mux.HandleFunc("POST /api/recommend_jobs", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"jobs": []map[string]any{
			{"id": 1, "title": "Backend Engineer", "company": "Acme", "location": "Remote",
				"salary": "$150k", "skills": "Go, SQL", "match_score": 91},
		}})
	}))
	mux.HandleFunc("POST /api/learning_path", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		status := b.pathStatus
		b.mu.Unlock()
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{"detail": "course catalog offline"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"required_skills":    []string{"Go", "Kubernetes"},
			"skill_gap":          []string{"Kubernetes"},
			"estimated_timeline": "3 months",
			"recommended_courses": []map[string]any{
				{"id": "k8s", "title": "Kubernetes Basics", "platform": "Coursera", "duration": "4 weeks",
					"price": "Free", "skills": []string{"Kubernetes"}, "relevance_score": 88},
			},
		})
	}))
	mux.HandleFunc("POST /api/chat", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		status := b.chatStatus
		b.mu.Unlock()
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{"detail": "model offline"})
			return
		}
		var req struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, map[string]any{"reply": "You asked: " + req.Message})
	}))
	mux.HandleFunc("GET /api/dashboard", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"predictions_made": 3, "resumes_analyzed": 2, "user_level": "Intermediate",
			"badges": []string{"First Prediction"},
		})
	}))

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.count(r.URL.Path)
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req["password"] == "wrong-password" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials"})
		return
	}
	name := req["name"]
	if name == "" {
		name = "Jane Doe"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": testToken,
		"token_type":   "bearer",
		"user":         map[string]any{"id": 42, "name": name, "email": req["email"]},
	})
}

func (b *fakeBackend) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	b.resumeText = r.FormValue("resume_text")
	if f, header, err := r.FormFile("file"); err == nil {
		b.resumeFile = header.Filename
		_ = f.Close()
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"ats_score": 84.6, "readability_score": 67.2, "sentiment": "positive",
		"skills": []string{"Go"}, "bias_detected": []string{}, "improvement_tips": []string{"Quantify impact"},
	})
}

// authed counts the call and rejects requests without the issued token.
func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.count(r.URL.Path)
		b.mu.Lock()
		revoked := b.revoked
		b.mu.Unlock()
		if revoked || r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) count(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[strings.TrimPrefix(path, "/api")]++
}

func (b *fakeBackend) callCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// cliEnv points the CLI at backend with file storage in a temp directory.
type cliEnv struct {
	t           *testing.T
	backend     *fakeBackend
	dir         string
	sessionPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	backend := newFakeBackend(t)

	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("BACKEND_URL", backend.server.URL)
	t.Setenv("CAREERIQ_BACKEND_URL", "")
	t.Setenv("CAREERIQ_STORAGE_DRIVER", "file")
	t.Setenv("CAREERIQ_STORAGE_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("CAREERIQ_LOG_LEVEL", "error")
	t.Setenv("CAREERIQ_METRICS_FILE", "")

	return &cliEnv{t: t, backend: backend, dir: dir, sessionPath: filepath.Join(dir, "session.json")}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command once with fresh flag values.
func (e *cliEnv) run(stdin string, args ...string) result {
	e.t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(context.Background())
	closeApp()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *cliEnv) login() {
	e.t.Helper()
	res := e.run("", "login", "--email", "jane@example.com", "--password", "s3cret-pass")
	require.NoError(e.t, res.err)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(interface{ Replace([]string) error }); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
