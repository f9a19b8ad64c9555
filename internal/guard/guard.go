// Package guard gates protected views on the session and provides the
// headless router the CLI renders through.
package guard

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Route paths.
const (
	PathLogin           = "/login"
	PathHome            = "/"
	PathCareerPredictor = "/career-predictor"
	PathResumeValidator = "/resume-validator"
	PathRecommendations = "/recommendations"
	PathChatbot         = "/chatbot"
	PathDashboard       = "/dashboard"
)

// Route describes one navigable view.
type Route struct {
	Path      string
	Label     string
	Protected bool
}

// Routes returns the application's routes in navigation order.
func Routes() []Route {
	return []Route{
		{Path: PathLogin, Label: "Login"},
		{Path: PathHome, Label: "Home", Protected: true},
		{Path: PathCareerPredictor, Label: "Career Predictor", Protected: true},
		{Path: PathResumeValidator, Label: "Resume Validator", Protected: true},
		{Path: PathRecommendations, Label: "Jobs & Learning", Protected: true},
		{Path: PathChatbot, Label: "AI Advisor", Protected: true},
		{Path: PathDashboard, Label: "Dashboard", Protected: true},
	}
}

// View renders itself to w.
type View interface {
	Render(ctx context.Context, w io.Writer) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, w io.Writer) error

// Render calls f.
func (f ViewFunc) Render(ctx context.Context, w io.Writer) error { return f(ctx, w) }

// Session is what the guard consults.
type Session interface {
	IsActive() bool
}

// Protect wraps view so that it renders only while session is active; the
// login view renders in its place otherwise. The guard holds no state.
func Protect(session Session, view, login View) View {
	return ViewFunc(func(ctx context.Context, w io.Writer) error {
		if !session.IsActive() {
			return login.Render(ctx, w)
		}
		return view.Render(ctx, w)
	})
}

// RedirectError is returned by Router.Render when a protected route was
// requested without an active session.
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s requires login; redirected to %s", e.From, e.To)
}

type entry struct {
	view      View
	protected bool
}

// Router tracks the current route and renders it through the guard.
// Navigate has replace semantics: there is no history.
type Router struct {
	mu      sync.RWMutex
	session Session
	routes  map[string]entry
	current string
}

// NewRouter creates a Router positioned at the login route.
func NewRouter(session Session) *Router {
	return &Router{
		session: session,
		routes:  make(map[string]entry),
		current: PathLogin,
	}
}

// Handle registers view at path.
func (r *Router) Handle(path string, view View, protected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = entry{view: view, protected: protected}
}

// Navigate replaces the current route.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
}

// Current returns the current route.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Render renders the current route. A protected route without an active
// session moves the router to the login route, renders it and returns a
// *RedirectError so callers can tell the requested view never mounted.
func (r *Router) Render(ctx context.Context, w io.Writer) error {
	r.mu.RLock()
	path := r.current
	e, ok := r.routes[path]
	login, hasLogin := r.routes[PathLogin]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no view registered for %s", path)
	}

	if e.protected && !r.session.IsActive() {
		r.Navigate(PathLogin)
		if hasLogin {
			if err := login.view.Render(ctx, w); err != nil {
				return err
			}
		}
		return &RedirectError{From: path, To: PathLogin}
	}

	return e.view.Render(ctx, w)
}
