package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/careeriq/internal/api"
	"github.com/jonathan/careeriq/internal/config"
	"github.com/jonathan/careeriq/internal/gateway"
	"github.com/jonathan/careeriq/internal/guard"
	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/session"
	"github.com/jonathan/careeriq/internal/storage"
	"github.com/jonathan/careeriq/internal/workflow"
	"github.com/spf13/cobra"
)

// app holds the wired client for one command invocation.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *observability.Metrics
	store   storage.Store
	session *session.Manager
	router  *guard.Router
	api     *api.Client
}

var current *app

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	zl, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.NewZapAdapter(zl)

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	current = a
	return nil
}

// newApp wires storage, session, router and gateway, then restores any
// persisted session.
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	metrics := observability.NewMetrics()

	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		RedisURL:    cfg.Storage.RedisURL,
		DatabaseURL: cfg.Storage.DatabaseURL,
		Prefix:      cfg.Storage.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	mgr := session.NewManager(store, session.Options{Logger: log, Metrics: metrics})
	router := guard.NewRouter(mgr)
	mgr.SetNavigator(router)
	router.Handle(guard.PathLogin, guard.ViewFunc(renderLogin), false)

	gw, err := gateway.New(gateway.Options{
		BaseURL: cfg.APIBaseURL(),
		Timeout: cfg.Timeout,
		Session: mgr,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if err := mgr.Restore(ctx); err != nil {
		log.WithError(err).Warn("could not restore session", nil)
	}
	if mgr.IsActive() {
		router.Navigate(guard.PathHome)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		store:   store,
		session: mgr,
		router:  router,
		api:     api.New(gw),
	}, nil
}

func closeApp() {
	if current == nil {
		return
	}
	current.close()
	current = nil
}

func (a *app) close() {
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteFile(a.cfg.MetricsFile); err != nil {
			a.log.WithError(err).Warn("failed to write metrics file", nil)
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close session storage", nil)
	}
}

func (a *app) workflowOptions() workflow.Options {
	return workflow.Options{Logger: a.log, Metrics: a.metrics}
}

// show renders view at path through the router. Without an active session
// the login view is rendered instead and an error is returned.
func (a *app) show(cmd *cobra.Command, path string, view guard.ViewFunc) error {
	a.router.Handle(path, view, true)
	a.router.Navigate(path)
	return a.router.Render(cmd.Context(), cmd.OutOrStdout())
}

func renderLogin(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, "You are not logged in. Run 'careeriq login --email <email>' to sign in.")
	return err
}

// failed turns a failed workflow state into an error.
func failed[T any](st workflow.State[T]) error {
	if st.Status != workflow.StatusError {
		return nil
	}
	return errors.New(st.Err)
}

// finish returns err, first pointing at login when the backend ended the
// session during the command.
func (a *app) finish(cmd *cobra.Command, err error) error {
	var redirect *guard.RedirectError
	if err != nil && !errors.As(err, &redirect) && a.router.Current() == guard.PathLogin {
		_ = renderLogin(cmd.Context(), cmd.ErrOrStderr())
	}
	return err
}

// authMessage turns a sign-in or signup error into a display string.
func authMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		switch f.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fieldName(f.Field()))
		case "email":
			return "Please enter a valid email address"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", fieldName(f.Field()), f.Param())
		}
		return fmt.Sprintf("%s is invalid", fieldName(f.Field()))
	}
	var authErr *gateway.AuthError
	if errors.As(err, &authErr) {
		if authErr.Message != "" {
			return authErr.Message
		}
		return "Invalid email or password"
	}
	return workflow.Message(err, "Authentication failed")
}

func fieldName(field string) string {
	switch field {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "Name":
		return "name"
	}
	return field
}
