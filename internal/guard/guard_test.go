package guard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{ active bool }

func (s *fakeSession) IsActive() bool { return s.active }

type countingView struct {
	name  string
	calls int
}

func (v *countingView) Render(_ context.Context, w io.Writer) error {
	v.calls++
	_, err := io.WriteString(w, v.name)
	return err
}

func TestProtect(t *testing.T) {
	sess := &fakeSession{}
	view := &countingView{name: "dashboard"}
	login := &countingView{name: "login"}
	guarded := Protect(sess, view, login)

	var buf bytes.Buffer
	require.NoError(t, guarded.Render(context.Background(), &buf))
	assert.Equal(t, "login", buf.String())
	assert.Zero(t, view.calls, "protected view must not mount without a session")

	sess.active = true
	buf.Reset()
	require.NoError(t, guarded.Render(context.Background(), &buf))
	assert.Equal(t, "dashboard", buf.String())

	// State comes from the session alone.
	sess.active = false
	buf.Reset()
	require.NoError(t, guarded.Render(context.Background(), &buf))
	assert.Equal(t, "login", buf.String())
	assert.Equal(t, 1, view.calls)
}

func TestRouter_RedirectsUnauthenticated(t *testing.T) {
	sess := &fakeSession{}
	r := NewRouter(sess)
	login := &countingView{name: "login"}
	predictor := &countingView{name: "predictor"}
	r.Handle(PathLogin, login, false)
	r.Handle(PathCareerPredictor, predictor, true)

	r.Navigate(PathCareerPredictor)
	var buf bytes.Buffer
	err := r.Render(context.Background(), &buf)

	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, PathCareerPredictor, redirect.From)
	assert.Equal(t, PathLogin, redirect.To)
	assert.Equal(t, PathLogin, r.Current())
	assert.Equal(t, "login", buf.String())
	assert.Zero(t, predictor.calls)
}

func TestRouter_RendersWhenActive(t *testing.T) {
	sess := &fakeSession{active: true}
	r := NewRouter(sess)
	predictor := &countingView{name: "predictor"}
	r.Handle(PathCareerPredictor, predictor, true)

	r.Navigate(PathCareerPredictor)
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.Equal(t, "predictor", buf.String())
	assert.Equal(t, PathCareerPredictor, r.Current())
}

func TestRouter_PublicRoute(t *testing.T) {
	r := NewRouter(&fakeSession{})
	r.Handle(PathLogin, &countingView{name: "login"}, false)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.Equal(t, "login", buf.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := NewRouter(&fakeSession{active: true})
	r.Navigate("/nowhere")
	err := r.Render(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nowhere")
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	require.Len(t, routes, 7)
	assert.False(t, routes[0].Protected)
	labels := make([]string, 0, len(routes))
	for _, rt := range routes[1:] {
		assert.True(t, rt.Protected, rt.Path)
		labels = append(labels, rt.Label)
	}
	assert.Equal(t, []string{"Home", "Career Predictor", "Resume Validator", "Jobs & Learning", "AI Advisor", "Dashboard"}, labels)
}
