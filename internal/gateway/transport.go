package gateway

import (
	"net/http"
)

// SessionSource is the view of the session the gateway needs: the current
// token and a way to end the session when the backend rejects a token.
type SessionSource interface {
	Token() string
	// InvalidateToken ends the session if tok is still its token.
	InvalidateToken(tok string)
}

// authTransport decorates requests to the backend host with the bearer token
// and ends the session on 401. The session is ended before the response is
// handed back, so it is already inactive when the caller observes the failure.
// Requests to any other host, such as a redirect target, never carry the
// token.
type authTransport struct {
	next    http.RoundTripper
	session SessionSource
	host    string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	token := ""
	if r.URL.Host == t.host {
		token = t.session.Token()
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	} else {
		r.Header.Del("Authorization")
	}

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && r.URL.Host == t.host {
		t.session.InvalidateToken(token)
	}
	return resp, nil
}
