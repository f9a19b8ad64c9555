package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuthError is returned when the backend answers 401. By the time the caller
// sees it the session has already been invalidated. Message is the server's
// explanation, if any; sign-in endpoints use it for bad credentials.
type AuthError struct {
	Path    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: unauthorized, session ended", e.Path)
}

// ServerError is returned for any other status >= 400. Message holds the
// server's human-readable explanation when FromServer is true.
type ServerError struct {
	Path       string
	StatusCode int
	Message    string
	FromServer bool
}

func (e *ServerError) Error() string {
	if e.FromServer {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Path, e.StatusCode)
}

// NetworkError is returned when no response was received.
type NetworkError struct {
	Path  string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Path, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// ContractError is returned when a successful response cannot be decoded or
// does not match its schema.
type ContractError struct {
	Path  string
	Cause error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Path, e.Cause)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

const maxPlainMessage = 200

// ServerMessage extracts a human-readable message from an error body.
// FastAPI's detail may be a string or a list of {msg} objects; other services
// use message or error. Short plain-text bodies are returned as is. An empty
// result means the body carried nothing worth showing.
func ServerMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		if strings.HasPrefix(trimmed, "<") || strings.HasPrefix(trimmed, "{") || len(trimmed) > maxPlainMessage {
			return ""
		}
		return trimmed
	}

	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if msg := messageFrom(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func messageFrom(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var obj struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Msg != "" {
			return strings.TrimSpace(obj.Msg)
		}
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
