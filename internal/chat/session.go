package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/workflow"
)

// Name is the workflow name used in logs and metrics.
const Name = "chat"

// FallbackMessage is logged when a reply fails without a server message.
const FallbackMessage = "Failed to get response"

// Advisor answers one chat message.
type Advisor interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Options configures a Session.
type Options struct {
	Logger  logger.Logger
	Metrics *observability.Metrics
}

// Session is one conversation with the advisor. At most one message is in
// flight; Send is a no-op while a reply is pending.
type Session struct {
	log        *Log
	controller *workflow.Controller[string, string]
	logger     logger.Logger

	mu      sync.Mutex
	input   string
	pending bool
}

// NewSession starts a conversation with a fresh log.
func NewSession(advisor Advisor, opts Options) *Session {
	return &Session{
		log: NewLog(),
		controller: workflow.NewController(Name, nil, advisor.Chat, workflow.Options{
			Fallback: FallbackMessage,
			Logger:   opts.Logger,
			Metrics:  opts.Metrics,
		}),
		logger: logger.OrNop(opts.Logger),
	}
}

// Log returns the conversation log.
func (s *Session) Log() *Log { return s.log }

// SetInput replaces the composer text.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the composer text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Pending reports whether a reply is awaited.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SendInput sends the composer text.
func (s *Session) SendInput(ctx context.Context) bool {
	return s.Send(ctx, s.Input())
}

// Send appends text as a user turn and blocks until the assistant turn is
// appended. It returns false without doing anything when text is blank or a
// send is already pending. A failed request still appends an assistant turn
// carrying FallbackReply.
func (s *Session) Send(ctx context.Context, text string) bool {
	message := strings.TrimSpace(text)

	s.mu.Lock()
	if message == "" || s.pending {
		s.mu.Unlock()
		return false
	}
	s.log.AppendUser(message)
	s.input = ""
	s.pending = true
	s.mu.Unlock()

	st := s.controller.Submit(ctx, message)

	if st.Status == workflow.StatusSuccess {
		s.log.AppendAssistantOrFallback(*st.Data, nil)
	} else {
		s.logger.Warn("chat reply failed, using fallback", map[string]interface{}{"reason": st.Err})
		s.log.AppendAssistantOrFallback("", errReplyFailed)
	}

	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
	return true
}

var errReplyFailed = errors.New("chat reply failed")
