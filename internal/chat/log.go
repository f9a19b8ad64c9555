// Package chat holds the advisor conversation: an append-only turn log and a
// session that sends one message at a time.
package chat

import (
	"sync"
)

// Role identifies who produced a turn.
type Role string

// Turn roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting seeds every new log.
const Greeting = "Hi! I'm your AI career advisor. I can help you with resume tips, job search strategies, interview preparation, and career guidance. How can I assist you today?"

// FallbackReply replaces the assistant's answer when the request fails.
const FallbackReply = "I apologize, but I'm having trouble processing your request. Please try again."

// QuickPrompts are suggested first questions.
var QuickPrompts = []string{
	"How do I improve my resume?",
	"Tips for software engineer interviews",
	"How to negotiate salary?",
}

// Turn is one message in the conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Log is an append-only sequence of turns. Turns are never edited or removed.
type Log struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewLog creates a log holding the greeting.
func NewLog() *Log {
	return &Log{turns: []Turn{{Role: RoleAssistant, Content: Greeting}}}
}

// AppendUser records the user's message.
func (l *Log) AppendUser(content string) {
	l.append(Turn{Role: RoleUser, Content: content})
}

// AppendAssistantOrFallback records the assistant's reply, or FallbackReply
// when the request failed.
func (l *Log) AppendAssistantOrFallback(reply string, err error) {
	if err != nil {
		reply = FallbackReply
	}
	l.append(Turn{Role: RoleAssistant, Content: reply})
}

func (l *Log) append(t Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, t)
}

// Turns returns a copy of the log.
func (l *Log) Turns() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Turn(nil), l.turns...)
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Last returns the most recent turn.
func (l *Log) Last() Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.turns[len(l.turns)-1]
}
