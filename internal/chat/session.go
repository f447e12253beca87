// Package chat is the ephemeral message list scoped to one active match.
// It is an ordering-only component: the engine owns the side effects
// (status advancement, activity entries) that sending produces.
package chat

import (
	"fmt"
	"strings"
	"sync"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSelf Role = "self"
	RolePeer Role = "peer"
)

// Message is one chat line.
type Message struct {
	Role Role
	Text string
}

// Session holds the messages exchanged with the current active match.
// Creating a session seeds exactly one peer-authored greeting naming the
// match; switching matches means creating a fresh Session, so the greeting
// cannot be re-seeded by polling or re-reads.
type Session struct {
	mu       sync.Mutex
	matchID  uint64
	messages []Message
}

// NewSession opens a chat scope with the given match and seeds the greeting.
func NewSession(matchID uint64, matchName string) *Session {
	return &Session{
		matchID: matchID,
		messages: []Message{{
			Role: RolePeer,
			Text: fmt.Sprintf("You matched with %s! Say hello.", matchName),
		}},
	}
}

// MatchID returns the match this session is bound to.
func (s *Session) MatchID() uint64 {
	return s.matchID
}

// Send appends a self-authored message. Empty or whitespace-only text is a
// silent no-op, not an error; the return value tells the engine whether
// anything was appended.
func (s *Session) Send(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: RoleSelf, Text: trimmed})
	return true
}

// Messages returns the ordered message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
