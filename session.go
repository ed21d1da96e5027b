package whatfits

import (
	"context"
	"time"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is a per-product question-and-answer transcript. There
// is at most one session per product URL; asking about the same URL
// resumes the existing session.
type ChatSession struct {
	ID         string    `json:"id"`
	ProductURL string    `json:"productUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *ChatSession) Validate() error {
	if s.ProductURL == "" {
		return Errorf(EINVALID, "session product URL required")
	}
	return nil
}

// ChatMessage is one turn of a session transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"` // RoleUser or RoleAssistant
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the message contains invalid fields.
func (m *ChatMessage) Validate() error {
	if m.SessionID == "" {
		return Errorf(EINVALID, "message session ID required")
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return Errorf(EINVALID, "unknown message role %q", m.Role)
	}
	if m.Content == "" {
		return Errorf(EINVALID, "message content required")
	}
	return nil
}

// SessionService represents a service for managing chat sessions and
// their transcripts.
type SessionService interface {
	// CreateSession creates a new session.
	// Returns EINVALID if a session already exists for the URL.
	CreateSession(ctx context.Context, session *ChatSession) error

	// FindSessionByID retrieves a session by ID.
	// Returns ENOTFOUND if the session does not exist.
	FindSessionByID(ctx context.Context, id string) (*ChatSession, error)

	// FindSessionByProductURL retrieves the session for a product URL.
	// Returns ENOTFOUND if no session exists for the URL.
	FindSessionByProductURL(ctx context.Context, productURL string) (*ChatSession, error)

	// FindSessions retrieves all sessions, newest first.
	FindSessions(ctx context.Context) ([]*ChatSession, error)

	// AppendMessage appends a message to the session transcript,
	// assigning the next position.
	AppendMessage(ctx context.Context, msg *ChatMessage) error

	// FindMessages retrieves the transcript in position order.
	FindMessages(ctx context.Context, sessionID string) ([]*ChatMessage, error)

	// DeleteSession removes a session and its transcript.
	// Returns ENOTFOUND if the session does not exist.
	DeleteSession(ctx context.Context, id string) error
}
