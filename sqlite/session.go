package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ whatfits.SessionService = (*SessionService)(nil)

// SessionService implements whatfits.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession creates a new session.
func (s *SessionService) CreateSession(ctx context.Context, session *whatfits.ChatSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	session.ID = uuid.New().String()
	session.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, product_url, created_at)
		VALUES (?, ?, ?)
	`, session.ID, session.ProductURL, session.CreatedAt.Format(time.RFC3339))

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return whatfits.Errorf(whatfits.EINVALID, "session already exists for %s", session.ProductURL)
	}
	return err
}

// FindSessionByID retrieves a session by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*whatfits.ChatSession, error) {
	return s.findSession(ctx, "id = ?", id)
}

// FindSessionByProductURL retrieves the session for a product URL.
func (s *SessionService) FindSessionByProductURL(ctx context.Context, productURL string) (*whatfits.ChatSession, error) {
	return s.findSession(ctx, "product_url = ?", productURL)
}

func (s *SessionService) findSession(ctx context.Context, where string, arg any) (*whatfits.ChatSession, error) {
	var session whatfits.ChatSession
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_url, created_at
		FROM sessions
		WHERE `+where, arg).Scan(&session.ID, &session.ProductURL, &createdAt)

	if err == sql.ErrNoRows {
		return nil, whatfits.Errorf(whatfits.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}

	session.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// FindSessions retrieves all sessions, newest first.
func (s *SessionService) FindSessions(ctx context.Context) ([]*whatfits.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_url, created_at
		FROM sessions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*whatfits.ChatSession
	for rows.Next() {
		var session whatfits.ChatSession
		var createdAt string

		if err := rows.Scan(&session.ID, &session.ProductURL, &createdAt); err != nil {
			return nil, err
		}

		session.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// AppendMessage appends a message to the session transcript, assigning
// the next position.
func (s *SessionService) AppendMessage(ctx context.Context, msg *whatfits.ChatMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	// Verify the session exists so a missing FK reads as ENOTFOUND
	// rather than a raw constraint error.
	if _, err := s.FindSessionByID(ctx, msg.SessionID); err != nil {
		return err
	}

	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1 FROM messages WHERE session_id = ?
	`, msg.SessionID).Scan(&msg.Position)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, content, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Position,
		msg.CreatedAt.Format(time.RFC3339))

	return err
}

// FindMessages retrieves the transcript in position order.
func (s *SessionService) FindMessages(ctx context.Context, sessionID string) ([]*whatfits.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, position, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY position ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*whatfits.ChatMessage
	for rows.Next() {
		var msg whatfits.ChatMessage
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content,
			&msg.Position, &createdAt); err != nil {
			return nil, err
		}

		msg.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// DeleteSession removes a session and its transcript.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return whatfits.Errorf(whatfits.ENOTFOUND, "session not found")
	}

	return nil
}
