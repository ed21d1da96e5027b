package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of whatfits.SessionService.
type SessionService struct {
	CreateSessionFn           func(ctx context.Context, session *whatfits.ChatSession) error
	FindSessionByIDFn         func(ctx context.Context, id string) (*whatfits.ChatSession, error)
	FindSessionByProductURLFn func(ctx context.Context, productURL string) (*whatfits.ChatSession, error)
	FindSessionsFn            func(ctx context.Context) ([]*whatfits.ChatSession, error)
	AppendMessageFn           func(ctx context.Context, msg *whatfits.ChatMessage) error
	FindMessagesFn            func(ctx context.Context, sessionID string) ([]*whatfits.ChatMessage, error)
	DeleteSessionFn           func(ctx context.Context, id string) error
}

func (s *SessionService) CreateSession(ctx context.Context, session *whatfits.ChatSession) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*whatfits.ChatSession, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessionByProductURL(ctx context.Context, productURL string) (*whatfits.ChatSession, error) {
	return s.FindSessionByProductURLFn(ctx, productURL)
}

func (s *SessionService) FindSessions(ctx context.Context) ([]*whatfits.ChatSession, error) {
	return s.FindSessionsFn(ctx)
}

func (s *SessionService) AppendMessage(ctx context.Context, msg *whatfits.ChatMessage) error {
	return s.AppendMessageFn(ctx, msg)
}

func (s *SessionService) FindMessages(ctx context.Context, sessionID string) ([]*whatfits.ChatMessage, error) {
	return s.FindMessagesFn(ctx, sessionID)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
