package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// MessageService implements messaging use-cases over a MessageRepository.
type MessageService struct {
	messages ports.MessageRepository
	logger   zerolog.Logger
}

func NewMessageService(messages ports.MessageRepository, logger zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, logger: logger}
}

// Create posts a message. Whitespace-only text counts as empty.
func (s *MessageService) Create(ctx context.Context, authorID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError(domain.MsgEmptyMessage)
	}

	created, err := s.messages.Create(ctx, &domain.Message{
		Text:   text,
		UserID: authorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("message_id", created.ID).Str("user_id", authorID).Msg("message created")
	return created, nil
}

// List returns a page of messages, newest-first. The cursor is opaque to
// callers: base64 of the previous page's last edge as a (created_at, id)
// pair. Both components matter — paginating on the timestamp alone would
// drop messages that share it with the boundary edge. An unparseable
// cursor selects the first page rather than erroring, matching the
// fail-open treatment of other malformed client input.
func (s *MessageService) List(ctx context.Context, limit int, cursor string) (*ports.MessageConnection, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	page := ports.MessagePage{Limit: limit + 1}
	if before, beforeID, ok := decodeCursor(cursor); ok {
		page.Before = before
		page.BeforeID = beforeID
	}

	edges, err := s.messages.List(ctx, page)
	if err != nil {
		return nil, err
	}

	conn := &ports.MessageConnection{Edges: edges}
	if len(edges) > limit {
		conn.Edges = edges[:limit]
		conn.HasNextPage = true
	}
	if n := len(conn.Edges); n > 0 {
		conn.EndCursor = encodeCursor(conn.Edges[n-1])
	}
	return conn, nil
}

// ListByAuthor returns every message by the given user, newest-first.
func (s *MessageService) ListByAuthor(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.messages.ListByAuthor(ctx, userID)
}

// FindByID returns (nil, nil) when no message matches.
func (s *MessageService) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	message, err := s.messages.FindByID(ctx, id)
	if errors.Is(err, domain.ErrMessageNotFound) {
		return nil, nil
	}
	return message, err
}

// Delete removes a message if the actor is its author or an admin.
func (s *MessageService) Delete(ctx context.Context, id string, actor *domain.Actor) (bool, error) {
	if actor == nil {
		return false, domain.NewAuthorizationError(domain.MsgNotAuthenticated)
	}

	message, err := s.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return false, nil
		}
		return false, err
	}

	if message.UserID != actor.ID && !actor.IsAdmin() {
		return false, domain.NewAuthorizationError(domain.MsgNotOwner)
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Str("message_id", id).Str("actor_id", actor.ID).Msg("message deleted")
	return true, nil
}

func encodeCursor(m domain.Message) string {
	raw := m.CreatedAt.Format(time.RFC3339Nano) + "|" + m.ID
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, bool) {
	if cursor == "" {
		return time.Time{}, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", false
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return time.Time{}, "", false
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", false
	}
	return t, id, true
}
