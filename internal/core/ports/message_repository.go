package ports

import (
	"context"
	"time"

	"github.com/threadline/messaging-api/internal/core/domain"
)

// MessagePage selects a page of messages. Limit is the maximum number of
// rows to return. Before/BeforeID, when set, restrict the page to messages
// strictly earlier in (created_at desc, id desc) order than that pair —
// the id tie-break keeps messages sharing a timestamp from being skipped
// at a page boundary.
type MessagePage struct {
	Limit    int
	Before   time.Time
	BeforeID string
}

// MessageRepository defines persistence for messages.
type MessageRepository interface {
	// Create inserts the message and returns it with its generated id.
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)

	// FindByID returns domain.ErrMessageNotFound when no message matches.
	FindByID(ctx context.Context, id string) (*domain.Message, error)

	// List returns messages newest-first according to the page selector.
	List(ctx context.Context, page MessagePage) ([]domain.Message, error)

	// ListByAuthor returns all messages by the given user, newest-first.
	ListByAuthor(ctx context.Context, userID string) ([]domain.Message, error)

	// Delete removes the message record. Returns domain.ErrMessageNotFound
	// when no message matches.
	Delete(ctx context.Context, id string) error

	// DeleteByAuthor removes every message authored by the given user and
	// reports how many were removed.
	DeleteByAuthor(ctx context.Context, userID string) (int64, error)
}
