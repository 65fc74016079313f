package ports

import (
	"context"

	"github.com/threadline/messaging-api/internal/core/domain"
)

// MessageConnection is a forward-paginated page of messages, newest-first.
type MessageConnection struct {
	Edges []domain.Message
	// HasNextPage is true when older messages exist beyond EndCursor.
	HasNextPage bool
	// EndCursor is the opaque cursor of the last edge; pass it back as the
	// cursor argument to fetch the next page. Empty when Edges is empty.
	EndCursor string
}

// MessageService defines messaging use-cases.
type MessageService interface {
	// Create posts a message authored by the given user. Empty text fails
	// with *domain.ValidationError.
	Create(ctx context.Context, authorID, text string) (*domain.Message, error)

	// List returns a page of messages, newest-first. limit <= 0 selects the
	// default page size; cursor is the opaque EndCursor of a previous page,
	// or empty for the first page.
	List(ctx context.Context, limit int, cursor string) (*MessageConnection, error)

	// ListByAuthor returns all messages authored by the given user.
	ListByAuthor(ctx context.Context, userID string) ([]domain.Message, error)

	// FindByID returns (nil, nil) when no message matches.
	FindByID(ctx context.Context, id string) (*domain.Message, error)

	// Delete removes a message. Only the author or an admin may delete;
	// anyone else fails with *domain.AuthorizationError. An unknown id
	// yields (false, nil).
	Delete(ctx context.Context, id string, actor *domain.Actor) (bool, error)
}
