package ports

import (
	"context"

	"github.com/threadline/messaging-api/internal/core/domain"
)

// UserUpdate carries a partial update. Nil pointers leave the field
// untouched; PasswordHash must already be hashed by the caller.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts the user and returns it with its generated id.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update applies the non-nil fields and returns the updated user.
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)

	// Delete removes the user record. Returns domain.ErrUserNotFound when
	// no user matches.
	Delete(ctx context.Context, id string) error

	// List returns all users in creation order.
	List(ctx context.Context) ([]domain.User, error)
}
