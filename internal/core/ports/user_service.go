package ports

import (
	"context"

	"github.com/threadline/messaging-api/internal/core/domain"
)

// SignUpInput carries the data needed to create a new account.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	// Role is empty for ordinary users. The GraphQL surface never sets it;
	// it exists for seed tooling and tests.
	Role string
}

// UpdateUserInput carries a partial self-update. Nil pointers leave the
// field untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserService defines account use-cases.
type UserService interface {
	// Create validates the input, hashes the password, and persists the
	// user. Duplicate username/email, malformed email, and out-of-range
	// password length fail with *domain.ValidationError.
	Create(ctx context.Context, input SignUpInput) (*domain.User, error)

	// FindByID returns (nil, nil) when no user matches, including when the
	// id is malformed.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByLogin resolves a login string to a user: exact username match
	// first, then exact email match. Returns (nil, nil) on no match.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)

	// Update applies a partial update, re-validating changed fields and
	// re-hashing the password when present.
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)

	// Delete removes the user and every message they authored. The cascade
	// is part of the same logical operation: any failure fails the whole
	// delete.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns all users in creation order.
	List(ctx context.Context) ([]domain.User, error)
}
