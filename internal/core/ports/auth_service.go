package ports

import (
	"context"

	"github.com/threadline/messaging-api/internal/core/domain"
)

// AuthService issues and verifies identity tokens.
type AuthService interface {
	// SignIn resolves the login (username or email), checks the password,
	// and returns a signed token. Failures are *domain.AuthenticationError
	// with attempt-specific messages.
	SignIn(ctx context.Context, login, password string) (string, error)

	// IssueToken signs a token for an already-authenticated user, e.g.
	// immediately after signup.
	IssueToken(user *domain.User) (string, error)

	// Verify resolves a bearer credential to an actor. It fails open:
	// missing, expired, malformed, or mis-signed tokens yield nil, which
	// callers treat as anonymous.
	Verify(token string) *domain.Actor
}

// SignInLimiter throttles sign-in attempts per login key.
type SignInLimiter interface {
	// Allow records an attempt for the login and reports whether it may
	// proceed. Implementations should fail open on backend errors.
	Allow(ctx context.Context, login string) (bool, error)
}
