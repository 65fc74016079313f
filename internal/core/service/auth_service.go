package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// AuthService signs in users and issues/verifies identity tokens. The
// service holds no session state: verification is a pure function of the
// token and the signing secret.
type AuthService struct {
	users     ports.UserService
	hasher    ports.PasswordHasher
	limiter   ports.SignInLimiter
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService builds an AuthService. limiter may be nil to disable
// sign-in throttling; a non-positive ttl selects the 30-day default.
func NewAuthService(users ports.UserService, hasher ports.PasswordHasher, limiter ports.SignInLimiter, jwtSecret string, ttl time.Duration, logger zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  ttl,
		logger:    logger,
	}
}

// SignIn resolves the login as username-or-email, checks the password, and
// returns a signed token. Error messages are attempt-specific, never
// field-specific, so failures cannot be used to enumerate accounts.
func (s *AuthService) SignIn(ctx context.Context, login, password string) (string, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, login)
		if err != nil {
			// Throttling is best-effort: a limiter outage must not lock
			// everyone out.
			s.logger.Warn().Err(err).Msg("sign-in limiter unavailable")
		} else if !allowed {
			return "", domain.NewAuthenticationError(domain.MsgTooManyAttempts)
		}
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NewAuthenticationError(domain.MsgNoUserFound)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.NewAuthenticationError(domain.MsgInvalidPassword)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	return token, nil
}

// IssueToken signs an HS256 token carrying the user's identity and role.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// Verify resolves a bearer credential to an actor. It fails open: any
// defect — missing, expired, malformed, wrong algorithm, bad signature —
// yields nil, which callers treat as anonymous.
func (s *AuthService) Verify(token string) *domain.Actor {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &domain.Actor{ID: sub, Username: username, Role: role}
}
