package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

const (
	passwordMinLen = 7
	passwordMaxLen = 42
)

// UserService implements account use-cases over a UserRepository, with the
// message repository wired in for the delete cascade.
type UserService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	hasher   ports.PasswordHasher
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, messages ports.MessageRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		messages: messages,
		hasher:   hasher,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create validates the signup input, hashes the password, and persists the
// user. The plaintext password never reaches the repository.
func (s *UserService) Create(ctx context.Context, input ports.SignUpInput) (*domain.User, error) {
	if input.Username == "" {
		return nil, domain.NewValidationError("Username is required.")
	}
	if err := s.validate.Var(input.Email, "required,email"); err != nil {
		return nil, domain.NewValidationError(domain.MsgInvalidEmail)
	}
	if err := s.checkPasswordLength(input.Password); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// FindByID returns (nil, nil) when no user matches.
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// FindByLogin resolves a login string: exact username match first, then
// exact email match. The phase order matters — a user whose email equals
// another user's username must resolve to the username owner.
func (s *UserService) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.FindByEmail(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// Update applies a partial update. Changed fields are re-validated; a new
// password is re-hashed before it reaches the repository.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	update := ports.UserUpdate{Role: input.Role}

	if input.Username != nil {
		if *input.Username == "" {
			return nil, domain.NewValidationError("Username is required.")
		}
		existing, err := s.users.FindByUsername(ctx, *input.Username)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.NewValidationError(domain.MsgUsernameTaken)
		}
		update.Username = input.Username
	}

	if input.Email != nil {
		if err := s.validate.Var(*input.Email, "required,email"); err != nil {
			return nil, domain.NewValidationError(domain.MsgInvalidEmail)
		}
		existing, err := s.users.FindByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.NewValidationError(domain.MsgEmailTaken)
		}
		update.Email = input.Email
	}

	if input.Password != nil {
		if err := s.checkPasswordLength(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}

	updated, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete removes the user and cascades to their messages. Messages go
/// first: a reader can observe a user with zero messages, never orphaned
// messages pointing at a deleted user. Any failure fails the whole
// operation — partial cascade is never reported as success.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := s.messages.DeleteByAuthor(ctx, id)
	if err != nil {
		return false, fmt.Errorf("cascade delete messages: %w", err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Str("user_id", id).Int64("messages_removed", removed).Msg("user deleted")
	return true, nil
}

// List returns all users in creation order.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) checkPasswordLength(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return domain.NewValidationError(domain.MsgPasswordLength)
	}
	return nil
}

// checkUnique is the application-level duplicate check; the unique indexes
// on the users collection back it up under concurrent writers.
func (s *UserService) checkUnique(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.NewValidationError(domain.MsgUsernameTaken)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.NewValidationError(domain.MsgEmailTaken)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	return nil
}
