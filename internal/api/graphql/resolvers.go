package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/api/metrics"
	"github.com/threadline/messaging-api/internal/api/middleware"
	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
	"github.com/threadline/messaging-api/internal/core/service"
)

// Resolver implements the GraphQL operations on top of the core services.
type Resolver struct {
	users    ports.UserService
	messages ports.MessageService
	auth     ports.AuthService
	logger   zerolog.Logger
}

func NewResolver(users ports.UserService, messages ports.MessageService, auth ports.AuthService, logger zerolog.Logger) *Resolver {
	return &Resolver{users: users, messages: messages, auth: auth, logger: logger}
}

// Me returns the signed-in user, or null for anonymous requests.
func (r *Resolver) Me(p graphql.ResolveParams) (interface{}, error) {
	actor := middleware.ActorFrom(p.Context)
	if actor == nil {
		return nil, nil
	}
	user, err := r.users.FindByID(p.Context, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Token outlived the account.
		return nil, nil
	}
	return user, nil
}

// User looks up a single user by id; unknown ids resolve to null.
func (r *Resolver) User(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	user, err := r.users.FindByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}

// Users lists all users in creation order.
func (r *Resolver) Users(p graphql.ResolveParams) (interface{}, error) {
	return r.users.List(p.Context)
}

// Messages returns a forward-paginated page of messages, newest-first.
func (r *Resolver) Messages(p graphql.ResolveParams) (interface{}, error) {
	limit, _ := p.Args["limit"].(int)
	cursor, _ := p.Args["cursor"].(string)
	return r.messages.List(p.Context, limit, cursor)
}

// SignUp creates an account and signs the new user in.
func (r *Resolver) SignUp(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	user, err := r.users.Create(p.Context, ports.SignUpInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	token, err := r.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token}, nil
}

// SignIn authenticates a login (username or email) plus password.
func (r *Resolver) SignIn(p graphql.ResolveParams) (interface{}, error) {
	login, _ := p.Args["login"].(string)
	password, _ := p.Args["password"].(string)

	token, err := r.auth.SignIn(p.Context, login, password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(signInResult(err)).Inc()
		return nil, err
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	return map[string]interface{}{"token": token}, nil
}

// UpdateUser applies a partial self-update for the signed-in user.
func (r *Resolver) UpdateUser(p graphql.ResolveParams) (interface{}, error) {
	actor, err := service.RequireAuthenticated(middleware.ActorFrom(p.Context))
	if err != nil {
		return nil, err
	}

	input := ports.UpdateUserInput{
		Username: optionalString(p, "username"),
		Email:    optionalString(p, "email"),
		Password: optionalString(p, "password"),
	}
	return r.users.Update(p.Context, actor.ID, input)
}

// DeleteUser removes a user and all their messages. Admin only.
func (r *Resolver) DeleteUser(p graphql.ResolveParams) (interface{}, error) {
	if _, err := service.RequireAdmin(middleware.ActorFrom(p.Context)); err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	return r.users.Delete(p.Context, id)
}

// CreateMessage posts a message authored by the signed-in user.
func (r *Resolver) CreateMessage(p graphql.ResolveParams) (interface{}, error) {
	actor, err := service.RequireAuthenticated(middleware.ActorFrom(p.Context))
	if err != nil {
		return nil, err
	}

	text, _ := p.Args["text"].(string)
	return r.messages.Create(p.Context, actor.ID, text)
}

// DeleteMessage removes a message; the service enforces owner-or-admin.
func (r *Resolver) DeleteMessage(p graphql.ResolveParams) (interface{}, error) {
	actor, err := service.RequireAuthenticated(middleware.ActorFrom(p.Context))
	if err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	return r.messages.Delete(p.Context, id, actor)
}

func optionalString(p graphql.ResolveParams, name string) *string {
	if v, ok := p.Args[name].(string); ok {
		return &v
	}
	return nil
}

func signInResult(err error) string {
	var authErr *domain.AuthenticationError
	if !errors.As(err, &authErr) {
		return "error"
	}
	switch authErr.Message {
	case domain.MsgNoUserFound:
		return "unknown_login"
	case domain.MsgInvalidPassword:
		return "bad_password"
	case domain.MsgTooManyAttempts:
		return "throttled"
	default:
		return "error"
	}
}
