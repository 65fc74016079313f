package service

import "github.com/threadline/messaging-api/internal/core/domain"

// RequireAuthenticated passes the actor through when one is present and
// fails with an AuthorizationError otherwise. Pure check, no I/O.
func RequireAuthenticated(actor *domain.Actor) (*domain.Actor, error) {
	if actor == nil {
		return nil, domain.NewAuthorizationError(domain.MsgNotAuthenticated)
	}
	return actor, nil
}

// RequireAdmin applies RequireAuthenticated, then requires the admin role.
func RequireAdmin(actor *domain.Actor) (*domain.Actor, error) {
	actor, err := RequireAuthenticated(actor)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, domain.NewAuthorizationError(domain.MsgNotAdmin)
	}
	return actor, nil
}
