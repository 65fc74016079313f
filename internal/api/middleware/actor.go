package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/threadline/messaging-api/internal/api/metrics"
	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

type actorKey struct{}

// Actor resolves the optional bearer token into a domain.Actor and stores
// it in the request context. It never rejects: a missing or invalid token
// leaves the request anonymous, and per-operation guards decide what an
// anonymous actor may do.
func Actor(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			actor := auth.Verify(token)
			if actor == nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return next(c)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			ctx := WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom extracts the actor from the context, or nil for anonymous
// requests.
func ActorFrom(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(*domain.Actor)
	return actor
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
