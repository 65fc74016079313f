package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	apigraphql "github.com/threadline/messaging-api/internal/api/graphql"
	"github.com/threadline/messaging-api/internal/api/middleware"
	"github.com/threadline/messaging-api/internal/core/service"
	"github.com/threadline/messaging-api/internal/infrastructure/crypto"
	mongodb "github.com/threadline/messaging-api/internal/infrastructure/db/mongo"
	redisdb "github.com/threadline/messaging-api/internal/infrastructure/db/redis"
	"github.com/threadline/messaging-api/internal/infrastructure/http/handlers"
	"github.com/threadline/messaging-api/internal/pkg/config"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("messaging"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	hasher := crypto.NewBcryptHasher()
	limiter := redisdb.NewSignInLimiter(rdb, cfg.SignIn.MaxAttempts, cfg.SignIn.Window)

	userService := service.NewUserService(userRepo, messageRepo, hasher, log)
	messageService := service.NewMessageService(messageRepo, log)
	authService := service.NewAuthService(userService, hasher, limiter, cfg.JWTSecret, cfg.TokenTTL, log)

	resolver := apigraphql.NewResolver(userService, messageService, authService, log)
	schema, err := apigraphql.NewSchema(resolver)
	if err != nil {
		return nil, err
	}
	graphqlHandler := apigraphql.NewHandler(schema, log)

	// --- GraphQL ---
	// The actor middleware resolves the optional bearer token; per-operation
	// guards inside the resolvers enforce authentication and roles.
	e.POST("/graphql", graphqlHandler.GraphQL, middleware.Actor(authService))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
