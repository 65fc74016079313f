package graphql

import (
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/api/metrics"
)

// Handler serves POST /graphql. All domain errors travel in-band as
// GraphQL error entries; the HTTP status is 200 for any executed request.
type Handler struct {
	schema graphql.Schema
	logger zerolog.Logger
}

func NewHandler(schema graphql.Schema, logger zerolog.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) GraphQL(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	start := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request().Context(),
	})
	metrics.GraphQLOperationDuration.Observe(time.Since(start).Seconds())

	if result.HasErrors() {
		h.logger.Debug().
			Str("operation", req.OperationName).
			Interface("errors", result.Errors).
			Msg("graphql request finished with errors")
	}

	return c.JSON(http.StatusOK, result)
}
