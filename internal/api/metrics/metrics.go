// Package metrics defines and registers the custom Prometheus metrics for
// the messaging API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init via promauto;
// the echoprometheus middleware adds the standard HTTP request metrics on
// top.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "messaging"

// GraphQLOperationsTotal counts executed GraphQL operations.
// Labels:
//   - operation: top-level field name (e.g. "signIn", "createMessage")
//   - outcome: "ok" or "error"
var GraphQLOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Total number of GraphQL operations executed, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// GraphQLOperationDuration measures how long a GraphQL request takes to
// resolve end-to-end.
var GraphQLOperationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graphql_operation_duration_seconds",
		Help:      "Duration of GraphQL request execution.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "unknown_login", "bad_password", "throttled"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer-token resolutions performed by the
// actor middleware.
// Label:
//   - result: "ok", "anonymous", "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token resolutions, by result.",
	},
	[]string{"result"},
)
