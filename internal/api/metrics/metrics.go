// Package metrics defines the custom Prometheus metrics of the user directory.
// All collectors register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userdir"

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "user_not_found", "invalid_password" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts bearer token checks done by the auth middleware.
// Label:
//   - result: "valid", "missing" or "invalid"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// UserOperationsTotal counts administration operations.
// Labels:
//   - operation: "create", "update" or "delete"
//   - outcome: "ok" or a short failure reason
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user administration operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)
