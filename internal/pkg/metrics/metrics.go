package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redemption outcome counters, labeled by flow (purchase|gift) and outcome
// (applied|rejected reason). Registered on the default registry and served
// by the /metrics route.
var (
	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpanel_redemptions_total",
			Help: "Redemption decisions by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpanel_gateway_calls_total",
			Help: "Payment gateway calls by operation and result.",
		},
		[]string{"operation", "result"},
	)

	ConflictRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpanel_store_conflict_retries_total",
			Help: "Optimistic-concurrency conflicts that triggered a retry.",
		},
		[]string{"flow"},
	)

	ConflictRetriesExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpanel_store_conflict_retries_exhausted_total",
			Help: "Redemptions abandoned after the conflict retry budget.",
		},
		[]string{"flow"},
	)
)

func ObserveRedemption(flow, outcome string) {
	RedemptionsTotal.WithLabelValues(flow, outcome).Inc()
}

func ObserveGatewayCall(operation, result string) {
	GatewayCallsTotal.WithLabelValues(operation, result).Inc()
}

func ObserveConflictRetry(flow string) {
	ConflictRetriesTotal.WithLabelValues(flow).Inc()
}

func ObserveConflictRetryExhausted(flow string) {
	ConflictRetriesExhaustedTotal.WithLabelValues(flow).Inc()
}
