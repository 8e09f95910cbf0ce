package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of price status transitions
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

var priceStatusTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "price_status_transitions_total",
		Help: "Price status change requests partitioned by category, action and outcome",
	},
	[]string{"category", "action", "outcome"},
)
