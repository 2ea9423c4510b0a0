package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edc_transactions_captured_total",
		Help: "Transactions accepted at capture.",
	})

	ProcessorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edc_processor_calls_total",
		Help: "Processor calls by processor, operation and result.",
	}, []string{"processor", "operation", "result"})

	TransactionsByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edc_transaction_transitions_total",
		Help: "Applied lifecycle transitions by resulting status.",
	}, []string{"status"})
)

const (
	ResultApproved = "approved"
	ResultDeclined = "declined"
	ResultError    = "error"
)
