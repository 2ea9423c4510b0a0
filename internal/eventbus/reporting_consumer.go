package eventbus

import (
	"context"
	"fmt"

	"github.com/edcsys/edc-gateway/internal/metrics"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

// ReportingConsumer renders lifecycle snapshots to the log sink and keeps
// the transition counters current. It only ever sees display-safe
// snapshots; re-delivery just re-renders, so it is idempotent enough for
// at-least-once delivery.
type ReportingConsumer struct {
	logger      *logger.Logger
	workerCount int
}

func NewReportingConsumer(log *logger.Logger, workerCount int) *ReportingConsumer {
	return &ReportingConsumer{
		logger:      log,
		workerCount: workerCount,
	}
}

func (rc *ReportingConsumer) Consume(ctx context.Context, event Event) error {
	payload, ok := event.Payload.(LifecycleEvent)
	if !ok {
		return fmt.Errorf("invalid payload type for lifecycle event")
	}

	ctx = logger.WithTransactionID(ctx, payload.TransactionID)

	metrics.TransactionsByStatus.WithLabelValues(string(payload.Status)).Inc()

	rc.logger.Info(ctx, "Transaction lifecycle",
		"status", payload.Status,
		"amount_minor", payload.Snapshot.AmountMinor,
		"currency", payload.Snapshot.Currency,
		"card_number", payload.Snapshot.CardNumber,
		"processor", payload.Snapshot.Processor,
	)

	return nil
}

func (rc *ReportingConsumer) GetWorkerCount() int {
	return rc.workerCount
}
