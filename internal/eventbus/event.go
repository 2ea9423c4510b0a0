package eventbus

import (
	"time"

	"github.com/edcsys/edc-gateway/internal/domain"
)

type EventType string

const (
	EventTypeLifecycle EventType = "transaction.lifecycle"
)

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// LifecycleEvent announces one applied state transition. The snapshot is
// the display-safe serialization, so consumers can never see card data.
type LifecycleEvent struct {
	TransactionID string          `json:"transaction_id"`
	Status        domain.Status   `json:"status"`
	Snapshot      domain.Snapshot `json:"snapshot"`
}
