package eventbus

import "context"

// Consumer handles events of one type. Delivery is at-least-once, so
// Consume must be idempotent.
type Consumer interface {
	Consume(ctx context.Context, event Event) error
	GetWorkerCount() int
}
