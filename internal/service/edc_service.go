package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/internal/eventbus"
	"github.com/edcsys/edc-gateway/internal/metrics"
	"github.com/edcsys/edc-gateway/internal/storage"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

// EDCService is the transaction registry: it owns the transaction
// collection, the processor name mapping, and the per-id write
// serialization. It is the single writer of every record.
type EDCService interface {
	CaptureTransaction(ctx context.Context, input domain.CaptureInput) (domain.Snapshot, error)
	ProcessTransaction(ctx context.Context, id, processorName string) (domain.Snapshot, error)
	ReauthorizeTransaction(ctx context.Context, id string, newAmountMinor int64) (domain.Snapshot, error)
	CompleteTransaction(ctx context.Context, id string) (domain.Snapshot, error)
	GetTransaction(ctx context.Context, id string) (domain.Snapshot, error)
	ListTransactions(ctx context.Context) []domain.Snapshot
}

type edcService struct {
	store      domain.TransactionStore
	vault      *storage.CardVault
	processors map[string]domain.Processor
	bus        eventbus.EventBus
	logger     *logger.Logger

	// locks serializes all mutating operations per transaction id.
	// Unrelated transactions never contend, and no lock spanning a
	// processor call ever blocks another id.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewEDCService(
	store domain.TransactionStore,
	vault *storage.CardVault,
	bus eventbus.EventBus,
	log *logger.Logger,
	processors ...domain.Processor,
) EDCService {
	byName := make(map[string]domain.Processor, len(processors))
	for _, p := range processors {
		byName[p.Name()] = p
	}

	return &edcService{
		store:      store,
		vault:      vault,
		processors: byName,
		bus:        bus,
		logger:     log,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *edcService) CaptureTransaction(ctx context.Context, input domain.CaptureInput) (domain.Snapshot, error) {
	tx, err := domain.NewTransaction(input)
	if err != nil {
		s.logger.Warn(ctx, "Capture rejected", "error", err)
		return domain.Snapshot{}, err
	}

	ctx = logger.WithTransactionID(ctx, tx.ID())

	if err := s.store.Create(ctx, tx); err != nil {
		return domain.Snapshot{}, err
	}

	// Card credentials go to the vault, not the record; they live until
	// the first authorize attempt consumes them.
	s.vault.Put(tx.ID(), domain.CardCredentials{
		Number: input.Card.Number,
		CVV:    input.Card.CVV,
	})

	metrics.TransactionsCaptured.Inc()
	s.logger.Info(ctx, "Transaction captured",
		"amount_minor", input.AmountMinor,
		"currency", input.Currency,
		"card_number", tx.MaskedPAN(),
	)
	s.publishLifecycle(ctx, tx)

	return tx.Snapshot(), nil
}

func (s *edcService) ProcessTransaction(ctx context.Context, id, processorName string) (domain.Snapshot, error) {
	ctx = logger.WithTransactionID(ctx, id)

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	proc, ok := s.processors[processorName]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownProcessor, processorName)
	}

	if err := tx.EnsureAuthorizable(); err != nil {
		return domain.Snapshot{}, err
	}

	card, ok := s.vault.Take(id)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: card credentials already consumed for transaction %s", domain.ErrInvalidState, id)
	}

	out, err := proc.Authorize(ctx, tx, card)
	if err != nil {
		return s.faulted(ctx, tx, "authorize", proc.Name(), err)
	}

	if err := tx.ApplyAuthorization(proc.Name(), out); err != nil {
		return domain.Snapshot{}, err
	}

	metrics.ProcessorCalls.WithLabelValues(proc.Name(), "authorize", resultLabel(out)).Inc()
	s.logger.Info(ctx, "Authorization outcome",
		"processor", proc.Name(),
		"approved", out.Approved,
		"reference_code", out.ReferenceCode,
	)
	s.publishLifecycle(ctx, tx)

	return tx.Snapshot(), nil
}

func (s *edcService) ReauthorizeTransaction(ctx context.Context, id string, newAmountMinor int64) (domain.Snapshot, error) {
	ctx = logger.WithTransactionID(ctx, id)

	if newAmountMinor <= 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: re-authorization amount must be positive", domain.ErrValidation)
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if err := tx.EnsureAuthorized("reauthorize"); err != nil {
		return domain.Snapshot{}, err
	}

	proc, ok := s.processors[tx.ProcessorName()]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownProcessor, tx.ProcessorName())
	}

	out, err := proc.Reauthorize(ctx, tx, newAmountMinor)
	if err != nil {
		return s.faulted(ctx, tx, "reauthorize", proc.Name(), err)
	}

	if err := tx.ApplyReauthorization(newAmountMinor, out); err != nil {
		return domain.Snapshot{}, err
	}

	metrics.ProcessorCalls.WithLabelValues(proc.Name(), "reauthorize", resultLabel(out)).Inc()
	s.logger.Info(ctx, "Re-authorization outcome",
		"processor", proc.Name(),
		"approved", out.Approved,
		"new_amount_minor", newAmountMinor,
	)
	s.publishLifecycle(ctx, tx)

	return tx.Snapshot(), nil
}

func (s *edcService) CompleteTransaction(ctx context.Context, id string) (domain.Snapshot, error) {
	ctx = logger.WithTransactionID(ctx, id)

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if err := tx.EnsureAuthorized("capture"); err != nil {
		return domain.Snapshot{}, err
	}

	proc, ok := s.processors[tx.ProcessorName()]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownProcessor, tx.ProcessorName())
	}

	out, err := proc.Capture(ctx, tx)
	if err != nil {
		return s.faulted(ctx, tx, "capture", proc.Name(), err)
	}

	if err := tx.ApplyCompletion(out); err != nil {
		return domain.Snapshot{}, err
	}

	metrics.ProcessorCalls.WithLabelValues(proc.Name(), "capture", resultLabel(out)).Inc()
	s.logger.Info(ctx, "Capture outcome",
		"processor", proc.Name(),
		"approved", out.Approved,
	)
	s.publishLifecycle(ctx, tx)

	return tx.Snapshot(), nil
}

func (s *edcService) GetTransaction(ctx context.Context, id string) (domain.Snapshot, error) {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return tx.Snapshot(), nil
}

func (s *edcService) ListTransactions(ctx context.Context) []domain.Snapshot {
	transactions := s.store.List(ctx)

	snapshots := make([]domain.Snapshot, 0, len(transactions))
	for _, tx := range transactions {
		snapshots = append(snapshots, tx.Snapshot())
	}
	return snapshots
}

// faulted records an unrecoverable processor or transport fault: the
// record moves to StatusError, state already applied is kept, and the
// error surfaces as a processor failure for the caller to resolve.
func (s *edcService) faulted(ctx context.Context, tx *domain.Transaction, operation, processorName string, err error) (domain.Snapshot, error) {
	tx.MarkError(operation, err)

	metrics.ProcessorCalls.WithLabelValues(processorName, operation, metrics.ResultError).Inc()
	s.logger.Error(ctx, "Processor call failed",
		"processor", processorName,
		"operation", operation,
		"error", err,
	)
	s.publishLifecycle(ctx, tx)

	if !errors.Is(err, domain.ErrProcessor) {
		return tx.Snapshot(), fmt.Errorf("%w: %s transaction %s via %s: %w", domain.ErrProcessor, operation, tx.ID(), processorName, err)
	}
	return tx.Snapshot(), fmt.Errorf("%s transaction %s via %s: %w", operation, tx.ID(), processorName, err)
}

func (s *edcService) publishLifecycle(ctx context.Context, tx *domain.Transaction) {
	snapshot := tx.Snapshot()

	err := s.bus.Publish(ctx, eventbus.Event{
		ID:   uuid.New().String(),
		Type: eventbus.EventTypeLifecycle,
		Payload: eventbus.LifecycleEvent{
			TransactionID: snapshot.TransactionID,
			Status:        snapshot.Status,
			Snapshot:      snapshot,
		},
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Warn(ctx, "Failed to publish lifecycle event", "error", err)
	}
}

func (s *edcService) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func resultLabel(out *domain.Outcome) string {
	if out.Approved {
		return metrics.ResultApproved
	}
	return metrics.ResultDeclined
}
