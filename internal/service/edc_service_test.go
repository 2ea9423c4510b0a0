package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/internal/eventbus"
	"github.com/edcsys/edc-gateway/internal/storage"
	"github.com/edcsys/edc-gateway/mocks"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

type serviceFixture struct {
	service   EDCService
	store     *storage.MemoryStore
	vault     *storage.CardVault
	processor *mocks.MockProcessor
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	proc := mocks.NewMockProcessor(t)
	proc.EXPECT().Name().Return("tsys")

	store := storage.NewMemoryStore()
	vault := storage.NewCardVault()
	bus := eventbus.New(logger.NewNop(), nil)

	return &serviceFixture{
		service:   NewEDCService(store, vault, bus, logger.NewNop(), proc),
		store:     store,
		vault:     vault,
		processor: proc,
	}
}

func validCapture() domain.CaptureInput {
	return domain.CaptureInput{
		AmountMinor: 10000,
		Currency:    "USD",
		Card: domain.CardDetails{
			Number: "4111111111111111",
			Expiry: "12/27",
			CVV:    "321",
		},
		CustomerID: "cust-42",
	}
}

func approved(ref string) *domain.Outcome {
	return &domain.Outcome{Approved: true, ReferenceCode: ref}
}

func declined(msg string) *domain.Outcome {
	return &domain.Outcome{Approved: false, Message: msg}
}

func TestCaptureTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.TransactionID)
	assert.Equal(t, domain.StatusCaptured, snap.Status)
	assert.Equal(t, "411111******1111", snap.CardNumber)
	assert.Equal(t, 1, f.store.Count(ctx))
	assert.Equal(t, 1, f.vault.Len())
}

func TestCaptureTransaction_InvalidInputStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := validCapture()
	input.AmountMinor = -500

	_, err := f.service.CaptureTransaction(ctx, input)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.store.Count(ctx))
	assert.Equal(t, 0, f.vault.Len())
}

func TestProcessTransaction_Approved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, domain.CardCredentials{Number: "4111111111111111", CVV: "321"}).
		Return(approved("REF-1"), nil).
		Once()

	snap, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAuthorized, snap.Status)
	assert.Equal(t, "tsys", snap.Processor)
	assert.Equal(t, "REF-1", snap.ProcessorResponse["reference_code"])

	// Authorization consumes the vaulted credentials.
	assert.Equal(t, 0, f.vault.Len())
}

func TestProcessTransaction_Declined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(declined("insufficient funds"), nil).
		Once()

	snap, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, snap.Status)
}

func TestProcessTransaction_UnknownProcessor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	_, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "stripe")
	assert.ErrorIs(t, err, domain.ErrUnknownProcessor)

	// Nothing happened: the record is untouched and the credentials
	// remain available for a corrected request.
	got, err := f.service.GetTransaction(ctx, snap.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, got.Status)
	assert.Equal(t, 1, f.vault.Len())
}

func TestProcessTransaction_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ProcessTransaction(context.Background(), "missing", "tsys")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestProcessTransaction_TransportFault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", domain.ErrTransport)).
		Once()

	snap, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	assert.ErrorIs(t, err, domain.ErrProcessor)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, domain.StatusError, snap.Status)
}

func TestProcessTransaction_ProcessorFaultNotDoubleWrapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: tsys returned HTTP 503", domain.ErrProcessor)).
		Once()

	snap, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	assert.ErrorIs(t, err, domain.ErrProcessor)
	assert.Equal(t, domain.StatusError, snap.Status)
}

func TestProcessTransaction_AlreadyAuthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-1"), nil).
		Once()

	_, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	require.NoError(t, err)

	// A second authorize is rejected before any processor call; the mock
	// would fail the test if Authorize ran again.
	_, err = f.service.ProcessTransaction(ctx, snap.TransactionID, "tsys")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReauthorizeTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)
	id := snap.TransactionID

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-1"), nil).
		Once()
	f.processor.EXPECT().
		Reauthorize(mock.Anything, mock.Anything, int64(15000)).
		Return(approved("REF-2"), nil).
		Once()

	_, err = f.service.ProcessTransaction(ctx, id, "tsys")
	require.NoError(t, err)

	snap, err = f.service.ReauthorizeTransaction(ctx, id, 15000)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReAuthorized, snap.Status)
	assert.Equal(t, int64(15000), snap.AmountMinor)
}

func TestReauthorizeTransaction_Repeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)
	id := snap.TransactionID

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-1"), nil).
		Once()
	f.processor.EXPECT().
		Reauthorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-2"), nil).
		Times(3)

	_, err = f.service.ProcessTransaction(ctx, id, "tsys")
	require.NoError(t, err)

	for _, amount := range []int64{12000, 14000, 16000} {
		snap, err = f.service.ReauthorizeTransaction(ctx, id, amount)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReAuthorized, snap.Status)
		assert.Equal(t, amount, snap.AmountMinor)
	}
}

func TestReauthorizeTransaction_NonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReauthorizeTransaction(context.Background(), "any", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReauthorizeTransaction_BeforeAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)

	_, err = f.service.ReauthorizeTransaction(ctx, snap.TransactionID, 15000)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)
	id := snap.TransactionID

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-1"), nil).
		Once()
	f.processor.EXPECT().
		Capture(mock.Anything, mock.Anything).
		Return(approved("REF-3"), nil).
		Once()

	_, err = f.service.ProcessTransaction(ctx, id, "tsys")
	require.NoError(t, err)

	snap, err = f.service.CompleteTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, snap.Status)

	// Completed is terminal: the second capture fails before reaching
	// the processor.
	_, err = f.service.CompleteTransaction(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.service.ReauthorizeTransaction(ctx, id, 20000)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteTransaction_DeclineKeepsAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)
	id := snap.TransactionID

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(approved("REF-1"), nil).
		Once()
	f.processor.EXPECT().
		Capture(mock.Anything, mock.Anything).
		Return(declined("settlement window closed"), nil).
		Once()

	_, err = f.service.ProcessTransaction(ctx, id, "tsys")
	require.NoError(t, err)

	snap, err = f.service.CompleteTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAuthorized, snap.Status)
}

func TestOperationsRejectedAfterError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.service.CaptureTransaction(ctx, validCapture())
	require.NoError(t, err)
	id := snap.TransactionID

	f.processor.EXPECT().
		Authorize(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: i/o timeout")).
		Once()

	_, err = f.service.ProcessTransaction(ctx, id, "tsys")
	require.Error(t, err)

	_, err = f.service.ReauthorizeTransaction(ctx, id, 15000)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.service.CompleteTransaction(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.CaptureTransaction(ctx, validCapture())
		require.NoError(t, err)
	}

	snaps := f.service.ListTransactions(ctx)
	assert.Len(t, snaps, 3)
	for _, s := range snaps {
		assert.Equal(t, domain.StatusCaptured, s.Status)
	}
}
