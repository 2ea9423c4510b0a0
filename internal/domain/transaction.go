package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Status string

const (
	StatusCaptured     Status = "CAPTURED"
	StatusAuthorized   Status = "AUTHORIZED"
	StatusReAuthorized Status = "REAUTHORIZED"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
	StatusError        Status = "ERROR"
)

// Terminal reports whether no further lifecycle operation may target
// a transaction in this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusError
}

// allowedTransitions is the full lifecycle table. StatusError is reachable
// from every non-terminal status and is handled in transition directly.
var allowedTransitions = map[Status][]Status{
	StatusCaptured:     {StatusAuthorized, StatusFailed},
	StatusAuthorized:   {StatusReAuthorized, StatusCompleted},
	StatusReAuthorized: {StatusReAuthorized, StatusCompleted},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// CardDetails carries the sensitive card fields accepted at capture time.
// The number and CVV must never be stored on a Transaction; the expiry
// date is the only field that survives onto the record.
type CardDetails struct {
	Number string `json:"number" validate:"required,numeric,min=12,max=19"`
	Expiry string `json:"expiry" validate:"required,datetime=01/06"`
	CVV    string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// CardCredentials is the transient slice of CardDetails a processor needs
// for the one authorize call. It lives in the registry's vault, never on
// the record.
type CardCredentials struct {
	Number string
	CVV    string
}

type CaptureInput struct {
	AmountMinor int64       `json:"amount_minor" validate:"required,gt=0"`
	Currency    string      `json:"currency" validate:"required,len=3,alpha,uppercase"`
	Card        CardDetails `json:"card" validate:"required"`
	CustomerID  string      `json:"customer_id" validate:"omitempty,max=64"`
	VARSheet    *VARSheet   `json:"var_sheet,omitempty"`
}

type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail,omitempty"`
}

// Transaction is one payment attempt. Identity fields are immutable after
// construction; status, amount, processor response and history only change
// through the Apply* methods, which enforce the lifecycle table. All fields
// are unexported so callers cannot bypass the state machine.
type Transaction struct {
	mu sync.RWMutex

	id         string
	createdAt  time.Time
	currency   string
	maskedPAN  string
	expiryDate string
	customerID string
	varSheet   *VARSheet

	amountMinor       int64
	status            Status
	processorName     string
	processorResponse map[string]interface{}
	history           []HistoryEntry
}

// Snapshot is the serialized, display-safe form of a Transaction. It can
// never contain an unmasked PAN or a CVV: neither survives construction.
type Snapshot struct {
	TransactionID     string                 `json:"transaction_id"`
	CreatedAt         time.Time              `json:"created_at"`
	AmountMinor       int64                  `json:"amount_minor"`
	Currency          string                 `json:"currency"`
	CardNumber        string                 `json:"card_number"`
	ExpiryDate        string                 `json:"expiry_date"`
	CustomerID        string                 `json:"customer_id,omitempty"`
	Processor         string                 `json:"processor,omitempty"`
	Status            Status                 `json:"status"`
	VARSheet          *VARSheet              `json:"var_sheet,omitempty"`
	ProcessorResponse map[string]interface{} `json:"processor_response,omitempty"`
	History           []HistoryEntry         `json:"history"`
}

// NewTransaction validates the capture input and builds a record in
// StatusCaptured. The PAN is masked immediately; the caller keeps the
// unmasked number and CVV only as long as the first authorize call needs
// them.
func NewTransaction(input CaptureInput) (*Transaction, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tx := &Transaction{
		id:          uuid.New().String(),
		createdAt:   time.Now(),
		amountMinor: input.AmountMinor,
		currency:    input.Currency,
		maskedPAN:   MaskPAN(input.Card.Number),
		expiryDate:  input.Card.Expiry,
		customerID:  input.CustomerID,
		varSheet:    input.VARSheet.clone(),
		status:      StatusCaptured,
	}
	tx.appendHistoryLocked("captured", fmt.Sprintf("amount %d %s", input.AmountMinor, input.Currency))
	return tx, nil
}

// MaskPAN keeps the first six and last four digits visible and preserves
// the original length: 4111111111111111 becomes 411111******1111. PANs of
// twelve digits or fewer keep only the last four.
func MaskPAN(pan string) string {
	n := len(pan)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	visible := 6
	if n <= 12 {
		visible = 0
	}
	return pan[:visible] + strings.Repeat("*", n-visible-4) + pan[n-4:]
}

func (t *Transaction) ID() string { return t.id }

func (t *Transaction) CreatedAt() time.Time { return t.createdAt }

func (t *Transaction) Currency() string { return t.currency }

func (t *Transaction) MaskedPAN() string { return t.maskedPAN }

func (t *Transaction) ExpiryDate() string { return t.expiryDate }

func (t *Transaction) CustomerID() string { return t.customerID }

// VARSheet returns a copy so the attached sheet stays immutable.
func (t *Transaction) VARSheet() *VARSheet { return t.varSheet.clone() }

func (t *Transaction) AmountMinor() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.amountMinor
}

func (t *Transaction) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *Transaction) ProcessorName() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.processorName
}

// EnsureAuthorizable fails unless the transaction is still awaiting its
// first processor call.
func (t *Transaction) EnsureAuthorizable() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.status != StatusCaptured {
		return t.invalidStateLocked("authorize")
	}
	return nil
}

// EnsureAuthorized fails unless the transaction holds a standing
// authorization, i.e. may be re-authorized or captured for settlement.
func (t *Transaction) EnsureAuthorized(operation string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.status != StatusAuthorized && t.status != StatusReAuthorized {
		return t.invalidStateLocked(operation)
	}
	return nil
}

func (t *Transaction) invalidStateLocked(operation string) error {
	return fmt.Errorf("%w: cannot %s transaction %s in status %s", ErrInvalidState, operation, t.id, t.status)
}

// ApplyAuthorization records the outcome of the first processor call.
// Approval moves the record to StatusAuthorized, a business decline to
// StatusFailed. The authorizing processor is pinned for follow-up calls.
func (t *Transaction) ApplyAuthorization(processorName string, out *Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	to := StatusAuthorized
	if !out.Approved {
		to = StatusFailed
	}
	if err := t.transitionLocked(to); err != nil {
		return err
	}
	t.processorName = processorName
	t.processorResponse = out.response()
	if out.Approved {
		t.appendHistoryLocked("authorized", fmt.Sprintf("processor %s reference %s", processorName, out.ReferenceCode))
	} else {
		t.appendHistoryLocked("declined", fmt.Sprintf("processor %s: %s", processorName, out.Message))
	}
	return nil
}

// ApplyReauthorization records a re-authorization outcome. Approval
// replaces the amount and moves to StatusReAuthorized. A decline applies
// no transition: the standing authorization survives at its prior amount.
func (t *Transaction) ApplyReauthorization(newAmountMinor int64, out *Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !out.Approved {
		t.processorResponse = out.response()
		t.appendHistoryLocked("reauthorize_declined", out.Message)
		return nil
	}
	if err := t.transitionLocked(StatusReAuthorized); err != nil {
		return err
	}
	prior := t.amountMinor
	t.amountMinor = newAmountMinor
	t.processorResponse = out.response()
	t.appendHistoryLocked("reauthorized", fmt.Sprintf("amount %d -> %d, reference %s", prior, newAmountMinor, out.ReferenceCode))
	return nil
}

// ApplyCompletion records a settlement-capture outcome. Approval is
// terminal (StatusCompleted); a decline leaves the authorization standing.
func (t *Transaction) ApplyCompletion(out *Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !out.Approved {
		t.processorResponse = out.response()
		t.appendHistoryLocked("capture_declined", out.Message)
		return nil
	}
	if err := t.transitionLocked(StatusCompleted); err != nil {
		return err
	}
	t.processorResponse = out.response()
	t.appendHistoryLocked("completed", fmt.Sprintf("reference %s", out.ReferenceCode))
	return nil
}

// MarkError moves the record to StatusError after an unrecoverable
// processor or transport fault. Transitions already applied are not rolled
// back; history keeps the progression that led here.
func (t *Transaction) MarkError(operation string, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.Terminal() {
		return
	}
	prior := t.status
	t.status = StatusError
	t.appendHistoryLocked("error", fmt.Sprintf("%s failed in status %s: %v", operation, prior, cause))
}

func (t *Transaction) transitionLocked(to Status) error {
	for _, allowed := range allowedTransitions[t.status] {
		if allowed == to {
			t.status = to
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s cannot move from %s to %s", ErrInvalidState, t.id, t.status, to)
}

// AppendHistory adds an audit entry outside of a state transition.
func (t *Transaction) AppendHistory(event, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appendHistoryLocked(event, detail)
}

func (t *Transaction) appendHistoryLocked(event, detail string) {
	t.history = append(t.history, HistoryEntry{
		Timestamp: time.Now(),
		Event:     event,
		Detail:    detail,
	})
}

// Snapshot returns a consistent, display-safe copy of the record.
func (t *Transaction) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	history := make([]HistoryEntry, len(t.history))
	copy(history, t.history)

	var response map[string]interface{}
	if t.processorResponse != nil {
		response = make(map[string]interface{}, len(t.processorResponse))
		for k, v := range t.processorResponse {
			response[k] = v
		}
	}

	return Snapshot{
		TransactionID:     t.id,
		CreatedAt:         t.createdAt,
		AmountMinor:       t.amountMinor,
		Currency:          t.currency,
		CardNumber:        t.maskedPAN,
		ExpiryDate:        t.expiryDate,
		CustomerID:        t.customerID,
		Processor:         t.processorName,
		Status:            t.status,
		VARSheet:          t.varSheet.clone(),
		ProcessorResponse: response,
		History:           history,
	}
}
