package domain

import "context"

// Outcome is the normalized result of a processor call. A business decline
// is a normal Outcome with Approved false, never an error; errors are
// reserved for transport and processor-side faults.
type Outcome struct {
	Approved      bool
	ReferenceCode string
	Message       string
	Raw           map[string]interface{}
}

func (o *Outcome) response() map[string]interface{} {
	resp := map[string]interface{}{
		"approved":       o.Approved,
		"reference_code": o.ReferenceCode,
	}
	if o.Message != "" {
		resp["message"] = o.Message
	}
	if len(o.Raw) > 0 {
		resp["raw"] = o.Raw
	}
	return resp
}

// Processor is the capability every payment backend implements. Adding a
// backend means implementing this interface and registering it by name;
// the registry and transaction logic need no changes.
//
// Authorize receives the card credentials separately from the record: the
// record only ever holds the masked PAN. Reauthorize and Capture operate
// on the standing authorization and reference the original transaction id,
// so they never see card credentials at all.
type Processor interface {
	Name() string
	Authorize(ctx context.Context, tx *Transaction, card CardCredentials) (*Outcome, error)
	Reauthorize(ctx context.Context, tx *Transaction, newAmountMinor int64) (*Outcome, error)
	Capture(ctx context.Context, tx *Transaction) (*Outcome, error)
}
