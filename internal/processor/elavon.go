package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/internal/transport"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

type ElavonConfig struct {
	APIURL   string
	Username string
	Password string
}

// Elavon uses basic auth and an order-shaped payload; results come back as
// words rather than codes. Follow-up operations reference the original
// transaction through original_reference_id.
type Elavon struct {
	cfg    ElavonConfig
	sender transport.Sender
	logger *logger.Logger
}

func NewElavon(cfg ElavonConfig, sender transport.Sender, log *logger.Logger) *Elavon {
	return &Elavon{
		cfg:    cfg,
		sender: sender,
		logger: log,
	}
}

func (p *Elavon) Name() string {
	return "elavon"
}

var elavonResults = map[string]bool{
	"APPROVAL": true,
	"DECLINE":  false,
	"DECLINED": false,
}

type elavonResponse struct {
	Result        string `json:"result"`
	TxnID         string `json:"txn_id"`
	ResultMessage string `json:"result_message"`
}

func (p *Elavon) Authorize(ctx context.Context, tx *domain.Transaction, card domain.CardCredentials) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Authorizing with Elavon", "amount_minor", tx.AmountMinor())

	payload := map[string]interface{}{
		"order_total":    tx.AmountMinor(),
		"currency":       tx.Currency(),
		"payment_method": "credit_card",
		"card": map[string]string{
			"number": card.Number,
			"expiry": tx.ExpiryDate(),
			"cvv":    card.CVV,
		},
		"reference_id": tx.ID(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL, payload)
}

func (p *Elavon) Reauthorize(ctx context.Context, tx *domain.Transaction, newAmountMinor int64) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Re-authorizing with Elavon", "new_amount_minor", newAmountMinor)

	payload := map[string]interface{}{
		"original_reference_id": tx.ID(),
		"order_total":           newAmountMinor,
		"currency":              tx.Currency(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL+"/reauthorize", payload)
}

func (p *Elavon) Capture(ctx context.Context, tx *domain.Transaction) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Capturing with Elavon")

	payload := map[string]interface{}{
		"original_reference_id": tx.ID(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL+"/capture", payload)
}

func (p *Elavon) call(ctx context.Context, endpoint string, payload map[string]interface{}) (*domain.Outcome, error) {
	resp, err := p.sender.Send(ctx, transport.Request{
		Endpoint: endpoint,
		Payload:  payload,
		Credentials: transport.Credentials{
			Username: p.cfg.Username,
			Password: p.cfg.Password,
		},
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: elavon returned HTTP %d", domain.ErrProcessor, resp.StatusCode)
	}

	var parsed elavonResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: elavon response not parseable: %v", domain.ErrProcessor, err)
	}

	approved, known := elavonResults[parsed.Result]
	if !known {
		return nil, fmt.Errorf("%w: elavon returned unknown result %q", domain.ErrProcessor, parsed.Result)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(resp.Body, &raw)

	return &domain.Outcome{
		Approved:      approved,
		ReferenceCode: parsed.TxnID,
		Message:       parsed.ResultMessage,
		Raw:           raw,
	}, nil
}
