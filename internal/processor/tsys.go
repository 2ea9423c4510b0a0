package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/internal/transport"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

type TSYSConfig struct {
	APIURL string
	APIKey string
}

// TSYS talks to the TSYS sandbox-style payments API: bearer-token auth,
// one base endpoint with /reauthorize and /capture sub-paths, and a
// single-letter response code.
type TSYS struct {
	cfg    TSYSConfig
	sender transport.Sender
	logger *logger.Logger
}

func NewTSYS(cfg TSYSConfig, sender transport.Sender, log *logger.Logger) *TSYS {
	return &TSYS{
		cfg:    cfg,
		sender: sender,
		logger: log,
	}
}

func (p *TSYS) Name() string {
	return "tsys"
}

// tsysResponseCodes maps TSYS response codes onto the approved/declined
// decision. Codes absent from the table are processor faults, not declines.
var tsysResponseCodes = map[string]bool{
	"A": true,  // approved
	"D": false, // declined
	"R": false, // referral, treated as decline
}

type tsysResponse struct {
	ResponseCode    string `json:"response_code"`
	ReferenceNumber string `json:"reference_number"`
	Message         string `json:"message"`
}

func (p *TSYS) Authorize(ctx context.Context, tx *domain.Transaction, card domain.CardCredentials) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Authorizing with TSYS", "amount_minor", tx.AmountMinor())

	payload := map[string]interface{}{
		"amount":         tx.AmountMinor(),
		"currency":       tx.Currency(),
		"card_number":    card.Number,
		"expiry_date":    tx.ExpiryDate(),
		"cvv":            card.CVV,
		"transaction_id": tx.ID(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL, payload)
}

func (p *TSYS) Reauthorize(ctx context.Context, tx *domain.Transaction, newAmountMinor int64) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Re-authorizing with TSYS", "new_amount_minor", newAmountMinor)

	payload := map[string]interface{}{
		"original_transaction_id": tx.ID(),
		"amount":                  newAmountMinor,
		"currency":                tx.Currency(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL+"/reauthorize", payload)
}

func (p *TSYS) Capture(ctx context.Context, tx *domain.Transaction) (*domain.Outcome, error) {
	p.logger.Info(ctx, "Capturing with TSYS")

	payload := map[string]interface{}{
		"original_transaction_id": tx.ID(),
	}
	if sheet := tx.VARSheet(); sheet != nil {
		payload["var_sheet"] = sheet
	}

	return p.call(ctx, p.cfg.APIURL+"/capture", payload)
}

func (p *TSYS) call(ctx context.Context, endpoint string, payload map[string]interface{}) (*domain.Outcome, error) {
	resp, err := p.sender.Send(ctx, transport.Request{
		Endpoint:    endpoint,
		Payload:     payload,
		Credentials: transport.Credentials{BearerToken: p.cfg.APIKey},
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: tsys returned HTTP %d", domain.ErrProcessor, resp.StatusCode)
	}

	var parsed tsysResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: tsys response not parseable: %v", domain.ErrProcessor, err)
	}

	approved, known := tsysResponseCodes[parsed.ResponseCode]
	if !known {
		return nil, fmt.Errorf("%w: tsys returned unknown response code %q", domain.ErrProcessor, parsed.ResponseCode)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(resp.Body, &raw)

	return &domain.Outcome{
		Approved:      approved,
		ReferenceCode: parsed.ReferenceNumber,
		Message:       parsed.Message,
		Raw:           raw,
	}, nil
}
