package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/pkg/logger"
	"github.com/edcsys/edc-gateway/pkg/retry"
)

// Credentials selects the auth scheme for a processor endpoint: a bearer
// token when set, otherwise basic auth when a username is present.
type Credentials struct {
	BearerToken string
	Username    string
	Password    string
}

// Request is one outbound processor call. The payload may contain the full
// PAN (authorize only); it is serialized onto the wire and never logged.
type Request struct {
	Endpoint    string
	Payload     interface{}
	Credentials Credentials
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Sender is the network collaborator processors talk through. Any HTTP
// status is a delivered Response; errors mean the endpoint could not be
// reached or timed out.
type Sender interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

type Config struct {
	Timeout     time.Duration
	MaxAttempts int
}

// HTTPClient sends JSON requests with a per-call deadline. Transient
// network faults are retried here, never by the registry: processor
// requests carry the transaction id as their reference, so a resend of
// the same request cannot double-charge.
type HTTPClient struct {
	client *http.Client
	cfg    Config
	logger *logger.Logger
}

func NewHTTPClient(cfg Config, log *logger.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	return &HTTPClient{
		client: &http.Client{},
		cfg:    cfg,
		logger: log,
	}
}

func (c *HTTPClient) Send(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", domain.ErrTransport, err)
	}

	var resp *Response
	attempt := func() error {
		var attemptErr error
		resp, attemptErr = c.send(ctx, req, body)
		return attemptErr
	}

	if c.cfg.MaxAttempts > 1 {
		err = retry.Do(ctx, attempt,
			retry.WithMaxAttempts(c.cfg.MaxAttempts),
			retry.WithBaseDelay(200*time.Millisecond),
		)
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *HTTPClient) send(ctx context.Context, req Request, body []byte) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, req.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	switch {
	case req.Credentials.BearerToken != "":
		httpReq.Header.Set("Authorization", "Bearer "+req.Credentials.BearerToken)
	case req.Credentials.Username != "":
		httpReq.SetBasicAuth(req.Credentials.Username, req.Credentials.Password)
	}

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn(ctx, "Processor endpoint unreachable",
			"endpoint", req.Endpoint,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransport, req.Endpoint, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response from %s: %v", domain.ErrTransport, req.Endpoint, err)
	}

	c.logger.Debug(ctx, "Processor call completed",
		"endpoint", req.Endpoint,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
	}, nil
}
