package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcsys/edc-gateway/internal/config"
	"github.com/edcsys/edc-gateway/internal/eventbus"
	"github.com/edcsys/edc-gateway/internal/handler"
	"github.com/edcsys/edc-gateway/internal/processor"
	"github.com/edcsys/edc-gateway/internal/server"
	"github.com/edcsys/edc-gateway/internal/service"
	"github.com/edcsys/edc-gateway/internal/storage"
	"github.com/edcsys/edc-gateway/internal/transport"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

const (
	testPAN = "4111111111111111"
	testCVV = "321"
)

// processorStub plays the TSYS sandbox: it records every request it
// receives and answers with a canned response code.
type processorStub struct {
	mu       sync.Mutex
	requests []stubRequest

	responseCode string
	statusCode   int
}

type stubRequest struct {
	path    string
	auth    string
	payload map[string]interface{}
}

func (s *processorStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		s.mu.Lock()
		s.requests = append(s.requests, stubRequest{
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			payload: payload,
		})
		s.mu.Unlock()

		w.WriteHeader(s.statusCode)
		fmt.Fprintf(w, `{"response_code":%q,"reference_number":"TS-IT-%d","message":"ok"}`, s.responseCode, len(s.requests))
	}
}

func (s *processorStub) recorded() []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubRequest(nil), s.requests...)
}

func setupTestServer(t *testing.T, stub *processorStub) *httptest.Server {
	t.Helper()

	backend := httptest.NewServer(stub.handler())
	t.Cleanup(backend.Close)

	cfg := &config.Config{}
	cfg.Processors.TSYS = config.TSYSConfig{
		APIURL: backend.URL,
		APIKey: "test-key",
	}

	log := logger.NewNop()

	store := storage.NewMemoryStore()
	vault := storage.NewCardVault()
	bus := eventbus.New(log, nil)

	sender := transport.NewHTTPClient(transport.Config{}, log)
	tsys := processor.NewTSYS(processor.TSYSConfig{
		APIURL: cfg.Processors.TSYS.APIURL,
		APIKey: cfg.Processors.TSYS.APIKey,
	}, sender, log)

	svc := service.NewEDCService(store, vault, bus, log, tsys)

	srv := server.New(cfg, log, handler.NewTransactionHandler(svc, log), handler.NewHealthHandler())

	api := httptest.NewServer(srv.Handler())
	t.Cleanup(api.Close)
	return api
}

func postJSON(t *testing.T, url string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func captureBody() map[string]interface{} {
	return map[string]interface{}{
		"amount_minor": 10000,
		"currency":     "USD",
		"card": map[string]string{
			"number": testPAN,
			"expiry": "12/27",
			"cvv":    testCVV,
		},
		"customer_id": "cust-42",
	}
}

func TestTransactionFlow(t *testing.T) {
	stub := &processorStub{responseCode: "A", statusCode: http.StatusOK}
	api := setupTestServer(t, stub)

	// Capture.
	resp, body := postJSON(t, api.URL+"/transactions", captureBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var tx map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &tx))
	id := tx["transaction_id"].(string)
	assert.Equal(t, "CAPTURED", tx["status"])
	assert.Equal(t, "411111******1111", tx["card_number"])
	assert.NotContains(t, string(body), testPAN)
	assert.NotContains(t, string(body), `"cvv"`)

	// Authorize.
	resp, body = postJSON(t, api.URL+"/transactions/"+id+"/authorize", map[string]string{"processor": "tsys"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "AUTHORIZED", tx["status"])
	assert.Equal(t, "tsys", tx["processor"])
	assert.NotContains(t, string(body), testPAN)

	// The processor saw the real card data even though no API response
	// ever contains it.
	recorded := stub.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "Bearer test-key", recorded[0].auth)
	assert.Equal(t, testPAN, recorded[0].payload["card_number"])
	assert.Equal(t, testCVV, recorded[0].payload["cvv"])
	assert.Equal(t, id, recorded[0].payload["transaction_id"])

	// Re-authorize for a higher amount.
	resp, body = postJSON(t, api.URL+"/transactions/"+id+"/reauthorize", map[string]int64{"amount_minor": 15000})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "REAUTHORIZED", tx["status"])
	assert.Equal(t, float64(15000), tx["amount_minor"])

	recorded = stub.recorded()
	require.Len(t, recorded, 2)
	assert.True(t, strings.HasSuffix(recorded[1].path, "/reauthorize"))
	assert.Equal(t, id, recorded[1].payload["original_transaction_id"])
	assert.NotContains(t, recorded[1].payload, "card_number")
	assert.NotContains(t, recorded[1].payload, "cvv")

	// Capture the authorized amount.
	resp, body = postJSON(t, api.URL+"/transactions/"+id+"/capture", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "COMPLETED", tx["status"])

	recorded = stub.recorded()
	require.Len(t, recorded, 3)
	assert.True(t, strings.HasSuffix(recorded[2].path, "/capture"))

	// The transaction is settled; a second capture conflicts.
	resp, _ = postJSON(t, api.URL+"/transactions/"+id+"/capture", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Read it back.
	resp, body = getJSON(t, api.URL+"/transactions/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "COMPLETED", tx["status"])
	assert.NotContains(t, string(body), testPAN)

	history := tx["history"].([]interface{})
	events := make([]string, 0, len(history))
	for _, h := range history {
		events = append(events, h.(map[string]interface{})["event"].(string))
	}
	assert.Equal(t, []string{"captured", "authorized", "reauthorized", "completed"}, events)

	resp, body = getJSON(t, api.URL+"/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, float64(1), list["total"])
}

func TestTransactionFlow_Declined(t *testing.T) {
	stub := &processorStub{responseCode: "D", statusCode: http.StatusOK}
	api := setupTestServer(t, stub)

	_, body := postJSON(t, api.URL+"/transactions", captureBody())
	var tx map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &tx))
	id := tx["transaction_id"].(string)

	resp, body := postJSON(t, api.URL+"/transactions/"+id+"/authorize", map[string]string{"processor": "tsys"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "FAILED", tx["status"])

	// Failed is terminal.
	resp, _ = postJSON(t, api.URL+"/transactions/"+id+"/reauthorize", map[string]int64{"amount_minor": 15000})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTransactionFlow_ProcessorBackendDown(t *testing.T) {
	stub := &processorStub{responseCode: "A", statusCode: http.StatusServiceUnavailable}
	api := setupTestServer(t, stub)

	_, body := postJSON(t, api.URL+"/transactions", captureBody())
	var tx map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &tx))
	id := tx["transaction_id"].(string)

	resp, _ := postJSON(t, api.URL+"/transactions/"+id+"/authorize", map[string]string{"processor": "tsys"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	_, body = getJSON(t, api.URL+"/transactions/"+id)
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "ERROR", tx["status"])
}

func TestTransactionFlow_UnknownProcessor(t *testing.T) {
	stub := &processorStub{responseCode: "A", statusCode: http.StatusOK}
	api := setupTestServer(t, stub)

	_, body := postJSON(t, api.URL+"/transactions", captureBody())
	var tx map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &tx))
	id := tx["transaction_id"].(string)

	resp, _ := postJSON(t, api.URL+"/transactions/"+id+"/authorize", map[string]string{"processor": "stripe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Still authorizable with a known processor.
	resp, body = postJSON(t, api.URL+"/transactions/"+id+"/authorize", map[string]string{"processor": "tsys"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "AUTHORIZED", tx["status"])
}

func TestTransactionFlow_ValidationRejected(t *testing.T) {
	stub := &processorStub{responseCode: "A", statusCode: http.StatusOK}
	api := setupTestServer(t, stub)

	payload := captureBody()
	payload["amount_minor"] = -500

	resp, _ := postJSON(t, api.URL+"/transactions", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body := getJSON(t, api.URL+"/transactions")
	var list map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, float64(0), list["total"])
}

func TestTraceIDHeader(t *testing.T) {
	stub := &processorStub{responseCode: "A", statusCode: http.StatusOK}
	api := setupTestServer(t, stub)

	req, err := http.NewRequest(http.MethodGet, api.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Trace-ID", "trace-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "trace-123", resp.Header.Get("X-Trace-ID"))

	// A missing trace id is generated server-side.
	resp2, err := http.Get(api.URL + "/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get("X-Trace-ID"))
}
