package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edcsys/edc-gateway/internal/domain"
	"github.com/edcsys/edc-gateway/internal/service"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

type TransactionHandler struct {
	service service.EDCService
	logger  *logger.Logger
}

func NewTransactionHandler(svc service.EDCService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: svc,
		logger:  log,
	}
}

type authorizeRequest struct {
	Processor string `json:"processor"`
}

type reauthorizeRequest struct {
	AmountMinor int64 `json:"amount_minor"`
}

func (h *TransactionHandler) Capture(c echo.Context) error {
	ctx := c.Request().Context()

	var input domain.CaptureInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	snapshot, err := h.service.CaptureTransaction(ctx, input)
	if err != nil {
		return h.errorResponse(c, err, "failed to capture transaction")
	}

	return c.JSON(http.StatusCreated, snapshot)
}

func (h *TransactionHandler) Authorize(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req authorizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Processor == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "processor is required",
		})
	}

	snapshot, err := h.service.ProcessTransaction(ctx, id, req.Processor)
	if err != nil {
		return h.errorResponse(c, err, "failed to authorize transaction")
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *TransactionHandler) Reauthorize(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req reauthorizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	snapshot, err := h.service.ReauthorizeTransaction(ctx, id, req.AmountMinor)
	if err != nil {
		return h.errorResponse(c, err, "failed to re-authorize transaction")
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *TransactionHandler) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	snapshot, err := h.service.CompleteTransaction(ctx, id)
	if err != nil {
		return h.errorResponse(c, err, "failed to capture authorized transaction")
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *TransactionHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	snapshot, err := h.service.GetTransaction(ctx, id)
	if err != nil {
		return h.errorResponse(c, err, "failed to get transaction")
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *TransactionHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	snapshots := h.service.ListTransactions(ctx)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": snapshots,
		"total": len(snapshots),
	})
}

func (h *TransactionHandler) errorResponse(c echo.Context, err error, fallback string) error {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request().Context(), fallback, "error", err)
		return c.JSON(status, map[string]string{"error": fallback})
	}

	return c.JSON(status, map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownProcessor):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProcessor), errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
