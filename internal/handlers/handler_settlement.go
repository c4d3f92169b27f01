package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client's deduplication key for checkouts.
const IdempotencyKeyHeader = "Idempotency-Key"

type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
	precision         int32
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade, precision int32) *settlementHandler {
	return &settlementHandler{settlementService: ss, precision: precision}
}

// RegisterSettlementRoutes registers the quote and checkout routes.
func RegisterSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, precision int32) {
	h := newSettlementHandler(settlementService, precision)

	rg.POST("/settlements/quote", h.quote)
	rg.POST("/registers/:registerID/checkout", h.checkout)
}

// quote godoc
// @Summary Quote a settlement
// @Description Computes how a payment would be settled without applying it
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   checkout body dto.CheckoutBody true "Payment details"
// @Success 200 {object} dto.SettlementOutcomeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Insufficient payment"
// @Security BearerAuth
// @Router /settlements/quote [post]
func (h *settlementHandler) quote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var body dto.CheckoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for Quote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	req, err := body.ToRequest(h.precision, "")
	if err != nil {
		respondError(c, logger, err, "Failed to quote settlement", h.precision)
		return
	}

	outcome, err := h.settlementService.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to quote settlement", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementOutcomeResponse(*outcome, h.precision))
}

// checkout godoc
// @Summary Check out a sale
// @Description Settles a payment and records it in the ledger and the open register session
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Param   Idempotency-Key header string false "Deduplication key"
// @Param   checkout body dto.CheckoutBody true "Payment details"
// @Success 201 {object} dto.CheckoutResponse
// @Success 200 {object} dto.CheckoutResponse "Replay of an earlier checkout"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Register not open or key reused"
// @Failure 422 {object} map[string]string "Insufficient payment"
// @Security BearerAuth
// @Router /registers/{registerID}/checkout [post]
func (h *settlementHandler) checkout(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	var body dto.CheckoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for Checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	req, err := body.ToRequest(h.precision, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondError(c, logger, err, "Failed to check out", h.precision)
		return
	}

	result, err := h.settlementService.Checkout(c.Request.Context(), registerID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to check out", h.precision)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToCheckoutResponse(result, h.precision))
}
