package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	precision     int32
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade, precision int32) *transactionHandler {
	return &transactionHandler{ledgerService: ls, precision: precision}
}

// RegisterTransactionRoutes registers routes related to ledger transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, precision int32) {
	h := newTransactionHandler(ledgerService, precision)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.POST("/:transactionID/entries", h.postEntries)
		transactions.POST("/:transactionID/transition", h.transitionTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Create a ledger transaction
// @Description Creates an open transaction without journal entries
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionBody true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var body dto.CreateTransactionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	req, err := body.ToRequest(h.precision)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction", h.precision)
		return
	}

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction", h.precision)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn, h.precision))
}

// getTransaction godoc
// @Summary Get a ledger transaction
// @Description Retrieves a transaction with its journal entries in posting order
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "Failed to retrieve transaction", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, h.precision))
}

// listTransactions godoc
// @Summary List ledger transactions of a branch
// @Description Retrieves a page of transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   branchId query string true "Branch ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(result, h.precision))
}

// postEntries godoc
// @Summary Post journal entries
// @Description Appends journal entries to an open transaction; the transaction must stay balanced
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   entries body dto.PostEntriesBody true "Entries to post"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not open"
// @Failure 422 {object} map[string]string "Entries do not balance"
// @Security BearerAuth
// @Router /transactions/{transactionID}/entries [post]
func (h *transactionHandler) postEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	logger = logger.With(slog.String("transaction_id", transactionID))

	var body dto.PostEntriesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for PostEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	req, err := body.ToRequest(h.precision)
	if err != nil {
		respondError(c, logger, err, "Failed to post entries", h.precision)
		return
	}

	txn, err := h.ledgerService.PostEntries(c.Request.Context(), transactionID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entries", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, h.precision))
}

// transitionTransaction godoc
// @Summary Change a transaction's status
// @Description Moves a transaction through open, locked, verified and secure
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transition body dto.TransitionBody true "Target status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /transactions/{transactionID}/transition [post]
func (h *transactionHandler) transitionTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	logger = logger.With(slog.String("transaction_id", transactionID))

	var body dto.TransitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for TransitionTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	status, err := body.ToStatus()
	if err != nil {
		respondError(c, logger, err, "Failed to transition transaction", h.precision)
		return
	}

	txn, err := h.ledgerService.TransitionTransaction(c.Request.Context(), transactionID, status, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to transition transaction", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, h.precision))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction that has not been secured
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is secured"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	logger = logger.With(slog.String("transaction_id", transactionID))

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), transactionID, actorID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction", h.precision)
		return
	}

	c.Status(http.StatusNoContent)
}
