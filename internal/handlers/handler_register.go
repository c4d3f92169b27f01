package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registerHandler handles HTTP requests for register sessions and their reconciliation.
type registerHandler struct {
	registerService    portssvc.RegisterSvcFacade
	discrepancyService portssvc.DiscrepancySvcFacade
	precision          int32
}

func newRegisterHandler(rs portssvc.RegisterSvcFacade, ds portssvc.DiscrepancySvcFacade, precision int32) *registerHandler {
	return &registerHandler{registerService: rs, discrepancyService: ds, precision: precision}
}

// RegisterRegisterRoutes registers routes for the register session lifecycle.
func RegisterRegisterRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade, discrepancyService portssvc.DiscrepancySvcFacade, precision int32) {
	h := newRegisterHandler(registerService, discrepancyService, precision)

	registers := rg.Group("/registers/:registerID")
	{
		registers.GET("", h.getRegister)
		registers.POST("/open", h.openRegister)
		registers.POST("/tenders", h.recordTender)
		registers.POST("/close", h.closeRegister)
		registers.POST("/discrepancy", h.resolveDiscrepancy)
	}
}

// actorOrAbort returns the authenticated actor or writes a 401.
func actorOrAbort(c *gin.Context, logger *slog.Logger) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// getRegister godoc
// @Summary Get a register
// @Description Retrieves the latest session of a register
// @Tags registers
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} map[string]string "Register not found"
// @Security BearerAuth
// @Router /registers/{registerID} [get]
func (h *registerHandler) getRegister(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	reg, err := h.registerService.GetRegister(c.Request.Context(), registerID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve register", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(reg, h.precision))
}

// openRegister godoc
// @Summary Open a register
// @Description Starts a new session with the given opening balances
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Param   register body dto.OpenRegisterBody true "Opening details"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input or pending discrepancy resolution"
// @Failure 409 {object} map[string]string "Register already open"
// @Security BearerAuth
// @Router /registers/{registerID}/open [post]
func (h *registerHandler) openRegister(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	var body dto.OpenRegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for OpenRegister", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	req, err := body.ToRequest(h.precision)
	if err != nil {
		respondError(c, logger, err, "Failed to open register", h.precision)
		return
	}

	reg, err := h.registerService.OpenRegister(c.Request.Context(), registerID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to open register", h.precision)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRegisterResponse(reg, h.precision))
}

// recordTender godoc
// @Summary Record a tender movement
// @Description Adds a signed amount to the open session's balances for one payment method
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Param   tender body dto.RecordTenderBody true "Tender movement"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Register not open"
// @Security BearerAuth
// @Router /registers/{registerID}/tenders [post]
func (h *registerHandler) recordTender(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	var body dto.RecordTenderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for RecordTender", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	method, amount, err := body.ToTender(h.precision)
	if err != nil {
		respondError(c, logger, err, "Failed to record tender", h.precision)
		return
	}

	reg, err := h.registerService.RecordTender(c.Request.Context(), registerID, method, amount, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to record tender", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(reg, h.precision))
}

// closeRegister godoc
// @Summary Close a register
// @Description Closes the open session and records counting discrepancies
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Param   counted body dto.CloseRegisterBody true "Counted balances"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Register not open"
// @Security BearerAuth
// @Router /registers/{registerID}/close [post]
func (h *registerHandler) closeRegister(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	var body dto.CloseRegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for CloseRegister", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	counted, err := body.ToCounted(h.precision)
	if err != nil {
		respondError(c, logger, err, "Failed to close register", h.precision)
		return
	}

	reg, err := h.registerService.CloseRegister(c.Request.Context(), registerID, counted, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to close register", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(reg, h.precision))
}

// resolveDiscrepancy godoc
// @Summary Resolve register discrepancies
// @Description Disposes of a closed session's discrepancies by salary deduction, ecart de caisse or approval
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   registerID path string true "Register ID"
// @Param   resolution body dto.ResolveDiscrepancyBody true "Resolution"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input or nothing to resolve"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Already resolved"
// @Security BearerAuth
// @Router /registers/{registerID}/discrepancy [post]
func (h *registerHandler) resolveDiscrepancy(c *gin.Context) {
	registerID := c.Param("registerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("register_id", registerID))

	var body dto.ResolveDiscrepancyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for ResolveDiscrepancy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	reg, err := h.discrepancyService.ResolveDiscrepancy(c.Request.Context(), registerID, body.ToRequest(), approverID)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve discrepancy", h.precision)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(reg, h.precision))
}
