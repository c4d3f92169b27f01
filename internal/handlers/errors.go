package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps an engine error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrImmutableRecord),
		errors.Is(err, apperrors.ErrAlreadyOpen),
		errors.Is(err, apperrors.ErrNotOpen),
		errors.Is(err, apperrors.ErrConcurrentModification),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrImbalancedEntry),
		errors.Is(err, apperrors.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Internal failures are logged and their
// details hidden from the client. A payment shortfall is reported in major units.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string, precision int32) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
		return
	}

	logger.Warn(failureMsg, slog.Int("status", status), slog.String("error", err.Error()))
	body := gin.H{"error": err.Error()}
	var insufficient *apperrors.InsufficientPaymentError
	if errors.As(err, &insufficient) {
		body["shortfall"] = domain.Money(insufficient.Shortfall).Decimal(precision)
	}
	c.JSON(status, body)
}
