package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Permissions portssvc.PermissionChecker
	Metrics     *metrics.Metrics
	// Now returns the current time; tests may pin it.
	Now func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequireCapability fails with apperrors.ErrPermissionDenied unless the actor holds capability.
// Without a permission checker every gated call is denied.
func (s *BaseService) RequireCapability(ctx context.Context, actorID string, capability domain.Capability) error {
	if s.Permissions == nil {
		s.LogWarn(ctx, "No permission checker configured, denying gated operation",
			slog.String("actor_id", actorID),
			slog.String("capability", string(capability)))
		return fmt.Errorf("%w: %s", apperrors.ErrPermissionDenied, capability)
	}

	allowed, err := s.Permissions.HasPermission(ctx, actorID, capability)
	if err != nil {
		s.LogError(ctx, err, "Permission lookup failed",
			slog.String("actor_id", actorID),
			slog.String("capability", string(capability)))
		return fmt.Errorf("checking capability %s: %w", capability, err)
	}
	if !allowed {
		s.LogWarn(ctx, "Permission denied",
			slog.String("actor_id", actorID),
			slog.String("capability", string(capability)))
		return fmt.Errorf("%w: actor %s lacks %s", apperrors.ErrPermissionDenied, actorID, capability)
	}
	return nil
}

// ServiceOption is a functional option applied to the BaseService embedded in every service
type ServiceOption func(*BaseService)

// WithPermissionChecker sets the capability lookup used by gated operations
func WithPermissionChecker(checker portssvc.PermissionChecker) ServiceOption {
	return func(s *BaseService) {
		s.Permissions = checker
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Now = now
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}
