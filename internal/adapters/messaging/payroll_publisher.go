package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/metrics"
)

const breakerName = "payroll-publisher"

// messageWriter is the part of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BreakerConfig tunes the circuit breaker in front of the broker.
type BreakerConfig struct {
	MaxRequests      uint32        // requests let through while half-open
	Interval         time.Duration // closed-state count reset period, 0 never resets
	Timeout          time.Duration // open duration before probing again
	FailureThreshold uint32        // consecutive failures that trip the breaker
}

// DefaultBreakerConfig returns the settings used in production.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// PayrollPublisher sends salary deduction instructions to the payroll topic.
type PayrollPublisher struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ portssvc.PayrollCollaborator = (*PayrollPublisher)(nil)

// NewPayrollPublisher creates a publisher writing synchronously to topic on brokers.
func NewPayrollPublisher(brokers []string, topic string, cfg BreakerConfig, logger *slog.Logger, m *metrics.Metrics) *PayrollPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		Async:        false,
	}
	return newPayrollPublisher(writer, cfg, logger, m)
}

func newPayrollPublisher(writer messageWriter, cfg BreakerConfig, logger *slog.Logger, m *metrics.Metrics) *PayrollPublisher {
	p := &PayrollPublisher{writer: writer, logger: logger, metrics: m}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			m.SetCircuitBreakerState(name, float64(to))
		},
	})
	m.SetCircuitBreakerState(breakerName, float64(gobreaker.StateClosed))
	return p
}

// SubmitDeduction publishes the instruction keyed by employee, so one employee's deductions
// stay ordered on a partition.
func (p *PayrollPublisher) SubmitDeduction(ctx context.Context, instruction domain.PayrollInstruction) error {
	payload, err := json.Marshal(instruction)
	if err != nil {
		return fmt.Errorf("failed to marshal payroll instruction: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(instruction.EmployeeID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "instruction-id", Value: []byte(instruction.InstructionID)},
			{Key: "register-id", Value: []byte(instruction.RegisterID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: instruction.IssuedAt,
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		p.logger.Warn("Payroll publisher unavailable", slog.String("breaker", breakerName))
		return fmt.Errorf("%w: payroll publisher unavailable: %v", apperrors.ErrInternal, err)
	case err != nil:
		p.logger.Error("Failed to publish payroll instruction",
			slog.String("instruction_id", instruction.InstructionID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to publish payroll instruction %s: %w", instruction.InstructionID, err)
	}

	p.logger.Info("Payroll instruction published",
		slog.String("instruction_id", instruction.InstructionID),
		slog.String("employee_id", instruction.EmployeeID),
		slog.Int64("amount", int64(instruction.Amount)))
	return nil
}

// State reports the breaker state.
func (p *PayrollPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close flushes and closes the writer.
func (p *PayrollPublisher) Close() error {
	return p.writer.Close()
}
