package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPayrollRepository records salary deductions in the payroll_adjustments table for the
// payroll system to pick up.
type PgxPayrollRepository struct {
	BaseRepository
}

func newPgxPayrollRepository(pool *pgxpool.Pool) *PgxPayrollRepository {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portssvc.PayrollCollaborator = (*PgxPayrollRepository)(nil)

func (r *PgxPayrollRepository) SubmitDeduction(ctx context.Context, instruction domain.PayrollInstruction) error {
	m := mapping.ToModelPayrollAdjustment(instruction)
	query := `
		INSERT INTO payroll_adjustments (instruction_id, register_id, session_id, employee_id, amount,
		                                 reason, notes, approved_by, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.InstructionID,
		m.RegisterID,
		m.SessionID,
		m.EmployeeID,
		m.Amount,
		m.Reason,
		m.Notes,
		m.ApprovedBy,
		m.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payroll instruction %s", apperrors.ErrDuplicate, m.InstructionID)
		}
		return apperrors.NewAppError(500, "failed to record payroll adjustment", err)
	}
	return nil
}
