package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DiscrepancyServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	mockPerms   *MockPermissionChecker
	mockPayroll *MockPayrollCollaborator
	engine      *engine
	registerID  string
}

func (suite *DiscrepancyServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockPerms = new(MockPermissionChecker)
	suite.mockPayroll = new(MockPayrollCollaborator)
	suite.engine = newEngine(suite.mockPerms, suite.mockPayroll, nil)
	suite.registerID = "till-7"
}

func (suite *DiscrepancyServiceTestSuite) TearDownTest() {
	suite.mockPerms.AssertExpectations(suite.T())
	suite.mockPayroll.AssertExpectations(suite.T())
}

// closeWith opens the register with opening, then closes it against counted.
func (suite *DiscrepancyServiceTestSuite) closeWith(opening, counted domain.Balances) *domain.Register {
	_, err := suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{
		BranchID: "branch-1", OpeningBalance: opening,
	}, "cashier-9")
	suite.Require().NoError(err)
	closed, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, counted, "cashier-9")
	suite.Require().NoError(err)
	return closed
}

func (suite *DiscrepancyServiceTestSuite) allow(actorID string) {
	suite.mockPerms.On("HasPermission", mock.Anything, actorID, domain.CapabilityApproveDiscrepancy).Return(true, nil)
}

func (suite *DiscrepancyServiceTestSuite) TestPermissionDenied_LeavesSessionUnresolved() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 10000}, domain.Balances{domain.PaymentCash: 9500})
	suite.mockPerms.On("HasPermission", mock.Anything, "clerk-1", domain.CapabilityApproveDiscrepancy).Return(false, nil)

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "clerk-1")
	suite.ErrorIs(err, apperrors.ErrPermissionDenied)

	session, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Nil(session.DiscrepancyResolution)
	suite.True(session.PendingResolution())
}

func (suite *DiscrepancyServiceTestSuite) TestPermissionLookupError() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 100}, domain.Balances{domain.PaymentCash: 50})
	suite.mockPerms.On("HasPermission", mock.Anything, "manager-1", domain.CapabilityApproveDiscrepancy).
		Return(false, errors.New("directory unavailable"))

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "manager-1")
	suite.Error(err)

	session, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Nil(session.DiscrepancyResolution)
}

func (suite *DiscrepancyServiceTestSuite) TestUnknownResolution() {
	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: "forgive",
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DiscrepancyServiceTestSuite) TestDeductSalary_SubmitsInstruction() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 10000}, domain.Balances{domain.PaymentCash: 9500})
	suite.allow("manager-1")
	suite.mockPayroll.On("SubmitDeduction", mock.Anything, mock.MatchedBy(func(in domain.PayrollInstruction) bool {
		return in.EmployeeID == "cashier-9" &&
			in.Amount == 500 &&
			in.RegisterID == suite.registerID &&
			in.ApprovedBy == "manager-1" &&
			in.Notes == "second offence"
	})).Return(nil).Once()

	resolved, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionDeductSalary,
		Notes:      "second offence",
	}, "manager-1")
	suite.Require().NoError(err)

	suite.Require().NotNil(resolved.DiscrepancyResolution)
	suite.Equal(domain.ResolutionDeductSalary, *resolved.DiscrepancyResolution)
	suite.Equal("manager-1", *resolved.DiscrepancyApprovedBy)
	suite.NotNil(resolved.DiscrepancyApprovedAt)
	suite.Equal("second offence", *resolved.DiscrepancyNotes)
	suite.Nil(resolved.DiscrepancyTransactionID)
	suite.True(resolved.Reconciled())
}

func (suite *DiscrepancyServiceTestSuite) TestDeductSalary_OverageOnlyIsRejected() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 10000}, domain.Balances{domain.PaymentCash: 10300})
	suite.allow("manager-1")

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionDeductSalary,
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPayroll.AssertNotCalled(suite.T(), "SubmitDeduction", mock.Anything, mock.Anything)
}

func (suite *DiscrepancyServiceTestSuite) TestDeductSalary_PayrollFailureRollsBack() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 10000}, domain.Balances{domain.PaymentCash: 9000})
	suite.allow("manager-1")
	suite.mockPayroll.On("SubmitDeduction", mock.Anything, mock.Anything).Return(errors.New("payroll offline")).Once()

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionDeductSalary,
	}, "manager-1")
	suite.Error(err)

	session, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Nil(session.DiscrepancyResolution)
	suite.True(session.PendingResolution())
}

func (suite *DiscrepancyServiceTestSuite) TestEcartCaisse_PostsBalancedVarianceTransaction() {
	suite.closeWith(
		domain.Balances{domain.PaymentCash: 10000, domain.PaymentCard: 5000},
		domain.Balances{domain.PaymentCash: 9500, domain.PaymentCard: 5200},
	)
	suite.allow("manager-1")

	resolved, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionEcartCaisse,
	}, "manager-1")
	suite.Require().NoError(err)
	suite.Require().NotNil(resolved.DiscrepancyTransactionID)

	txn, err := suite.engine.ledger.GetTransaction(suite.ctx, *resolved.DiscrepancyTransactionID)
	suite.Require().NoError(err)
	suite.True(txn.IsBalanced())
	suite.Len(txn.Entries, 4)
	suite.Equal(domain.Money(700), txn.Amount)
	suite.Equal(domain.TransactionExpense, txn.Type)
	suite.Equal(domain.PaymentCash, txn.PaymentMethod)
	suite.Require().NotNil(txn.RegisterID)
	suite.Equal(suite.registerID, *txn.RegisterID)

	var varianceDebit, varianceCredit domain.Money
	for _, e := range txn.Entries {
		if e.AccountType != domain.AccountCashVariance {
			continue
		}
		if e.IsDebit {
			varianceDebit += e.Amount
		} else {
			varianceCredit += e.Amount
		}
	}
	suite.Equal(domain.Money(500), varianceDebit)
	suite.Equal(domain.Money(200), varianceCredit)
}

func (suite *DiscrepancyServiceTestSuite) TestEcartCaisse_NetOverageIsIncome() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 1000}, domain.Balances{domain.PaymentCash: 1400})
	suite.allow("manager-1")

	resolved, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionEcartCaisse,
	}, "manager-1")
	suite.Require().NoError(err)

	txn, err := suite.engine.ledger.GetTransaction(suite.ctx, *resolved.DiscrepancyTransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.TransactionIncome, txn.Type)
	suite.True(txn.IsBalanced())

	err = suite.engine.ledger.DeleteTransaction(suite.ctx, txn.TransactionID, "manager-1")
	suite.ErrorIs(err, apperrors.ErrImmutableRecord)
}

func (suite *DiscrepancyServiceTestSuite) TestApproved_RecordsOnly() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 1000}, domain.Balances{domain.PaymentCash: 990})
	suite.allow("manager-1")

	resolved, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
		Notes:      "  rounding  ",
	}, "manager-1")
	suite.Require().NoError(err)
	suite.Equal(domain.ResolutionApproved, *resolved.DiscrepancyResolution)
	suite.Equal("rounding", *resolved.DiscrepancyNotes)
	suite.Nil(resolved.DiscrepancyTransactionID)

	// A resolved session no longer blocks the register.
	_, err = suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{BranchID: "branch-1"}, "cashier-9")
	suite.NoError(err)
}

func (suite *DiscrepancyServiceTestSuite) TestAlreadyResolved() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 1000}, domain.Balances{domain.PaymentCash: 990})
	suite.allow("manager-1")

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "manager-1")
	suite.Require().NoError(err)

	_, err = suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionEcartCaisse,
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrImmutableRecord)
}

func (suite *DiscrepancyServiceTestSuite) TestOpenSessionCannotBeResolved() {
	_, err := suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{BranchID: "branch-1"}, "cashier-9")
	suite.Require().NoError(err)
	suite.allow("manager-1")

	_, err = suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DiscrepancyServiceTestSuite) TestNoDiscrepancies() {
	suite.closeWith(domain.Balances{domain.PaymentCash: 1000}, domain.Balances{domain.PaymentCash: 1000})
	suite.allow("manager-1")

	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, suite.registerID, dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DiscrepancyServiceTestSuite) TestUnknownRegister() {
	suite.allow("manager-1")
	_, err := suite.engine.discrepancies.ResolveDiscrepancy(suite.ctx, "ghost", dto.ResolveDiscrepancyRequest{
		Resolution: domain.ResolutionApproved,
	}, "manager-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestDiscrepancyService(t *testing.T) {
	suite.Run(t, new(DiscrepancyServiceTestSuite))
}
