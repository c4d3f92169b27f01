package services_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/stretchr/testify/suite"
)

type RegisterServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	engine     *engine
	registerID string
}

func (suite *RegisterServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.engine = newEngine(nil, nil, nil)
	suite.registerID = "till-1"
}

func (suite *RegisterServiceTestSuite) open(opening domain.Balances) *domain.Register {
	reg, err := suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{
		Name:           "Front till",
		BranchID:       "branch-1",
		OpeningBalance: opening,
	}, "cashier-1")
	suite.Require().NoError(err)
	return reg
}

func (suite *RegisterServiceTestSuite) TestOpenRegister() {
	opening := domain.Balances{domain.PaymentCash: 10000}
	reg := suite.open(opening)

	suite.True(reg.IsOpen)
	suite.Nil(reg.ClosedAt)
	suite.Equal("cashier-1", reg.OpenedBy)
	suite.Equal(opening, reg.CurrentBalance)
	suite.Equal(opening, reg.ExpectedBalance)

	// The session keeps its own copy of the opening balance.
	opening[domain.PaymentCash] = 1
	stored, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Equal(domain.Money(10000), stored.CurrentBalance[domain.PaymentCash])
}

func (suite *RegisterServiceTestSuite) TestOpenRegister_AlreadyOpen() {
	suite.open(nil)
	_, err := suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{BranchID: "branch-1"}, "cashier-2")
	suite.ErrorIs(err, apperrors.ErrAlreadyOpen)
}

func (suite *RegisterServiceTestSuite) TestOpenRegister_Validation() {
	_, err := suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{}, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{
		BranchID: "branch-1", OpeningBalance: domain.Balances{domain.PaymentCash: -5},
	}, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestRecordTender_KeepsBalanceInvariant() {
	suite.open(domain.Balances{domain.PaymentCash: 10000, domain.PaymentCard: 0})

	tenders := []struct {
		method domain.PaymentMethod
		amount domain.Money
	}{
		{domain.PaymentCash, 2500},
		{domain.PaymentCard, 4000},
		{domain.PaymentCash, -500},
		{domain.PaymentWave, 1200},
	}
	for _, tender := range tenders {
		_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, tender.method, tender.amount, "cashier-1")
		suite.Require().NoError(err)
	}

	reg, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Equal(domain.Money(12000), reg.CurrentBalance[domain.PaymentCash])
	suite.Equal(domain.Money(4000), reg.CurrentBalance[domain.PaymentCard])
	suite.Equal(domain.Money(1200), reg.CurrentBalance[domain.PaymentWave])
	suite.Equal(reg.CurrentBalance, reg.ExpectedBalance)
}

func (suite *RegisterServiceTestSuite) TestRecordTender_OverflowIsRejected() {
	suite.open(domain.Balances{domain.PaymentCash: math.MaxInt64 - 100})

	_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 101, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, domain.ErrMoneyOverflow)

	reg, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Equal(domain.Money(math.MaxInt64-100), reg.CurrentBalance[domain.PaymentCash])
	suite.Equal(reg.CurrentBalance, reg.ExpectedBalance)
}

func (suite *RegisterServiceTestSuite) TestRecordTender_NotOpen() {
	_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 100, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrNotOpen)

	suite.open(nil)
	_, err = suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{}, "cashier-1")
	suite.Require().NoError(err)
	_, err = suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 100, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrNotOpen)
}

func (suite *RegisterServiceTestSuite) TestRecordTender_Validation() {
	suite.open(nil)
	_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, "cheque", 100, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 0, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestRecordTender_ConcurrentTendersAllCount() {
	suite.open(domain.Balances{domain.PaymentCash: 0})

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 100, "cashier-1")
			suite.NoError(err)
		}()
	}
	wg.Wait()

	reg, err := suite.engine.registers.GetRegister(suite.ctx, suite.registerID)
	suite.Require().NoError(err)
	suite.Equal(domain.Money(workers*100), reg.CurrentBalance[domain.PaymentCash])
	suite.Equal(int64(1+workers), reg.Version)
}

func (suite *RegisterServiceTestSuite) TestCloseRegister_ComputesDiscrepancies() {
	suite.open(domain.Balances{domain.PaymentCash: 10000})

	closed, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{domain.PaymentCash: 9500}, "manager-1")
	suite.Require().NoError(err)

	suite.False(closed.IsOpen)
	suite.Require().NotNil(closed.ClosedAt)
	suite.Require().NotNil(closed.ClosedBy)
	suite.Equal("manager-1", *closed.ClosedBy)
	suite.Equal(domain.Balances{domain.PaymentCash: -500}, closed.Discrepancies)
	suite.Equal(domain.Balances{domain.PaymentCash: 9500}, closed.CurrentBalance)
	suite.True(closed.PendingResolution())
	suite.False(closed.Reconciled())
}

func (suite *RegisterServiceTestSuite) TestCloseRegister_NoDiscrepancyIsReconciled() {
	suite.open(domain.Balances{domain.PaymentCash: 10000})
	_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCard, 3000, "cashier-1")
	suite.Require().NoError(err)

	closed, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{
		domain.PaymentCash: 10000, domain.PaymentCard: 3000,
	}, "cashier-1")
	suite.Require().NoError(err)
	suite.Empty(closed.Discrepancies)
	suite.True(closed.Reconciled())
}

func (suite *RegisterServiceTestSuite) TestCloseRegister_MissingCountedMethodIsShortage() {
	suite.open(domain.Balances{domain.PaymentCash: 1000})
	_, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentMobile, 700, "cashier-1")
	suite.Require().NoError(err)

	closed, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{domain.PaymentCash: 1200}, "cashier-1")
	suite.Require().NoError(err)
	suite.Equal(domain.Balances{domain.PaymentCash: 200, domain.PaymentMobile: -700}, closed.Discrepancies)
}

func (suite *RegisterServiceTestSuite) TestCloseRegister_TwiceFails() {
	suite.open(nil)
	_, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{}, "cashier-1")
	suite.Require().NoError(err)
	_, err = suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{}, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrNotOpen)
}

func (suite *RegisterServiceTestSuite) TestReopen_StartsNewSession() {
	first := suite.open(domain.Balances{domain.PaymentCash: 500})
	_, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{domain.PaymentCash: 500}, "cashier-1")
	suite.Require().NoError(err)

	second := suite.open(domain.Balances{domain.PaymentCash: 800})
	suite.NotEqual(first.SessionID, second.SessionID)
	suite.True(second.IsOpen)
}

func (suite *RegisterServiceTestSuite) TestReopen_BlockedWhileResolutionPending() {
	suite.open(domain.Balances{domain.PaymentCash: 500})
	_, err := suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{domain.PaymentCash: 400}, "cashier-1")
	suite.Require().NoError(err)

	_, err = suite.engine.registers.OpenRegister(suite.ctx, suite.registerID, dto.OpenRegisterRequest{BranchID: "branch-1"}, "cashier-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestCloseWhileTendering_SeesEveryCommittedTender() {
	suite.open(domain.Balances{domain.PaymentCash: 0})

	var wg sync.WaitGroup
	var mu sync.Mutex
	recorded := domain.Money(0)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := suite.engine.registers.RecordTender(suite.ctx, suite.registerID, domain.PaymentCash, 100, "cashier-1"); err == nil {
				mu.Lock()
				recorded += 100
				mu.Unlock()
			}
		}()
	}
	var closed *domain.Register
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		closed, err = suite.engine.registers.CloseRegister(suite.ctx, suite.registerID, domain.Balances{}, "manager-1")
		suite.NoError(err)
	}()
	wg.Wait()

	// Tenders either landed before the close or were refused; the close saw all that landed.
	suite.Require().NotNil(closed)
	suite.Equal(recorded, closed.ExpectedBalance[domain.PaymentCash])
}

func TestRegisterService(t *testing.T) {
	suite.Run(t, new(RegisterServiceTestSuite))
}
