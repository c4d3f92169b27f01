package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
	"github.com/SscSPs/pos_ledger_engine/internal/handlers"
	"github.com/SscSPs/pos_ledger_engine/internal/middleware"
	"github.com/SscSPs/pos_ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testPrecision int32 = 2
	testActorID         = "cashier-1"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResult), args.Error(1)
}
func (m *MockLedgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) PostEntries(ctx context.Context, transactionID string, req dto.PostEntriesRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) TransitionTransaction(ctx context.Context, transactionID string, newStatus domain.TransactionStatus, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, newStatus, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) DeleteTransaction(ctx context.Context, transactionID string, actorID string) error {
	args := m.Called(ctx, transactionID, actorID)
	return args.Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock RegisterService ---
type MockRegisterService struct {
	mock.Mock
}

func (m *MockRegisterService) GetRegister(ctx context.Context, registerID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}
func (m *MockRegisterService) OpenRegister(ctx context.Context, registerID string, req dto.OpenRegisterRequest, actorID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}
func (m *MockRegisterService) RecordTender(ctx context.Context, registerID string, method domain.PaymentMethod, amount domain.Money, actorID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID, method, amount, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}
func (m *MockRegisterService) CloseRegister(ctx context.Context, registerID string, counted domain.Balances, actorID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID, counted, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

var _ portssvc.RegisterSvcFacade = (*MockRegisterService)(nil)

// --- Mock DiscrepancyService ---
type MockDiscrepancyService struct {
	mock.Mock
}

func (m *MockDiscrepancyService) ResolveDiscrepancy(ctx context.Context, registerID string, req dto.ResolveDiscrepancyRequest, approverID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID, req, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

var _ portssvc.DiscrepancySvcFacade = (*MockDiscrepancyService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Quote(ctx context.Context, req dto.CheckoutRequest) (*domain.SettlementOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementOutcome), args.Error(1)
}
func (m *MockSettlementService) Checkout(ctx context.Context, registerID string, req dto.CheckoutRequest, actorID string) (*dto.CheckoutResult, error) {
	args := m.Called(ctx, registerID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CheckoutResult), args.Error(1)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// handlerSuite wires a router with the real auth middleware in front of mocked services.
type handlerSuite struct {
	suite.Suite
	router          *gin.Engine
	jwtSecret       string
	mockLedger      *MockLedgerService
	mockRegisters   *MockRegisterService
	mockDiscrepancy *MockDiscrepancyService
	mockSettlements *MockSettlementService
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.router = gin.New()
	s.router.Use(middleware.AuthMiddleware(s.jwtSecret))

	s.mockLedger = new(MockLedgerService)
	s.mockRegisters = new(MockRegisterService)
	s.mockDiscrepancy = new(MockDiscrepancyService)
	s.mockSettlements = new(MockSettlementService)

	v1 := s.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, s.mockLedger, testPrecision)
	handlers.RegisterRegisterRoutes(v1, s.mockRegisters, s.mockDiscrepancy, testPrecision)
	handlers.RegisterSettlementRoutes(v1, s.mockSettlements, testPrecision)
}

func (s *handlerSuite) TearDownTest() {
	s.mockLedger.AssertExpectations(s.T())
	s.mockRegisters.AssertExpectations(s.T())
	s.mockDiscrepancy.AssertExpectations(s.T())
	s.mockSettlements.AssertExpectations(s.T())
}

// generateTestToken creates a signed JWT for the given actor.
func (s *handlerSuite) generateTestToken(actorID string) string {
	signed, err := utils.GenerateActorToken(actorID, s.jwtSecret, time.Hour, "pos-test")
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// do serves a request as testActorID. A nil body sends no payload.
func (s *handlerSuite) do(method, url string, body any, headers ...string) *httptest.ResponseRecorder {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, payload)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.generateTestToken(testActorID))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func strPtr(v string) *string {
	return &v
}
