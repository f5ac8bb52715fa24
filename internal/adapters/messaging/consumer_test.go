package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockMovementFacade is a mock type for the MovementSvcFacade interface
type MockMovementFacade struct {
	mock.Mock
}

func (m *MockMovementFacade) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) GetMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) CreateMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) UpdateMovement(ctx context.Context, movementID string, movement domain.Movement) (*domain.Movement, error) {
	args := m.Called(ctx, movementID, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) DeleteMovement(ctx context.Context, movementID string) error {
	args := m.Called(ctx, movementID)
	return args.Error(0)
}

func (m *MockMovementFacade) ListMovementsByClient(ctx context.Context, clientID string) ([]domain.Movement, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) ListMovementsByProductAndDateRange(ctx context.Context, productID string, from, to time.Time) ([]domain.Movement, error) {
	args := m.Called(ctx, productID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementFacade) Transfer(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error {
	args := m.Called(ctx, fromProductID, toProductID, amount)
	return args.Error(0)
}

func (m *MockMovementFacade) TransferWithIdempotencyKey(ctx context.Context, idempotencyKey, fromProductID, toProductID string, amount decimal.Decimal) error {
	args := m.Called(ctx, idempotencyKey, fromProductID, toProductID, amount)
	return args.Error(0)
}

func (m *MockMovementFacade) PayThirdParty(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error {
	args := m.Called(ctx, fromProductID, toProductID, amount)
	return args.Error(0)
}

// MockWalletDirectory is a mock type for the WalletDirectory interface
type MockWalletDirectory struct {
	mock.Mock
}

func (m *MockWalletDirectory) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

// fakeDelivery records how the consumer settled a message.
type fakeDelivery struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (d *fakeDelivery) Ack(bool) error {
	d.acked = true
	return nil
}

func (d *fakeDelivery) Nack(_ bool, requeue bool) error {
	d.nacked = true
	d.requeue = requeue
	return nil
}

// --- Test Suite Setup ---

type ConsumerTestSuite struct {
	suite.Suite
	mockMovements *MockMovementFacade
	mockWallets   *MockWalletDirectory
	consumer      *Consumer
}

func (suite *ConsumerTestSuite) SetupTest() {
	suite.mockMovements = new(MockMovementFacade)
	suite.mockWallets = new(MockWalletDirectory)
	suite.consumer = NewConsumer(suite.mockMovements, suite.mockWallets, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- Settlement policy ---

func (suite *ConsumerTestSuite) TestProcess_AcksOnSuccess() {
	d := &fakeDelivery{}
	suite.consumer.process(context.Background(), "q", nil, d, func(context.Context, []byte) error {
		return nil
	})
	suite.True(d.acked)
	suite.False(d.nacked)
}

func (suite *ConsumerTestSuite) TestProcess_AcksDuplicates() {
	d := &fakeDelivery{}
	suite.consumer.process(context.Background(), "q", nil, d, func(context.Context, []byte) error {
		return apperrors.ErrDuplicate
	})
	suite.True(d.acked)
	suite.False(d.nacked)
}

func (suite *ConsumerTestSuite) TestProcess_RequeuesWhenRemoteUnavailable() {
	d := &fakeDelivery{}
	suite.consumer.process(context.Background(), "q", nil, d, func(context.Context, []byte) error {
		return apperrors.ErrRemoteUnavailable
	})
	suite.False(d.acked)
	suite.True(d.nacked)
	suite.True(d.requeue)
}

func (suite *ConsumerTestSuite) TestProcess_AcksTerminalBusinessFailures() {
	for _, err := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrInsufficientFunds,
		errors.New("something else"),
	} {
		d := &fakeDelivery{}
		suite.consumer.process(context.Background(), "q", nil, d, func(context.Context, []byte) error {
			return err
		})
		suite.True(d.acked, "error %v must be acked and dropped", err)
		suite.False(d.nacked)
	}
}

// --- Wallet transfer events ---

func (suite *ConsumerTestSuite) TestHandleWalletTransfer_CallsTransfer() {
	body := []byte(`{"fromCard":"card-1","toCard":"card-2","amount":"12.50"}`)
	suite.mockMovements.On("Transfer", mock.Anything, "card-1", "card-2",
		mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.RequireFromString("12.50")) })).
		Return(nil).Once()

	err := suite.consumer.HandleWalletTransfer(context.Background(), body)

	suite.Require().NoError(err)
	suite.mockMovements.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestHandleWalletTransfer_RejectsUndecodableBody() {
	err := suite.consumer.HandleWalletTransfer(context.Background(), []byte(`{not json`))
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovements.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConsumerTestSuite) TestHandleWalletTransfer_RejectsMissingCards() {
	err := suite.consumer.HandleWalletTransfer(context.Background(), []byte(`{"amount":"10"}`))
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovements.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Exchange transaction events ---

func (suite *ConsumerTestSuite) TestHandleExchangeTransaction_WalletMethod() {
	body := []byte(`{"transactionId":"txn-7","buyerWalletId":"w-buyer","sellerWalletId":"w-seller","amount":"30","transferMethod":"WALLET"}`)

	suite.mockWallets.On("GetWallet", mock.Anything, "w-buyer").
		Return(&domain.Wallet{ID: "w-buyer", AssociatedWalletID: "prod-buyer"}, nil).Once()
	suite.mockWallets.On("GetWallet", mock.Anything, "w-seller").
		Return(&domain.Wallet{ID: "w-seller", AssociatedWalletID: "prod-seller"}, nil).Once()
	suite.mockMovements.On("TransferWithIdempotencyKey", mock.Anything, "txn-7", "prod-buyer", "prod-seller",
		mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(30)) })).
		Return(nil).Once()

	err := suite.consumer.HandleExchangeTransaction(context.Background(), body)

	suite.Require().NoError(err)
	suite.mockMovements.AssertExpectations(suite.T())
	suite.mockWallets.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestHandleExchangeTransaction_AccountMethodUsesAccountProducts() {
	body := []byte(`{"transactionId":"txn-8","buyerWalletId":"w-buyer","sellerWalletId":"w-seller","amount":"30","transferMethod":"ACCOUNT"}`)

	suite.mockWallets.On("GetWallet", mock.Anything, "w-buyer").
		Return(&domain.Wallet{ID: "w-buyer", AssociatedWalletID: "prod-w1", AssociatedAccountID: "prod-a1"}, nil).Once()
	suite.mockWallets.On("GetWallet", mock.Anything, "w-seller").
		Return(&domain.Wallet{ID: "w-seller", AssociatedWalletID: "prod-w2", AssociatedAccountID: "prod-a2"}, nil).Once()
	suite.mockMovements.On("TransferWithIdempotencyKey", mock.Anything, "txn-8", "prod-a1", "prod-a2", mock.Anything).
		Return(nil).Once()

	err := suite.consumer.HandleExchangeTransaction(context.Background(), body)

	suite.Require().NoError(err)
	suite.mockMovements.AssertExpectations(suite.T())
}

func (suite *ConsumerTestSuite) TestHandleExchangeTransaction_RejectsUnknownMethod() {
	body := []byte(`{"transactionId":"txn-9","buyerWalletId":"w-buyer","sellerWalletId":"w-seller","amount":"30","transferMethod":"CASH"}`)

	err := suite.consumer.HandleExchangeTransaction(context.Background(), body)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockWallets.AssertNotCalled(suite.T(), "GetWallet", mock.Anything, mock.Anything)
}

func (suite *ConsumerTestSuite) TestHandleExchangeTransaction_WalletWithoutAssociationIsRejected() {
	body := []byte(`{"transactionId":"txn-10","buyerWalletId":"w-buyer","sellerWalletId":"w-seller","amount":"30","transferMethod":"ACCOUNT"}`)

	suite.mockWallets.On("GetWallet", mock.Anything, "w-buyer").
		Return(&domain.Wallet{ID: "w-buyer", AssociatedAccountID: "prod-a1"}, nil).Once()
	suite.mockWallets.On("GetWallet", mock.Anything, "w-seller").
		Return(&domain.Wallet{ID: "w-seller"}, nil).Once()

	err := suite.consumer.HandleExchangeTransaction(context.Background(), body)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovements.AssertNotCalled(suite.T(), "TransferWithIdempotencyKey",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConsumerTestSuite) TestHandleExchangeTransaction_WalletLookupFailurePropagates() {
	body := []byte(`{"transactionId":"txn-11","buyerWalletId":"w-buyer","sellerWalletId":"w-seller","amount":"30","transferMethod":"WALLET"}`)

	suite.mockWallets.On("GetWallet", mock.Anything, "w-buyer").
		Return(&domain.Wallet{ID: "w-buyer", AssociatedWalletID: "prod-w1"}, nil).Maybe()
	suite.mockWallets.On("GetWallet", mock.Anything, "w-seller").
		Return(nil, apperrors.ErrRemoteUnavailable).Once()

	err := suite.consumer.HandleExchangeTransaction(context.Background(), body)

	suite.Require().ErrorIs(err, apperrors.ErrRemoteUnavailable)
	suite.mockMovements.AssertNotCalled(suite.T(), "TransferWithIdempotencyKey",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumerTestSuite(t *testing.T) {
	suite.Run(t, new(ConsumerTestSuite))
}
