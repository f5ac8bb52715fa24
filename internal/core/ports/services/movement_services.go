package services

import (
	"context"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementSvcFacade exposes every movement operation consumed by the REST
// layer and the event adapter.
type MovementSvcFacade interface {
	// ListMovements returns every movement in the ledger.
	ListMovements(ctx context.Context) ([]domain.Movement, error)

	// GetMovementByID returns a single movement.
	GetMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// CreateMovement admits a single proposed movement: it resolves the client
	// and product, runs the business rules and, when admitted, updates the
	// product balance and persists the movement with the fee-adjusted amount.
	CreateMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)

	// UpdateMovement replaces an existing movement by id (administrative path;
	// never used by the transfer sagas).
	UpdateMovement(ctx context.Context, movementID string, movement domain.Movement) (*domain.Movement, error)

	// DeleteMovement removes a movement by id (administrative path).
	DeleteMovement(ctx context.Context, movementID string) error

	// ListMovementsByClient returns all movements recorded for a client.
	ListMovementsByClient(ctx context.Context, clientID string) ([]domain.Movement, error)

	// ListMovementsByProductAndDateRange returns the movements for a product
	// whose date falls between from and to, both ends inclusive at calendar
	// date granularity.
	ListMovementsByProductAndDateRange(ctx context.Context, productID string, from, to time.Time) ([]domain.Movement, error)

	// Transfer moves amount between two products: both balances are pushed to
	// the product service and a WITHDRAWAL/DEPOSIT pair is written to the
	// ledger only after both pushes succeed.
	Transfer(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error

	// TransferWithIdempotencyKey behaves like Transfer but refuses to re-apply
	// a transfer whose key already produced persisted ledger legs, returning
	// apperrors.ErrDuplicate.
	TransferWithIdempotencyKey(ctx context.Context, idempotencyKey, fromProductID, toProductID string, amount decimal.Decimal) error

	// PayThirdParty moves amount from a client's product to another client's
	// active product, recording a negative SENT leg and a positive RECEIVED leg.
	PayThirdParty(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error
}
