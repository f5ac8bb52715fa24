package repositories

import (
	"context"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
)

// MovementReader defines read operations over the movement ledger.
type MovementReader interface {
	// FindMovementByID retrieves a single movement by its store-assigned id.
	FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// ListMovements retrieves every movement in the ledger.
	ListMovements(ctx context.Context) ([]domain.Movement, error)

	// FindMovementsByClientID retrieves all movements recorded for a client.
	FindMovementsByClientID(ctx context.Context, clientID string) ([]domain.Movement, error)

	// FindMovementsByProductID retrieves all movements recorded against a product.
	FindMovementsByProductID(ctx context.Context, productID string) ([]domain.Movement, error)

	// CountMovementsByProductSince counts movements for a product whose date is
	// strictly after the given instant. Used for the monthly limit window.
	CountMovementsByProductSince(ctx context.Context, productID string, since time.Time) (int64, error)

	// FindMovementsByTransferID retrieves the movement legs persisted under an
	// idempotency key, if any.
	FindMovementsByTransferID(ctx context.Context, transferID string) ([]domain.Movement, error)
}

// MovementWriter defines write operations over the movement ledger.
type MovementWriter interface {
	// SaveMovement persists a single movement and returns it with the
	// store-assigned id populated.
	SaveMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)

	// SaveMovements persists a batch of movements. Transfers rely on this to
	// write the paired debit/credit legs together.
	SaveMovements(ctx context.Context, movements []domain.Movement) ([]domain.Movement, error)

	// ReplaceMovement replaces the movement stored under the given id.
	ReplaceMovement(ctx context.Context, movementID string, movement domain.Movement) (*domain.Movement, error)

	// DeleteMovementByID removes a movement from the ledger.
	DeleteMovementByID(ctx context.Context, movementID string) error
}

// MovementRepository combines all ledger operations the orchestrator needs.
type MovementRepository interface {
	MovementReader
	MovementWriter
}
