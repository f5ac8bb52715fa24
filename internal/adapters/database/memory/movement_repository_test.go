package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/adapters/database/memory"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovement(clientID, productID string, date time.Time) domain.Movement {
	return domain.Movement{
		ClientID:  clientID,
		ProductID: productID,
		Type:      domain.MovementDeposit,
		Amount:    decimal.NewFromInt(10),
		Date:      date,
	}
}

func TestSaveAndFindMovement(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()

	saved, err := repo.SaveMovement(ctx, newMovement("c1", "p1", time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	found, err := repo.FindMovementByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, "c1", found.ClientID)

	_, err = repo.FindMovementByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveMovementsAssignsIDs(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()

	saved, err := repo.SaveMovements(ctx, []domain.Movement{
		newMovement("c1", "p1", time.Now()),
		newMovement("c2", "p2", time.Now()),
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.NotEmpty(t, saved[0].ID)
	assert.NotEmpty(t, saved[1].ID)
	assert.NotEqual(t, saved[0].ID, saved[1].ID)
}

func TestFindByClientAndProduct(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()
	now := time.Now()

	_, err := repo.SaveMovements(ctx, []domain.Movement{
		newMovement("c1", "p1", now.Add(-2*time.Hour)),
		newMovement("c1", "p2", now.Add(-time.Hour)),
		newMovement("c2", "p1", now),
	})
	require.NoError(t, err)

	byClient, err := repo.FindMovementsByClientID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	byProduct, err := repo.FindMovementsByProductID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	// Oldest first.
	assert.True(t, byProduct[0].Date.Before(byProduct[1].Date))
}

func TestCountMovementsByProductSince(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()
	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.SaveMovements(ctx, []domain.Movement{
		newMovement("c1", "p1", monthStart.AddDate(0, 0, -1)),
		newMovement("c1", "p1", monthStart),
		newMovement("c1", "p1", monthStart.AddDate(0, 0, 5)),
		newMovement("c1", "p1", monthStart.AddDate(0, 0, 10)),
		newMovement("c1", "p2", monthStart.AddDate(0, 0, 5)),
	})
	require.NoError(t, err)

	// Strictly after the boundary: the entry dated exactly at monthStart and
	// the one from last month are excluded.
	count, err := repo.CountMovementsByProductSince(ctx, "p1", monthStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFindMovementsByTransferID(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()

	legs := []domain.Movement{
		newMovement("c1", "p1", time.Now()),
		newMovement("c2", "p2", time.Now()),
	}
	legs[0].TransferID = "txn-1"
	legs[1].TransferID = "txn-1"
	_, err := repo.SaveMovements(ctx, legs)
	require.NoError(t, err)

	_, err = repo.SaveMovement(ctx, newMovement("c3", "p3", time.Now()))
	require.NoError(t, err)

	found, err := repo.FindMovementsByTransferID(ctx, "txn-1")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Movements without a key must not match an empty lookup.
	found, err = repo.FindMovementsByTransferID(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestReplaceMovement(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()

	saved, err := repo.SaveMovement(ctx, newMovement("c1", "p1", time.Now()))
	require.NoError(t, err)

	updated := *saved
	updated.Amount = decimal.NewFromInt(99)
	got, err := repo.ReplaceMovement(ctx, saved.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(99)))

	_, err = repo.ReplaceMovement(ctx, "missing", updated)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteMovement(t *testing.T) {
	repo := memory.NewMovementRepository()
	ctx := context.Background()

	saved, err := repo.SaveMovement(ctx, newMovement("c1", "p1", time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteMovementByID(ctx, saved.ID))
	_, err = repo.FindMovementByID(ctx, saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteMovementByID(ctx, saved.ID), apperrors.ErrNotFound)
}
