// Package memory implements the movement ledger in process memory. It backs
// unit tests and local development without a MongoDB instance.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	portsrepo "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// MovementRepository is a concurrency-safe in-memory movement store.
type MovementRepository struct {
	mu        sync.RWMutex
	movements map[string]domain.Movement
	order     []string
}

// NewMovementRepository creates an empty in-memory movement repository.
func NewMovementRepository() *MovementRepository {
	return &MovementRepository{movements: make(map[string]domain.Movement)}
}

var _ portsrepo.MovementRepository = (*MovementRepository)(nil)

// SaveMovement inserts a movement, assigning a fresh id.
func (r *MovementRepository) SaveMovement(_ context.Context, movement domain.Movement) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(&movement)
	return &movement, nil
}

// SaveMovements inserts a batch of movements.
func (r *MovementRepository) SaveMovements(_ context.Context, movements []domain.Movement) ([]domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]domain.Movement, len(movements))
	for i := range movements {
		m := movements[i]
		r.insertLocked(&m)
		saved[i] = m
	}
	return saved, nil
}

func (r *MovementRepository) insertLocked(m *domain.Movement) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.movements[m.ID] = *m
	r.order = append(r.order, m.ID)
}

// FindMovementByID retrieves a movement by id.
func (r *MovementRepository) FindMovementByID(_ context.Context, movementID string) (*domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movements[movementID]
	if !ok {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	return &m, nil
}

// ListMovements returns every stored movement in insertion order.
func (r *MovementRepository) ListMovements(_ context.Context) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(domain.Movement) bool { return true }), nil
}

// FindMovementsByClientID returns all movements for a client.
func (r *MovementRepository) FindMovementsByClientID(_ context.Context, clientID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(m domain.Movement) bool { return m.ClientID == clientID }), nil
}

// FindMovementsByProductID returns all movements against a product.
func (r *MovementRepository) FindMovementsByProductID(_ context.Context, productID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(m domain.Movement) bool { return m.ProductID == productID }), nil
}

// FindMovementsByTransferID returns the legs stored under an idempotency key.
func (r *MovementRepository) FindMovementsByTransferID(_ context.Context, transferID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(m domain.Movement) bool { return m.TransferID != "" && m.TransferID == transferID }), nil
}

// CountMovementsByProductSince counts movements for a product dated strictly
// after since.
func (r *MovementRepository) CountMovementsByProductSince(_ context.Context, productID string, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, m := range r.movements {
		if m.ProductID == productID && m.Date.After(since) {
			count++
		}
	}
	return count, nil
}

// ReplaceMovement replaces the movement stored under the given id.
func (r *MovementRepository) ReplaceMovement(_ context.Context, movementID string, movement domain.Movement) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movements[movementID]; !ok {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	movement.ID = movementID
	r.movements[movementID] = movement
	return &movement, nil
}

// DeleteMovementByID removes a movement.
func (r *MovementRepository) DeleteMovementByID(_ context.Context, movementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movements[movementID]; !ok {
		return fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	delete(r.movements, movementID)
	for i, id := range r.order {
		if id == movementID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MovementRepository) filterLocked(keep func(domain.Movement) bool) []domain.Movement {
	result := make([]domain.Movement, 0, len(r.order))
	for _, id := range r.order {
		if m, ok := r.movements[id]; ok && keep(m) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}
