package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	portsgw "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/gateways"
	portsrepo "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/repositories"
	portssvc "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/services"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/middleware"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// movementService orchestrates movement admission and the cross-service
// transfer sagas. Consistency relies on the product service being the single
// source of truth for balances; there is no in-process locking and no
// compensating rollback for the window between the product pushes and the
// ledger write.
type movementService struct {
	repo     portsrepo.MovementRepository
	products portsgw.ProductGateway
	clients  portsgw.ClientGateway
	cache    portsgw.ClientCache
	rules    RuleEngine
	now      func() time.Time
}

// NewMovementService creates the movement orchestrator. cache may be nil, in
// which case client lookups always hit the gateway.
func NewMovementService(repo portsrepo.MovementRepository, products portsgw.ProductGateway, clients portsgw.ClientGateway, cache portsgw.ClientCache) portssvc.MovementSvcFacade {
	return &movementService{
		repo:     repo,
		products: products,
		clients:  clients,
		cache:    cache,
		rules:    NewRuleEngine(),
		now:      time.Now,
	}
}

var _ portssvc.MovementSvcFacade = (*movementService)(nil)

// resolveClient looks the client up in the cache first and falls through to
// the gateway on a miss. The cache is populated asynchronously and cache
// failures never fail the lookup.
func (s *movementService) resolveClient(ctx context.Context, clientID string) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.cache != nil {
		client, err := s.cache.GetClient(ctx, clientID)
		if err == nil {
			return client, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Client cache lookup failed, falling through to gateway",
				slog.String("client_id", clientID), slog.String("error", err.Error()))
		}
	}

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Populate without blocking the read path. The request context may be
		// cancelled once the caller returns, so the write gets its own deadline.
		go func(c domain.Client) {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.PutClient(cacheCtx, c); err != nil {
				logger.Warn("Failed to populate client cache", slog.String("client_id", c.ID), slog.String("error", err.Error()))
			}
		}(*client)
	}

	return client, nil
}

// CreateMovement admits a single proposed movement.
func (s *movementService) CreateMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !movement.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, movement.Type)
	}
	if movement.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	client, err := s.resolveClient(ctx, movement.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, movement.ClientID)
		}
		return nil, fmt.Errorf("failed to resolve client %s: %w", movement.ClientID, err)
	}

	product, err := s.products.GetProduct(ctx, movement.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, movement.ProductID)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", movement.ProductID, err)
	}

	// Client type gate for credit cards, checked before the pure rules since
	// the engine does not see the client.
	if product.Subtype == domain.SubtypeCreditCard && !client.CanHoldCreditCard() {
		return nil, fmt.Errorf("%w: client type %q cannot hold a credit card", apperrors.ErrValidation, client.Type)
	}

	now := s.now()
	count, err := s.repo.CountMovementsByProductSince(ctx, product.ID, StartOfMonth(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count movements for product %s: %w", product.ID, err)
	}

	decision, err := s.rules.Evaluate(movement, *product, count, now)
	if err != nil {
		logger.Warn("Movement rejected by rules",
			slog.String("product_id", product.ID),
			slog.String("movement_type", string(movement.Type)),
			slog.String("error", err.Error()))
		return nil, err
	}

	switch movement.Type {
	case domain.MovementDeposit:
		product.Balance = product.Balance.Add(decision.Amount)
	case domain.MovementWithdrawal:
		product.Balance = product.Balance.Sub(decision.Amount)
	}

	if _, err := s.products.ReplaceProduct(ctx, *product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}

	movement.ID = ""
	movement.Amount = decision.Amount
	movement.Date = now

	saved, err := s.repo.SaveMovement(ctx, movement)
	if err != nil {
		// The balance push already landed; the ledger record is missing. This
		// is the documented partial-failure window.
		logger.Error("Ledger write failed after product update",
			slog.String("product_id", product.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}

	logger.Info("Movement admitted",
		slog.String("movement_id", saved.ID),
		slog.String("product_id", product.ID),
		slog.String("type", string(saved.Type)),
		slog.Bool("fee_applied", decision.FeeApplied))
	return saved, nil
}

// Transfer moves amount between two products.
func (s *movementService) Transfer(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error {
	return s.transfer(ctx, "", fromProductID, toProductID, amount)
}

// TransferWithIdempotencyKey refuses to re-apply a transfer whose key already
// produced persisted ledger legs.
func (s *movementService) TransferWithIdempotencyKey(ctx context.Context, idempotencyKey, fromProductID, toProductID string, amount decimal.Decimal) error {
	if strings.TrimSpace(idempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency key must not be empty", apperrors.ErrValidation)
	}
	return s.transfer(ctx, idempotencyKey, fromProductID, toProductID, amount)
}

func (s *movementService) transfer(ctx context.Context, transferID, fromProductID, toProductID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Precondition checks happen before any remote call.
	if strings.TrimSpace(fromProductID) == "" || strings.TrimSpace(toProductID) == "" {
		return fmt.Errorf("%w: product ids must not be empty", apperrors.ErrValidation)
	}
	// A self-transfer would push two divergent snapshots of the same product.
	if fromProductID == toProductID {
		return fmt.Errorf("%w: source and destination products must differ", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	if transferID != "" {
		existing, err := s.repo.FindMovementsByTransferID(ctx, transferID)
		if err != nil {
			return fmt.Errorf("failed to check idempotency key %s: %w", transferID, err)
		}
		if len(existing) > 0 {
			logger.Info("Transfer already processed, skipping", slog.String("transfer_id", transferID))
			return fmt.Errorf("%w: key %s", apperrors.ErrDuplicate, transferID)
		}
	}

	from, to, err := s.fetchProductPair(ctx, fromProductID, toProductID)
	if err != nil {
		return err
	}

	if from.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s is less than %s", apperrors.ErrInsufficientFunds, from.Balance.String(), amount.String())
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	if err := s.pushProductPair(ctx, *from, *to); err != nil {
		// One push may already have landed; no rollback is attempted and no
		// ledger records are written.
		logger.Error("Transfer aborted after product push failure",
			slog.String("from_product", fromProductID),
			slog.String("to_product", toProductID),
			slog.String("error", err.Error()))
		return err
	}

	now := s.now()
	legs := []domain.Movement{
		{
			ClientID:   from.ClientID,
			ProductID:  from.ID,
			Type:       domain.MovementWithdrawal,
			Amount:     amount,
			Date:       now,
			TransferID: transferID,
		},
		{
			ClientID:   to.ClientID,
			ProductID:  to.ID,
			Type:       domain.MovementDeposit,
			Amount:     amount,
			Date:       now,
			TransferID: transferID,
		},
	}
	if _, err := s.repo.SaveMovements(ctx, legs); err != nil {
		logger.Error("Ledger write failed after both product pushes",
			slog.String("from_product", fromProductID),
			slog.String("to_product", toProductID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save transfer movements: %w", err)
	}

	logger.Info("Transfer completed",
		slog.String("from_product", fromProductID),
		slog.String("to_product", toProductID),
		slog.String("amount", amount.String()))
	return nil
}

// PayThirdParty moves amount from one client's product to another client's
// active product.
func (s *movementService) PayThirdParty(ctx context.Context, fromProductID, toProductID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(fromProductID) == "" || strings.TrimSpace(toProductID) == "" {
		return fmt.Errorf("%w: product ids must not be empty", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	from, to, err := s.fetchProductPair(ctx, fromProductID, toProductID)
	if err != nil {
		return err
	}

	if from.ClientID == to.ClientID {
		return fmt.Errorf("%w: cannot pay a product owned by the paying client", apperrors.ErrSameClient)
	}
	if to.Type != domain.ProductActive {
		return fmt.Errorf("%w: product %s has type %s", apperrors.ErrInvalidDestination, to.ID, to.Type)
	}
	if from.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s is less than %s", apperrors.ErrInsufficientFunds, from.Balance.String(), amount.String())
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	if err := s.pushProductPair(ctx, *from, *to); err != nil {
		logger.Error("Third party payment aborted after product push failure",
			slog.String("from_product", fromProductID),
			slog.String("to_product", toProductID),
			slog.String("error", err.Error()))
		return err
	}

	now := s.now()
	legs := []domain.Movement{
		{
			ClientID:  from.ClientID,
			ProductID: from.ID,
			Type:      domain.MovementThirdPartySent,
			// The sent leg is recorded negative so reports show the debit side.
			Amount: amount.Neg(),
			Date:   now,
		},
		{
			ClientID:  to.ClientID,
			ProductID: to.ID,
			Type:      domain.MovementThirdPartyReceived,
			Amount:    amount,
			Date:      now,
		},
	}
	if _, err := s.repo.SaveMovements(ctx, legs); err != nil {
		logger.Error("Ledger write failed after both product pushes",
			slog.String("from_product", fromProductID),
			slog.String("to_product", toProductID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save payment movements: %w", err)
	}

	logger.Info("Third party payment completed",
		slog.String("from_product", fromProductID),
		slog.String("to_product", toProductID),
		slog.String("amount", amount.String()))
	return nil
}

// fetchProductPair fetches both product snapshots concurrently. Both fetches
// run to completion so a failure on one side never cancels the other.
func (s *movementService) fetchProductPair(ctx context.Context, fromID, toID string) (*domain.Product, *domain.Product, error) {
	var from, to *domain.Product
	var g errgroup.Group
	g.Go(func() error {
		p, err := s.products.GetProduct(ctx, fromID)
		if err != nil {
			return fmt.Errorf("source product %s: %w", fromID, err)
		}
		from = p
		return nil
	})
	g.Go(func() error {
		p, err := s.products.GetProduct(ctx, toID)
		if err != nil {
			return fmt.Errorf("destination product %s: %w", toID, err)
		}
		to = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// pushProductPair pushes both updated snapshots concurrently and waits for
// both legs. A failed leg does not roll back its sibling.
func (s *movementService) pushProductPair(ctx context.Context, from, to domain.Product) error {
	var g errgroup.Group
	g.Go(func() error {
		if _, err := s.products.ReplaceProduct(ctx, from); err != nil {
			return fmt.Errorf("failed to update source product %s: %w", from.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.products.ReplaceProduct(ctx, to); err != nil {
			return fmt.Errorf("failed to update destination product %s: %w", to.ID, err)
		}
		return nil
	})
	return g.Wait()
}

// ListMovements returns every movement in the ledger.
func (s *movementService) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	return s.repo.ListMovements(ctx)
}

// GetMovementByID returns a single movement by id.
func (s *movementService) GetMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	movement, err := s.repo.FindMovementByID(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	return movement, nil
}

// UpdateMovement replaces an existing movement by id.
func (s *movementService) UpdateMovement(ctx context.Context, movementID string, movement domain.Movement) (*domain.Movement, error) {
	if _, err := s.repo.FindMovementByID(ctx, movementID); err != nil {
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	movement.ID = movementID
	updated, err := s.repo.ReplaceMovement(ctx, movementID, movement)
	if err != nil {
		return nil, fmt.Errorf("failed to update movement %s: %w", movementID, err)
	}
	return updated, nil
}

// DeleteMovement removes a movement by id.
func (s *movementService) DeleteMovement(ctx context.Context, movementID string) error {
	if err := s.repo.DeleteMovementByID(ctx, movementID); err != nil {
		return fmt.Errorf("failed to delete movement %s: %w", movementID, err)
	}
	return nil
}

// ListMovementsByClient returns all movements recorded for a client.
func (s *movementService) ListMovementsByClient(ctx context.Context, clientID string) ([]domain.Movement, error) {
	return s.repo.FindMovementsByClientID(ctx, clientID)
}

// ListMovementsByProductAndDateRange filters the product's movements to those
// dated between from and to, inclusive at calendar date granularity.
func (s *movementService) ListMovementsByProductAndDateRange(ctx context.Context, productID string, from, to time.Time) ([]domain.Movement, error) {
	movements, err := s.repo.FindMovementsByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for product %s: %w", productID, err)
	}

	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDayEnd := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)

	filtered := make([]domain.Movement, 0, len(movements))
	for _, m := range movements {
		if !m.Date.Before(fromDay) && m.Date.Before(toDayEnd) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
