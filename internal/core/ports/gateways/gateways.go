// Package gateways declares the outbound interfaces the movement core uses to
// reach the collaborating services. Implementations live under
// internal/adapters; the orchestrator receives these handles at construction
// and never builds its own clients.
package gateways

import (
	"context"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
)

// ProductGateway reads and replaces product snapshots on the product service.
type ProductGateway interface {
	// GetProduct fetches the product snapshot by id. Returns
	// apperrors.ErrNotFound when the product does not exist and
	// apperrors.ErrRemoteUnavailable on timeouts or connection failures.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)

	// ReplaceProduct pushes a whole snapshot back to the product service
	// (last writer wins, no partial merge) and returns the stored snapshot.
	ReplaceProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// ClientGateway reads client snapshots from the client service.
type ClientGateway interface {
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
}

// ClientCache is the best-effort read-through cache in front of client
// lookups. A miss returns apperrors.ErrNotFound; write failures must never
// fail the surrounding operation.
type ClientCache interface {
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	PutClient(ctx context.Context, client domain.Client) error
}

// WalletDirectory resolves wallet ids carried by exchange transfer events to
// wallet entries holding the associated product ids.
type WalletDirectory interface {
	GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error)
}
