package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	portsgw "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/gateways"
)

// WalletGateway resolves wallet entries from the wallet directory service.
type WalletGateway struct {
	baseURL string
	client  httpDoer
}

// NewWalletGateway creates a wallet directory gateway against the given base URL.
func NewWalletGateway(baseURL string, timeout time.Duration) *WalletGateway {
	return &WalletGateway{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

var _ portsgw.WalletDirectory = (*WalletGateway)(nil)

// GetWallet fetches a wallet entry by id.
func (g *WalletGateway) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	endpoint := fmt.Sprintf("%s/wallets/%s", g.baseURL, url.PathEscape(walletID))
	var wallet domain.Wallet
	if err := doJSON(ctx, g.client, "wallet service", http.MethodGet, endpoint, nil, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}
