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

// ClientGateway calls the client service REST API.
type ClientGateway struct {
	baseURL string
	client  httpDoer
}

// NewClientGateway creates a client gateway against the given base URL.
func NewClientGateway(baseURL string, timeout time.Duration) *ClientGateway {
	return &ClientGateway{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

var _ portsgw.ClientGateway = (*ClientGateway)(nil)

// GetClient fetches the client snapshot by id.
func (g *ClientGateway) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	endpoint := fmt.Sprintf("%s/api/v1/client/%s", g.baseURL, url.PathEscape(clientID))
	var client domain.Client
	if err := doJSON(ctx, g.client, "client service", http.MethodGet, endpoint, nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}
