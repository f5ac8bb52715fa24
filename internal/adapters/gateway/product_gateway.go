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

// ProductGateway calls the product service REST API.
type ProductGateway struct {
	baseURL string
	client  httpDoer
}

// NewProductGateway creates a product gateway against the given base URL.
func NewProductGateway(baseURL string, timeout time.Duration) *ProductGateway {
	return &ProductGateway{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

var _ portsgw.ProductGateway = (*ProductGateway)(nil)

func (g *ProductGateway) productURL(productID string) string {
	return fmt.Sprintf("%s/api/v1/product/%s", g.baseURL, url.PathEscape(productID))
}

// GetProduct fetches the product snapshot by id.
func (g *ProductGateway) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	if err := doJSON(ctx, g.client, "product service", http.MethodGet, g.productURL(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceProduct pushes the whole snapshot back to the product service.
func (g *ProductGateway) ReplaceProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var updated domain.Product
	if err := doJSON(ctx, g.client, "product service", http.MethodPut, g.productURL(product.ID), product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
