package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// catalogAdapter wraps the ServiceContainer for type-safe cross-module
// calls into the catalog.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates an adapter for catalog services. container is
// the ServiceContainer received via SetDependencyServiceContainer.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// GetProduct retrieves a product via the get-product service.
func (a *catalogAdapter) GetProduct(ctx context.Context, productID string) (*ProductInfo, bool, error) {
	req := GetProductRequest{ProductID: productID}
	var resp GetProductResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-product", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, false, fmt.Errorf("get-product service call failed: %w", err)
	}
	return resp.Product, resp.Found, nil
}

// ListProducts retrieves a restaurant's products via the list-products
// service.
func (a *catalogAdapter) ListProducts(ctx context.Context, restaurantID string) ([]ProductInfo, error) {
	req := ListProductsRequest{RestaurantID: restaurantID}
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-products", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-products service call failed: %w", err)
	}
	return resp.Products, nil
}
