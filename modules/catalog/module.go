package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/restaurant-inventory/domain/catalog"
	"github.com/example/restaurant-inventory/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// CatalogModule provides product catalog lookups for the other modules.
// The catalog itself is an external collaborator of the fulfillment core;
// this module carries the seed data the consoles work against.
type CatalogModule struct {
	repo    *domain.Repository
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*CatalogModule)(nil)
var _ mono.ServiceProviderModule = (*CatalogModule)(nil)

// NewModule creates a new CatalogModule backed by the given database and
// cache.
func NewModule(db *gorm.DB, c cache.CacheService) *CatalogModule {
	repo := domain.NewRepository(db)
	return &CatalogModule{
		repo:    repo,
		service: NewService(repo, c),
	}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// RegisterServices registers request-reply services in the service container.
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	log.Printf("[catalog] Registered services: get-product, list-products")
	return nil
}

// getProduct handles the get-product service request.
func (m *CatalogModule) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (GetProductResponse, error) {
	info, found, err := m.service.GetProduct(ctx, req.ProductID)
	if err != nil {
		return GetProductResponse{}, fmt.Errorf("failed to get product: %w", err)
	}
	return GetProductResponse{Found: found, Product: info}, nil
}

// listProducts handles the list-products service request.
func (m *CatalogModule) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	infos, err := m.service.ListProducts(ctx, req.RestaurantID)
	if err != nil {
		return ListProductsResponse{}, fmt.Errorf("failed to list products: %w", err)
	}
	return ListProductsResponse{Products: infos, Total: len(infos)}, nil
}

// Start migrates the catalog tables and loads the demo menu on first run.
func (m *CatalogModule) Start(_ context.Context) error {
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate catalog tables: %w", err)
	}

	count, err := m.repo.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		if err := SeedDemoCatalog(m.repo); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		log.Println("[catalog] Seeded demo catalog")
	}

	log.Println("[catalog] Module started")
	return nil
}

// Stop shuts down the module.
func (m *CatalogModule) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
	return nil
}
