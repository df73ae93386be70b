package catalog

import (
	"context"
	"log"

	domain "github.com/example/restaurant-inventory/domain/catalog"
	"github.com/example/restaurant-inventory/modules/cache"
	"golang.org/x/sync/singleflight"
)

// Service provides catalog lookups with a cache-aside layer. Catalog data
// changes rarely, so reads go through Redis with singleflight protecting
// the database from stampedes on cold keys.
type Service struct {
	repo    *domain.Repository
	cache   cache.CacheService
	sfGroup singleflight.Group
}

// NewService creates a new catalog service.
func NewService(repo *domain.Repository, c cache.CacheService) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

func cacheKeyProduct(id string) string {
	return "product:" + id
}

func cacheKeyRestaurant(id string) string {
	return "restaurant:" + id
}

// GetProduct retrieves a product by id. Returns found=false for unknown
// products rather than an error, so polling callers stay resilient to
// stale ids.
func (s *Service) GetProduct(ctx context.Context, productID string) (*ProductInfo, bool, error) {
	cacheKey := cacheKeyProduct(productID)

	var cached ProductInfo
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("[catalog] cache error for product %s: %v", productID, err)
	}
	if found {
		return &cached, true, nil
	}

	val, err, _ := s.sfGroup.Do(cacheKey, func() (any, error) {
		p, err := s.repo.FindByID(productID)
		if err == domain.ErrNotFound {
			return nil, nil
		}
		return p, err
	})
	if err != nil {
		return nil, false, err
	}

	p, ok := val.(*domain.Product)
	if !ok || p == nil {
		return nil, false, nil
	}

	info := toProductInfo(p)
	if err := s.cache.Set(ctx, cacheKey, info); err != nil {
		log.Printf("[catalog] failed to cache product %s: %v", productID, err)
	}
	return info, true, nil
}

// ListProducts retrieves all products of a restaurant.
func (s *Service) ListProducts(ctx context.Context, restaurantID string) ([]ProductInfo, error) {
	cacheKey := cacheKeyRestaurant(restaurantID)

	var cached []ProductInfo
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("[catalog] cache error for restaurant %s: %v", restaurantID, err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := s.sfGroup.Do(cacheKey, func() (any, error) {
		return s.repo.ListByRestaurant(restaurantID)
	})
	if err != nil {
		return nil, err
	}

	products := val.([]*domain.Product)
	infos := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		infos = append(infos, *toProductInfo(p))
	}

	if err := s.cache.Set(ctx, cacheKey, infos); err != nil {
		log.Printf("[catalog] failed to cache restaurant %s: %v", restaurantID, err)
	}
	return infos, nil
}

// CreateProduct persists a product and invalidates affected cache keys.
func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.Create(p); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cacheKeyRestaurant(p.RestaurantID)); err != nil {
		log.Printf("[catalog] failed to invalidate restaurant cache: %v", err)
	}
	return nil
}

func toProductInfo(p *domain.Product) *ProductInfo {
	info := &ProductInfo{
		ID:           p.ID,
		RestaurantID: p.RestaurantID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
	}
	for _, g := range p.Groups {
		group := GroupInfo{
			Category: g.Category,
			Required: g.Required,
		}
		for _, o := range g.Options {
			group.Options = append(group.Options, OptionInfo{
				Name:      o.Name,
				ExtraCost: o.ExtraCost,
			})
		}
		info.Groups = append(info.Groups, group)
	}
	return info
}
