package catalog

import (
	"context"
)

// GetProductRequest is the request for the get-product service.
type GetProductRequest struct {
	ProductID string `json:"product_id"`
}

// GetProductResponse is the response for the get-product service.
type GetProductResponse struct {
	Found   bool         `json:"found"`
	Product *ProductInfo `json:"product,omitempty"`
}

// ListProductsRequest is the request for the list-products service.
type ListProductsRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

// ListProductsResponse is the response for the list-products service.
type ListProductsResponse struct {
	Products []ProductInfo `json:"products"`
	Total    int           `json:"total"`
}

// ProductInfo is the wire representation of a catalog product.
type ProductInfo struct {
	ID           string      `json:"id"`
	RestaurantID string      `json:"restaurant_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Price        float64     `json:"price"`
	Groups       []GroupInfo `json:"groups,omitempty"`
}

// GroupInfo is a customization category on a product.
type GroupInfo struct {
	Category string       `json:"category"`
	Required bool         `json:"required"`
	Options  []OptionInfo `json:"options,omitempty"`
}

// OptionInfo is one selectable choice within a customization group.
type OptionInfo struct {
	Name      string  `json:"name"`
	ExtraCost float64 `json:"extra_cost"`
}

// RequiredCategories returns the categories that must have a selection
// before an order containing this product is accepted.
func (p *ProductInfo) RequiredCategories() []string {
	var required []string
	for _, g := range p.Groups {
		if g.Required {
			required = append(required, g.Category)
		}
	}
	return required
}

// FindOption looks up an option by group category and option name.
func (p *ProductInfo) FindOption(category, name string) (*OptionInfo, bool) {
	for _, g := range p.Groups {
		if g.Category != category {
			continue
		}
		for _, o := range g.Options {
			if o.Name == name {
				opt := o
				return &opt, true
			}
		}
	}
	return nil, false
}

// CatalogPort is the interface other modules use to consult the product
// catalog (price, restaurant ownership, customization rules).
type CatalogPort interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, bool, error)
	ListProducts(ctx context.Context, restaurantID string) ([]ProductInfo, error)
}
