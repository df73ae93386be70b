package catalog

import (
	"time"
)

// Product is a menu item offered by a restaurant. Stock and availability
// live in the inventory module; this is the catalog collaborator the order
// and alert modules consult for price, ownership and customization rules.
type Product struct {
	ID           string               `gorm:"primarykey;size:64" json:"id"`
	RestaurantID string               `gorm:"size:64;index;not null" json:"restaurant_id"`
	Name         string               `gorm:"size:100;not null" json:"name"`
	Description  string               `gorm:"size:500" json:"description"`
	Price        float64              `gorm:"not null" json:"price"`
	Groups       []CustomizationGroup `gorm:"foreignKey:ProductID" json:"groups,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// TableName returns the table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// CustomizationGroup is a category of options on a product (for example
// "Tamaño" or "Contorno"). Required groups must have a selection before an
// order is accepted.
type CustomizationGroup struct {
	ID        uint                  `gorm:"primarykey" json:"-"`
	ProductID string                `gorm:"size:64;index;not null" json:"-"`
	Category  string                `gorm:"size:64;not null" json:"category"`
	Required  bool                  `gorm:"not null;default:false" json:"required"`
	Options   []CustomizationOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
}

// TableName returns the table name for the CustomizationGroup model.
func (CustomizationGroup) TableName() string {
	return "customization_groups"
}

// CustomizationOption is one selectable choice within a group.
type CustomizationOption struct {
	ID        uint    `gorm:"primarykey" json:"-"`
	GroupID   uint    `gorm:"index;not null" json:"-"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	ExtraCost float64 `json:"extra_cost"`
}

// TableName returns the table name for the CustomizationOption model.
func (CustomizationOption) TableName() string {
	return "customization_options"
}
