package order

import (
	"time"
)

// Order is a customer order against a single restaurant. Status and
// payment fields are the only mutable parts after creation.
type Order struct {
	ID            string      `gorm:"primarykey;size:36" json:"id"`
	Reference     string      `gorm:"size:12;uniqueIndex" json:"reference"`
	RestaurantID  string      `gorm:"size:64;index;not null" json:"restaurant_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount   float64     `gorm:"not null" json:"total_amount"`
	Status        Status      `gorm:"size:16;index;not null" json:"status"`
	PaymentMethod string      `gorm:"size:32" json:"payment_method,omitempty"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the table name for the Order model.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID             uint                `gorm:"primarykey" json:"-"`
	OrderID        string              `gorm:"size:36;index;not null" json:"-"`
	ProductID      string              `gorm:"size:64;not null" json:"product_id"`
	ProductName    string              `gorm:"size:100" json:"product_name"`
	Quantity       int                 `gorm:"not null" json:"quantity"`
	UnitPrice      float64             `gorm:"not null" json:"unit_price"`
	TotalPrice     float64             `gorm:"not null" json:"total_price"`
	Customizations []ItemCustomization `gorm:"foreignKey:OrderItemID" json:"customizations,omitempty"`
}

// TableName returns the table name for the OrderItem model.
func (OrderItem) TableName() string {
	return "order_items"
}

// ItemCustomization records one chosen option within a customization
// category (for example category "Contorno", option "Ensalada").
type ItemCustomization struct {
	ID             uint    `gorm:"primarykey" json:"-"`
	OrderItemID    uint    `gorm:"index;not null" json:"-"`
	Category       string  `gorm:"size:64;not null" json:"category"`
	SelectedOption string  `gorm:"size:100;not null" json:"selected_option"`
	ExtraCost      float64 `json:"extra_cost"`
}

// TableName returns the table name for the ItemCustomization model.
func (ItemCustomization) TableName() string {
	return "order_item_customizations"
}

// ItemTotal computes the price of a line item: (unit price plus the sum of
// customization extras) times quantity.
func ItemTotal(unitPrice float64, extras []ItemCustomization, quantity int) float64 {
	price := unitPrice
	for _, c := range extras {
		price += c.ExtraCost
	}
	return price * float64(quantity)
}
