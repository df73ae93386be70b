package catalog

import (
	domain "github.com/example/restaurant-inventory/domain/catalog"
)

// SeedDemoCatalog loads the demo restaurants and menus. Stock for these
// products is seeded separately by the inventory module.
func SeedDemoCatalog(repo *domain.Repository) error {
	products := []*domain.Product{
		{
			ID:           "pasta-carbonara",
			RestaurantID: "rest-italiano",
			Name:         "Pasta Carbonara",
			Description:  "Spaghetti with egg, pecorino and guanciale",
			Price:        12.50,
			Groups: []domain.CustomizationGroup{
				{
					Category: "Tamaño",
					Required: true,
					Options: []domain.CustomizationOption{
						{Name: "Personal", ExtraCost: 0},
						{Name: "Grande", ExtraCost: 3.00},
					},
				},
				{
					Category: "Contorno",
					Required: true,
					Options: []domain.CustomizationOption{
						{Name: "Ensalada", ExtraCost: 0},
						{Name: "Pan de ajo", ExtraCost: 1.50},
					},
				},
			},
		},
		{
			ID:           "pizza-margherita",
			RestaurantID: "rest-italiano",
			Name:         "Pizza Margherita",
			Description:  "Tomato, mozzarella, basil",
			Price:        10.00,
			Groups: []domain.CustomizationGroup{
				{
					Category: "Tamaño",
					Required: true,
					Options: []domain.CustomizationOption{
						{Name: "Personal", ExtraCost: 0},
						{Name: "Familiar", ExtraCost: 5.00},
					},
				},
				{
					Category: "Extras",
					Required: false,
					Options: []domain.CustomizationOption{
						{Name: "Queso extra", ExtraCost: 1.00},
						{Name: "Champiñones", ExtraCost: 1.25},
					},
				},
			},
		},
		{
			ID:           "tiramisu",
			RestaurantID: "rest-italiano",
			Name:         "Tiramisú",
			Description:  "Classic mascarpone dessert",
			Price:        5.50,
		},
		{
			ID:           "shawarma-mixto",
			RestaurantID: "rest-arabe",
			Name:         "Shawarma Mixto",
			Description:  "Chicken and beef shawarma wrap",
			Price:        8.00,
			Groups: []domain.CustomizationGroup{
				{
					Category: "Salsa",
					Required: true,
					Options: []domain.CustomizationOption{
						{Name: "Tahini", ExtraCost: 0},
						{Name: "Ajo", ExtraCost: 0},
						{Name: "Picante", ExtraCost: 0.50},
					},
				},
			},
		},
		{
			ID:           "falafel-bowl",
			RestaurantID: "rest-arabe",
			Name:         "Falafel Bowl",
			Description:  "Falafel over rice with vegetables",
			Price:        7.25,
		},
	}

	for _, p := range products {
		if err := repo.Create(p); err != nil {
			return err
		}
	}
	return nil
}
