package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category agrupa platos del menú.
type Category struct {
	ID           string
	RestaurantID string
	Name         string
	Slug         string
	SortOrder    int
	IsActive     bool
}

// MenuItem es un plato vendible (producto terminado). Su receta (RecipeLine)
// define cuánto insumo consume cada unidad vendida.
type MenuItem struct {
	ID           string
	RestaurantID string
	CategoryID   string
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	IsAvailable  bool
	SortOrder    int
	CreatedAt    time.Time
}
