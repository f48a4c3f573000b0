package dto

import (
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest alta de categoría del menú.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse categoría del menú.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateMenuItemRequest alta de plato.
type CreateMenuItemRequest struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

// MenuItemResponse plato del menú.
type MenuItemResponse struct {
	ID          string               `json:"id"`
	CategoryID  string               `json:"category_id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Price       decimal.Decimal      `json:"price"`
	IsAvailable bool                 `json:"is_available"`
	Recipe      []RecipeLineResponse `json:"recipe,omitempty"`
}

// AddRecipeLineRequest agrega un ingrediente a la receta de un plato.
type AddRecipeLineRequest struct {
	ItemID      string          `json:"item_id"`
	QtyPerPlate decimal.Decimal `json:"qty_per_plate"`
}

// RecipeLineResponse ingrediente de una receta.
type RecipeLineResponse struct {
	ID          string          `json:"id"`
	MenuItemID  string          `json:"menu_item_id"`
	ItemID      string          `json:"item_id"`
	QtyPerPlate decimal.Decimal `json:"qty_per_plate"`
}
