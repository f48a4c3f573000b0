package entity

import "github.com/shopspring/decimal"

// RecipeLine es una arista del BOM (bill of materials): cuánto ingrediente
// consume UNA unidad del plato. Invariante: plato e ingrediente pertenecen
// al mismo restaurante; única por (menu_item, ingredient).
type RecipeLine struct {
	ID           string
	RestaurantID string
	MenuItemID   string
	IngredientID string          // InventoryItem.ID
	Qty          decimal.Decimal // por 1 unidad del plato
}
