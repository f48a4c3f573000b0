package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleLineRequest línea de una venta.
type CreateSaleLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateSaleRequest body para registrar una venta.
type CreateSaleRequest struct {
	PaymentMethod string                  `json:"payment_method"`
	Status        string                  `json:"status,omitempty"`
	Items         []CreateSaleLineRequest `json:"items"`
}

// SaleLineResponse línea de venta con precio congelado al momento de la
// operación.
type SaleLineResponse struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id,omitempty"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SaleResponse venta.
type SaleResponse struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	PaymentMethod     string             `json:"payment_method"`
	Total             decimal.Decimal    `json:"total"`
	InventoryDeducted bool               `json:"inventory_deducted"`
	CreatedBy         string             `json:"created_by"`
	CreatedAt         time.Time          `json:"created_at"`
	Items             []SaleLineResponse `json:"items"`
}

// DeductionResponse resultado de aplicar la baja de inventario de una venta.
// Movements es la cantidad de movimientos OUT escritos (cero si la venta ya
// estaba aplicada).
type DeductionResponse struct {
	SaleID         string          `json:"sale_id"`
	AlreadyApplied bool            `json:"already_applied"`
	Movements      int             `json:"movements"`
	MissingRecipes []MissingRecipe `json:"missing_recipes,omitempty"`
}
