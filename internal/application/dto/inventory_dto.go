package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de ítem de inventario.
type CreateItemRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

// UpdateItemRequest edición de metadatos del ítem. El stock NO se edita por
// acá: solo vía movimientos.
type UpdateItemRequest struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

// ItemResponse ítem de inventario.
type ItemResponse struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	IsActive     bool            `json:"is_active"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RegisterMovementRequest body para registrar un movimiento manual.
// Quantity positiva para IN/OUT; con signo para ADJUST.
type RegisterMovementRequest struct {
	ItemID   string          `json:"item_id"`
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// MovementResponse una entrada del ledger.
type MovementResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerCheckResponse resultado de la verificación de conciliación de un
// ítem: el saldo materializado contra la suma con signo de sus movimientos.
type LedgerCheckResponse struct {
	ItemID       string          `json:"item_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MovementSum  decimal.Decimal `json:"movement_sum"`
	Consistent   bool            `json:"consistent"`
}
