package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de los insumos.
const (
	UnitKG    = "kg"
	UnitG     = "g"
	UnitL     = "l"
	UnitML    = "ml"
	UnitUnits = "units"
)

// InventoryItem es un insumo rastreado por el ledger. CurrentStock es el
// saldo materializado: redundante con la suma de movimientos pero autoritativo
// para lecturas; solo el ledger lo muta, junto con el movimiento que lo
// justifica, en la misma transacción. Invariante: nunca negativo.
type InventoryItem struct {
	ID           string
	RestaurantID string
	Name         string
	SKU          string // único por restaurante
	Unit         string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	CostPerUnit  decimal.Decimal // last-cost: lo sobreescribe cada compra contabilizada
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidUnit valida la unidad de medida.
func IsValidUnit(u string) bool {
	switch u {
	case UnitKG, UnitG, UnitL, UnitML, UnitUnits:
		return true
	}
	return false
}

// IsLowStock indica si el ítem está en o debajo de su nivel de reorden.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderLevel)
}
