package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN     = "IN"     // entrada (compra, devolución)
	MovementTypeOUT    = "OUT"    // salida (venta, merma, reversa de compra)
	MovementTypeADJUST = "ADJUST" // ajuste manual (+/-)
)

// Razones estándar de movimiento. El campo Reason es texto libre pero el motor
// usa estas constantes para sus propios movimientos.
const (
	ReasonPurchase     = "Purchase"
	ReasonPurchaseVoid = "Purchase void"
	ReasonSale         = "Sale"
	ReasonManual       = "Manual"
)

// StockMovement es una entrada inmutable del ledger de inventario.
// Nunca se actualiza ni se borra; las correcciones se hacen escribiendo
// nuevos movimientos ADJUST. Quantity es positiva para IN/OUT y con signo
// para ADJUST (delta).
type StockMovement struct {
	ID           string
	RestaurantID string
	ItemID       string
	Type         string // IN, OUT, ADJUST
	Quantity     decimal.Decimal
	Reason       string
	Note         string
	CreatedBy    string // UserID del actor, para auditoría
	CreatedAt    time.Time
}

// SignedDelta devuelve el efecto del movimiento sobre el saldo:
// +Quantity para IN, -Quantity para OUT, Quantity tal cual para ADJUST.
func (m *StockMovement) SignedDelta() decimal.Decimal {
	switch m.Type {
	case MovementTypeIN:
		return m.Quantity
	case MovementTypeOUT:
		return m.Quantity.Neg()
	default:
		return m.Quantity
	}
}

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST:
		return true
	}
	return false
}
