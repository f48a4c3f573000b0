package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusDraft = "DRAFT"
	SaleStatusPaid  = "PAID"
	SaleStatusVoid  = "VOID"
)

// Métodos de pago.
const (
	PaymentCash   = "CASH"
	PaymentCard   = "CARD"
	PaymentOnline = "ONLINE"
)

// Sale es una transacción de demanda. InventoryDeducted es la bandera de
// idempotencia: el descuento de inventario se aplica a lo sumo una vez,
// cuando la venta pasa a PAID.
type Sale struct {
	ID                string
	RestaurantID      string
	CustomerName      string
	Status            string
	PaymentMethod     string
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
	Notes             string
	InventoryDeducted bool
	SoldAt            time.Time
	CreatedBy         string
	CreatedAt         time.Time

	Items []SaleItem
}

// SaleItem es una línea de venta con snapshot de nombre y precio
// (el menú puede cambiar después).
type SaleItem struct {
	ID           string
	SaleID       string
	RestaurantID string
	MenuItemID   string // vacío si es línea libre sin plato del menú
	Name         string
	Qty          int
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
	SortOrder    int
}

// IsValidSaleStatus valida el estado de la venta.
func IsValidSaleStatus(s string) bool {
	return s == SaleStatusDraft || s == SaleStatusPaid || s == SaleStatusVoid
}

// IsValidPaymentMethod valida el método de pago.
func IsValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentOnline
}
