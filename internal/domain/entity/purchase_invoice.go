package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de compra.
const (
	PurchaseStatusDraft  = "DRAFT"
	PurchaseStatusPosted = "POSTED"
	PurchaseStatusVoid   = "VOID"
)

// PurchaseInvoice es una transacción de abastecimiento. POSTED genera
// movimientos IN por cada línea; VOID genera las reversas OUT exactamente
// una vez. VOID es un estado terminal: no se puede re-anular ni re-contabilizar.
type PurchaseInvoice struct {
	ID           string
	RestaurantID string
	SupplierID   string
	InvoiceNo    string // número de factura del proveedor, opcional
	InvoiceDate  time.Time
	Status       string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Note         string
	VoidedAt     *time.Time
	VoidedBy     string
	VoidReason   string
	CreatedBy    string
	CreatedAt    time.Time

	Lines []PurchaseLine
}

// PurchaseLine línea de compra: qty y costo unitario al momento de la compra.
type PurchaseLine struct {
	ID           string
	InvoiceID    string
	RestaurantID string
	ItemID       string
	Qty          decimal.Decimal
	UnitCost     decimal.Decimal
	LineTotal    decimal.Decimal
	SortOrder    int
}
