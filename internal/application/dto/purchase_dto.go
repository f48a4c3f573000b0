package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de una factura de compra.
type PurchaseLineRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest body para registrar una factura de compra.
// InvoiceDate en cero usa la fecha actual.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplier_id"`
	InvoiceNumber string                `json:"invoice_number,omitempty"`
	InvoiceDate   time.Time             `json:"invoice_date,omitempty"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	Notes         string                `json:"notes,omitempty"`
	Lines         []PurchaseLineRequest `json:"lines"`
}

// VoidPurchaseRequest body para anular una factura de compra.
type VoidPurchaseRequest struct {
	Reason string `json:"reason"`
}

// PurchaseLineResponse línea de factura.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseResponse factura de compra.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	SupplierID    string                 `json:"supplier_id"`
	InvoiceNumber string                 `json:"invoice_number,omitempty"`
	Status        string                 `json:"status"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Discount      decimal.Decimal        `json:"discount"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Notes         string                 `json:"notes,omitempty"`
	VoidedAt      *time.Time             `json:"voided_at,omitempty"`
	VoidReason    string                 `json:"void_reason,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
	Lines         []PurchaseLineResponse `json:"lines"`
}
