package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de compra (artefacto de planificación, no del ledger).
const (
	RequestStatusDraft     = "DRAFT"
	RequestStatusSubmitted = "SUBMITTED"
	RequestStatusApproved  = "APPROVED"
	RequestStatusConverted = "CONVERTED"
	RequestStatusCancelled = "CANCELLED"
)

// Razones de línea de solicitud.
const (
	RequestReasonLowStock = "LOW_STOCK"
	RequestReasonShortage = "SHORTAGE"
)

// PurchaseRequest nace de las alertas del planificador de stock bajo.
// No toca el ledger: se convierte en una PurchaseInvoice DRAFT que luego
// se contabiliza por el flujo normal de compras.
type PurchaseRequest struct {
	ID             string
	RestaurantID   string
	RequestDate    time.Time
	SourcePlanDate *time.Time // fecha del plan de producción que la originó
	Status         string
	Note           string
	// ConvertedInvoiceID referencia a la factura DRAFT creada al convertir.
	ConvertedInvoiceID string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Lines []PurchaseRequestLine
}

// PurchaseRequestLine guarda el snapshot de la alerta que la generó:
// requerido, stock y reorden al momento del cálculo.
type PurchaseRequestLine struct {
	ID            string
	RequestID     string
	RestaurantID  string
	ItemID        string
	RequiredQty   decimal.Decimal
	CurrentStock  decimal.Decimal
	ReorderLevel  decimal.Decimal
	SuggestedQty  decimal.Decimal
	Reason        string
	Note          string
}
