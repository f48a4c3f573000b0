package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientAlert una fila del tablero de stock bajo.
type IngredientAlert struct {
	ItemID             string          `json:"item_id"`
	Name               string          `json:"name"`
	SKU                string          `json:"sku"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	RequiredQty        decimal.Decimal `json:"required_qty"`
	ProjectedRemaining decimal.Decimal `json:"projected_remaining"`
	SuggestedQty       decimal.Decimal `json:"suggested_qty"`
	Severity           string          `json:"severity"`
}

// AlertSummary conteos por severidad.
type AlertSummary struct {
	Critical int `json:"critical"`
	Low      int `json:"low"`
	OK       int `json:"ok"`
}

// AlertSet respuesta completa del tablero.
type AlertSet struct {
	Scope          string            `json:"scope"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Summary        AlertSummary      `json:"summary"`
	Alerts         []IngredientAlert `json:"alerts"`
	MissingRecipes []MissingRecipe   `json:"missing_recipes,omitempty"`
}

// MissingRecipe plato demandado sin receta cargada.
type MissingRecipe struct {
	MenuItemID   string `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
}

// PlanItemDemand demanda pronosticada de un plato dentro del plan.
type PlanItemDemand struct {
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// IngredientPlan plan de compras derivado del pronóstico de demanda.
type IngredientPlan struct {
	Scope          string            `json:"scope"`
	StartDate      string            `json:"start_date"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Demand         []PlanItemDemand  `json:"demand"`
	Summary        AlertSummary      `json:"summary"`
	Alerts         []IngredientAlert `json:"alerts"`
	MissingRecipes []MissingRecipe   `json:"missing_recipes,omitempty"`
}

// ConvertAlertsRequest body para materializar alertas en una solicitud de
// compra. Si ItemIDs está vacío se toman todas las alertas no-OK.
type ConvertAlertsRequest struct {
	Scope   string   `json:"scope,omitempty"`
	ItemIDs []string `json:"item_ids,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// ConvertRequestRequest body para convertir una solicitud aprobada en
// factura de compra borrador.
type ConvertRequestRequest struct {
	SupplierID string `json:"supplier_id"`
}

// PurchaseRequestLineResponse línea de una solicitud de compra. Los campos
// de stock son el snapshot al momento del cálculo, no el estado actual.
type PurchaseRequestLineResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Reason       string          `json:"reason"`
	Note         string          `json:"note,omitempty"`
}

// PurchaseRequestResponse solicitud de compra de cocina.
type PurchaseRequestResponse struct {
	ID          string                        `json:"id"`
	RequestDate time.Time                     `json:"request_date"`
	Status      string                        `json:"status"`
	Note        string                        `json:"note,omitempty"`
	CreatedBy   string                        `json:"created_by"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	ConvertedTo string                        `json:"converted_to,omitempty"`
	Lines       []PurchaseRequestLineResponse `json:"lines"`
}
