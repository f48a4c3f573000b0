// Package planning implementa el planificador de stock bajo: proyecta el
// efecto de la demanda pronosticada sobre el inventario, clasifica cada
// ingrediente por severidad y materializa las alertas en solicitudes de
// compra o facturas borrador. Solo lee saldos (read-committed alcanza);
// nunca toca el ledger directamente.
package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	planmath "github.com/jhoicas/restostock-api/internal/domain/planning"
	"github.com/jhoicas/restostock-api/internal/domain/recipe"
	"github.com/jhoicas/restostock-api/pkg/logger"
)

// Alcances de planificación soportados.
const (
	ScopeTomorrow = "tomorrow"
	ScopeNext7    = "next7"
)

// Planner orquesta el tablero de stock bajo y el ciclo de vida de las
// solicitudes de compra.
type Planner struct {
	reader   reconcile.Repos
	tx       reconcile.TxRunner
	forecast ForecastProvider
	log      *logger.Logger
}

// NewPlanner construye el planificador.
func NewPlanner(reader reconcile.Repos, tx reconcile.TxRunner, forecast ForecastProvider, log *logger.Logger) *Planner {
	return &Planner{reader: reader, tx: tx, forecast: forecast, log: log}
}

// Alert una fila del tablero: el ítem con su requerimiento y proyección.
type Alert struct {
	ItemID             string
	Name               string
	SKU                string
	Unit               string
	CurrentStock       decimal.Decimal
	ReorderLevel       decimal.Decimal
	RequiredQty        decimal.Decimal
	ProjectedRemaining decimal.Decimal
	SuggestedQty       decimal.Decimal
	Severity           string
}

// Summary conteos por severidad.
type Summary struct {
	Critical int
	Low      int
	OK       int
}

// Plan resultado de BuildIngredientPlan: demanda pronosticada, alertas y
// platos sin receta.
type Plan struct {
	Scope          string
	StartDate      string
	GeneratedAt    time.Time
	Demand         []MenuDemand
	Summary        Summary
	Alerts         []Alert
	MissingRecipes []reconcile.MissingRecipeWarning
}

// ComputeLowStockAlerts clasifica TODOS los ítems activos del restaurante
// contra el vector de requerimientos dado (requirement puede ser nil: entonces
// la severidad sale solo de stock vs reorden). Orden: CRITICAL, LOW, OK;
// dentro de cada severidad, sugerido descendente y nombre como desempate.
func (p *Planner) ComputeLowStockAlerts(ctx context.Context, restaurantID string, requirement map[string]decimal.Decimal) ([]Alert, Summary, error) {
	items, err := p.reader.Items.List(ctx, restaurantID, true, 0, 0)
	if err != nil {
		return nil, Summary{}, err
	}

	alerts := make([]Alert, 0, len(items))
	var sum Summary
	for _, it := range items {
		required := requirement[it.ID]
		proj := planmath.Project(it.CurrentStock, it.ReorderLevel, required)
		alerts = append(alerts, Alert{
			ItemID:             it.ID,
			Name:               it.Name,
			SKU:                it.SKU,
			Unit:               it.Unit,
			CurrentStock:       it.CurrentStock,
			ReorderLevel:       it.ReorderLevel,
			RequiredQty:        required.Round(2),
			ProjectedRemaining: proj.ProjectedRemaining,
			SuggestedQty:       proj.SuggestedQty,
			Severity:           proj.Severity,
		})
		switch proj.Severity {
		case planmath.SeverityCritical:
			sum.Critical++
		case planmath.SeverityLow:
			sum.Low++
		default:
			sum.OK++
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := planmath.SeverityRank(alerts[i].Severity), planmath.SeverityRank(alerts[j].Severity)
		if ri != rj {
			return ri < rj
		}
		if !alerts[i].SuggestedQty.Equal(alerts[j].SuggestedQty) {
			return alerts[i].SuggestedQty.GreaterThan(alerts[j].SuggestedQty)
		}
		return alerts[i].Name < alerts[j].Name
	})
	return alerts, sum, nil
}

// BuildIngredientPlan pide al oráculo la demanda por plato, la explota por
// recetas y devuelve el tablero de alertas resultante. Si el oráculo no
// responde, falla con ErrForecastUnavailable sin efecto alguno.
func (p *Planner) BuildIngredientPlan(ctx context.Context, restaurantID, scope string, horizonDays, topN int) (*Plan, error) {
	if scope != ScopeTomorrow && scope != ScopeNext7 {
		return nil, fmt.Errorf("%w: alcance %q (se espera %s o %s)", domain.ErrInvalidInput, scope, ScopeTomorrow, ScopeNext7)
	}

	fc, err := p.forecast.PredictMenuDemand(ctx, restaurantID, horizonDays, topN)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrForecastUnavailable, err)
	}

	demand := make(map[string]decimal.Decimal, len(fc.Items))
	names := make(map[string]string, len(fc.Items))
	for _, d := range fc.Items {
		qty := d.Tomorrow
		if scope == ScopeNext7 {
			qty = d.Next7Total
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		demand[d.MenuItemID] = demand[d.MenuItemID].Add(qty)
		names[d.MenuItemID] = d.MenuItemName
	}

	var exp recipe.Explosion
	if len(demand) > 0 {
		menuIDs := make([]string, 0, len(demand))
		for id := range demand {
			menuIDs = append(menuIDs, id)
		}
		lines, err := p.reader.Recipes.ListByMenuItems(ctx, restaurantID, menuIDs)
		if err != nil {
			return nil, err
		}
		exp = recipe.Explode(demand, lines)
	}

	alerts, sum, err := p.ComputeLowStockAlerts(ctx, restaurantID, exp.Required)
	if err != nil {
		return nil, err
	}

	missing := make([]reconcile.MissingRecipeWarning, 0, len(exp.MissingRecipe))
	for _, id := range exp.MissingRecipe {
		missing = append(missing, reconcile.MissingRecipeWarning{MenuItemID: id, MenuItemName: names[id]})
	}

	plan := &Plan{
		Scope:          scope,
		StartDate:      fc.StartDate,
		GeneratedAt:    time.Now(),
		Demand:         fc.Items,
		Summary:        sum,
		Alerts:         alerts,
		MissingRecipes: missing,
	}
	p.log.Info().
		Str("restaurant_id", restaurantID).
		Str("scope", scope).
		Int("critical", sum.Critical).
		Int("low", sum.Low).
		Int("missing_recipes", len(missing)).
		Msg("plan de ingredientes generado")
	return plan, nil
}

// ConvertAlertsToPurchaseRequest materializa las alertas no-OK en una solicitud
// de compra DRAFT, con snapshot por línea de requerido/stock/reorden/sugerido.
// Sin alertas accionables no hay nada que pedir: ErrInvalidInput.
func (p *Planner) ConvertAlertsToPurchaseRequest(ctx context.Context, restaurantID, actorID string, alerts []Alert, note string) (*entity.PurchaseRequest, error) {
	now := time.Now()
	req := &entity.PurchaseRequest{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		RequestDate:  now,
		Status:       entity.RequestStatusDraft,
		Note:         note,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, a := range alerts {
		if a.Severity == planmath.SeverityOK || !a.SuggestedQty.GreaterThan(decimal.Zero) {
			continue
		}
		reason := entity.RequestReasonLowStock
		if a.Severity == planmath.SeverityCritical {
			reason = entity.RequestReasonShortage
		}
		req.Lines = append(req.Lines, entity.PurchaseRequestLine{
			ID:           uuid.New().String(),
			RequestID:    req.ID,
			RestaurantID: restaurantID,
			ItemID:       a.ItemID,
			RequiredQty:  a.RequiredQty,
			CurrentStock: a.CurrentStock,
			ReorderLevel: a.ReorderLevel,
			SuggestedQty: a.SuggestedQty,
			Reason:       reason,
		})
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: ninguna alerta accionable para convertir", domain.ErrInvalidInput)
	}

	err := p.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("restaurant_id", restaurantID).
		Str("request_id", req.ID).
		Int("lines", len(req.Lines)).
		Msg("solicitud de compra creada desde alertas")
	return req, nil
}

// ConvertRequestToDraftInvoice arma una factura de compra DRAFT con las
// cantidades sugeridas de la solicitud, al cost_per_unit vigente de cada ítem,
// y marca la solicitud CONVERTED. CANCELLED y CONVERTED no se convierten.
// La factura resultante se contabiliza por el flujo normal (PostDraftInvoice).
func (p *Planner) ConvertRequestToDraftInvoice(ctx context.Context, restaurantID, actorID, requestID, supplierID string) (*entity.PurchaseInvoice, error) {
	req, err := p.reader.Requests.GetByID(ctx, restaurantID, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	if req.Status == entity.RequestStatusConverted || req.Status == entity.RequestStatusCancelled {
		return nil, fmt.Errorf("%w: la solicitud está %s y no puede convertirse", domain.ErrConflict, req.Status)
	}
	supplier, err := p.reader.Suppliers.GetByID(ctx, restaurantID, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, supplierID)
	}

	itemIDs := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.SuggestedQty.GreaterThan(decimal.Zero) {
			itemIDs = append(itemIDs, l.ItemID)
		}
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: la solicitud no tiene cantidades sugeridas", domain.ErrInvalidInput)
	}
	items, err := p.reader.Items.ListByIDs(ctx, restaurantID, itemIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	now := time.Now()
	inv := &entity.PurchaseInvoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   supplierID,
		InvoiceDate:  now,
		Status:       entity.PurchaseStatusDraft,
		Discount:     decimal.Zero,
		Tax:          decimal.Zero,
		Note:         fmt.Sprintf("From PurchaseRequest #%s", requestID),
		CreatedBy:    actorID,
		CreatedAt:    now,
	}
	subtotal := decimal.Zero
	for idx, l := range req.Lines {
		if !l.SuggestedQty.GreaterThan(decimal.Zero) {
			continue
		}
		item, ok := byID[l.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, l.ItemID)
		}
		qty := l.SuggestedQty.Round(2)
		unitCost := item.CostPerUnit.Round(2)
		lineTotal := qty.Mul(unitCost).Round(2)
		subtotal = subtotal.Add(lineTotal)
		inv.Lines = append(inv.Lines, entity.PurchaseLine{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			RestaurantID: restaurantID,
			ItemID:       l.ItemID,
			Qty:          qty,
			UnitCost:     unitCost,
			LineTotal:    lineTotal,
			SortOrder:    idx,
		})
	}
	inv.Subtotal = subtotal.Round(2)
	inv.Total = inv.Subtotal

	err = p.tx.Run(ctx, func(r reconcile.Repos) error {
		fresh, err := r.Requests.GetByID(ctx, restaurantID, requestID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
		}
		if fresh.Status == entity.RequestStatusConverted || fresh.Status == entity.RequestStatusCancelled {
			return fmt.Errorf("%w: la solicitud está %s y no puede convertirse", domain.ErrConflict, fresh.Status)
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		return r.Requests.MarkConverted(ctx, restaurantID, requestID, inv.ID)
	})
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("restaurant_id", restaurantID).
		Str("request_id", requestID).
		Str("invoice_id", inv.ID).
		Msg("solicitud convertida en factura borrador")
	return inv, nil
}

// ForecastDraftInput entrada de CreateDraftFromForecast.
type ForecastDraftInput struct {
	Scope       string
	HorizonDays int
	TopN        int
	SupplierID  string
}

// CreateDraftFromForecast atajo del flujo completo: pronóstico -> plan ->
// factura DRAFT con las cantidades sugeridas no-OK, al costo vigente.
func (p *Planner) CreateDraftFromForecast(ctx context.Context, restaurantID, actorID string, in ForecastDraftInput) (*entity.PurchaseInvoice, *Plan, error) {
	supplier, err := p.reader.Suppliers.GetByID(ctx, restaurantID, in.SupplierID)
	if err != nil {
		return nil, nil, err
	}
	if supplier == nil {
		return nil, nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	plan, err := p.BuildIngredientPlan(ctx, restaurantID, in.Scope, in.HorizonDays, in.TopN)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	inv := &entity.PurchaseInvoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   in.SupplierID,
		InvoiceDate:  now,
		Status:       entity.PurchaseStatusDraft,
		Discount:     decimal.Zero,
		Tax:          decimal.Zero,
		Note:         fmt.Sprintf("From forecast (%s)", plan.Scope),
		CreatedBy:    actorID,
		CreatedAt:    now,
	}
	subtotal := decimal.Zero
	idx := 0
	for _, a := range plan.Alerts {
		if a.Severity == planmath.SeverityOK || !a.SuggestedQty.GreaterThan(decimal.Zero) {
			continue
		}
		item, err := p.reader.Items.GetByID(ctx, restaurantID, a.ItemID)
		if err != nil {
			return nil, nil, err
		}
		if item == nil {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, a.ItemID)
		}
		qty := a.SuggestedQty.Round(2)
		unitCost := item.CostPerUnit.Round(2)
		lineTotal := qty.Mul(unitCost).Round(2)
		subtotal = subtotal.Add(lineTotal)
		inv.Lines = append(inv.Lines, entity.PurchaseLine{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			RestaurantID: restaurantID,
			ItemID:       a.ItemID,
			Qty:          qty,
			UnitCost:     unitCost,
			LineTotal:    lineTotal,
			SortOrder:    idx,
		})
		idx++
	}
	if len(inv.Lines) == 0 {
		return nil, nil, fmt.Errorf("%w: el pronóstico no genera cantidades a comprar", domain.ErrInvalidInput)
	}
	inv.Subtotal = subtotal.Round(2)
	inv.Total = inv.Subtotal

	err = p.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, nil, err
	}

	p.log.Info().
		Str("restaurant_id", restaurantID).
		Str("invoice_id", inv.ID).
		Str("scope", plan.Scope).
		Int("lines", len(inv.Lines)).
		Msg("factura borrador creada desde pronóstico")
	return inv, plan, nil
}

// SubmitPurchaseRequest DRAFT -> SUBMITTED.
func (p *Planner) SubmitPurchaseRequest(ctx context.Context, restaurantID, requestID string) error {
	return p.transitionRequest(ctx, restaurantID, requestID, entity.RequestStatusSubmitted, entity.RequestStatusDraft)
}

// ApprovePurchaseRequest SUBMITTED -> APPROVED.
func (p *Planner) ApprovePurchaseRequest(ctx context.Context, restaurantID, requestID string) error {
	return p.transitionRequest(ctx, restaurantID, requestID, entity.RequestStatusApproved, entity.RequestStatusSubmitted)
}

// CancelPurchaseRequest DRAFT|SUBMITTED -> CANCELLED.
func (p *Planner) CancelPurchaseRequest(ctx context.Context, restaurantID, requestID string) error {
	return p.transitionRequest(ctx, restaurantID, requestID, entity.RequestStatusCancelled,
		entity.RequestStatusDraft, entity.RequestStatusSubmitted)
}

func (p *Planner) transitionRequest(ctx context.Context, restaurantID, requestID, to string, from ...string) error {
	return p.tx.Run(ctx, func(r reconcile.Repos) error {
		req, err := r.Requests.GetByID(ctx, restaurantID, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
		}
		for _, f := range from {
			if req.Status == f {
				return r.Requests.SetStatus(ctx, restaurantID, requestID, to)
			}
		}
		return fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, req.Status, to)
	})
}

// GetPurchaseRequest detalle de una solicitud.
func (p *Planner) GetPurchaseRequest(ctx context.Context, restaurantID, requestID string) (*entity.PurchaseRequest, error) {
	req, err := p.reader.Requests.GetByID(ctx, restaurantID, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	return req, nil
}

// ListPurchaseRequests lista solicitudes, opcionalmente por estado.
func (p *Planner) ListPurchaseRequests(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	return p.reader.Requests.List(ctx, restaurantID, status, limit, offset)
}
