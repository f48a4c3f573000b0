package planning_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restostock-api/internal/application/planning"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	planmath "github.com/jhoicas/restostock-api/internal/domain/planning"
	"github.com/jhoicas/restostock-api/internal/infrastructure/memory"
	"github.com/jhoicas/restostock-api/pkg/logger"
)

const restaurantID = "r1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeForecast implementa el puerto del oráculo con una respuesta fija.
type fakeForecast struct {
	result *planning.ForecastResult
	err    error
}

func (f *fakeForecast) PredictMenuDemand(_ context.Context, _ string, _, _ int) (*planning.ForecastResult, error) {
	return f.result, f.err
}

func (f *fakeForecast) Close() {}

type fixture struct {
	repos    reconcile.Repos
	forecast *fakeForecast
	planner  *planning.Planner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	fc := &fakeForecast{}
	p := planning.NewPlanner(repos, memory.NewTxRunner(store), fc, logger.Nop())
	return &fixture{repos: repos, forecast: fc, planner: p}
}

func (f *fixture) seedItem(t *testing.T, name, sku, stock, reorder, cost string) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		SKU:          sku,
		Unit:         entity.UnitKG,
		CurrentStock: d(stock),
		ReorderLevel: d(reorder),
		CostPerUnit:  d(cost),
		IsActive:     true,
	}
	require.NoError(t, f.repos.Items.Create(context.Background(), item))
	return item
}

func (f *fixture) seedSupplier(t *testing.T) *entity.Supplier {
	t.Helper()
	sup := &entity.Supplier{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         "Distribuidora La Plaza",
		IsActive:     true,
	}
	require.NoError(t, f.repos.Suppliers.Create(context.Background(), sup))
	return sup
}

func (f *fixture) seedRecipe(t *testing.T, menuItemID, ingredientID, qty string) {
	t.Helper()
	require.NoError(t, f.repos.Recipes.Create(context.Background(), &entity.RecipeLine{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		MenuItemID:   menuItemID,
		IngredientID: ingredientID,
		Qty:          d(qty),
	}))
}

func (f *fixture) seedRequest(t *testing.T, status string, lines ...entity.PurchaseRequestLine) *entity.PurchaseRequest {
	t.Helper()
	now := time.Now()
	req := &entity.PurchaseRequest{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		RequestDate:  now,
		Status:       status,
		CreatedBy:    "u1",
		CreatedAt:    now,
		UpdatedAt:    now,
		Lines:        lines,
	}
	for i := range req.Lines {
		req.Lines[i].ID = uuid.New().String()
		req.Lines[i].RequestID = req.ID
		req.Lines[i].RestaurantID = restaurantID
	}
	require.NoError(t, f.repos.Requests.Create(context.Background(), req))
	return req
}

func TestComputeLowStockAlerts_SeveridadYOrden(t *testing.T) {
	f := newFixture(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	f.seedItem(t, "Harina 000", "HAR-01", "2", "5", "1.2")
	f.seedItem(t, "Aceite girasol", "ACE-01", "10", "2", "4")

	alerts, sum, err := f.planner.ComputeLowStockAlerts(context.Background(), restaurantID,
		map[string]decimal.Decimal{carne.ID: d("5")})
	require.NoError(t, err)
	assert.Equal(t, planning.Summary{Critical: 1, Low: 1, OK: 1}, sum)

	require.Len(t, alerts, 3)
	assert.Equal(t, "Carne molida", alerts[0].Name)
	assert.Equal(t, planmath.SeverityCritical, alerts[0].Severity)
	assert.True(t, alerts[0].ProjectedRemaining.Equal(d("-2")))
	assert.True(t, alerts[0].SuggestedQty.Equal(d("4")), "sugerido = %s", alerts[0].SuggestedQty)

	assert.Equal(t, "Harina 000", alerts[1].Name)
	assert.Equal(t, planmath.SeverityLow, alerts[1].Severity)
	assert.True(t, alerts[1].SuggestedQty.Equal(d("3")))

	assert.Equal(t, "Aceite girasol", alerts[2].Name)
	assert.Equal(t, planmath.SeverityOK, alerts[2].Severity)
	assert.True(t, alerts[2].SuggestedQty.IsZero())
}

func TestComputeLowStockAlerts_OrdenDentroDeSeveridad(t *testing.T) {
	f := newFixture(t)
	// Ambos LOW: primero el de mayor sugerido, luego por nombre.
	f.seedItem(t, "Harina 000", "HAR-01", "2", "5", "1.2")
	f.seedItem(t, "Azucar blanca", "AZU-01", "1", "5", "1")
	f.seedItem(t, "Vinagre", "VIN-01", "10", "1", "2")
	f.seedItem(t, "Aceite girasol", "ACE-01", "10", "1", "4")

	alerts, _, err := f.planner.ComputeLowStockAlerts(context.Background(), restaurantID, nil)
	require.NoError(t, err)
	require.Len(t, alerts, 4)
	assert.Equal(t, "Azucar blanca", alerts[0].Name) // sugerido 4
	assert.Equal(t, "Harina 000", alerts[1].Name)    // sugerido 3
	assert.Equal(t, "Aceite girasol", alerts[2].Name)
	assert.Equal(t, "Vinagre", alerts[3].Name)
}

func TestBuildIngredientPlan_ExplotaPronosticoPorAlcance(t *testing.T) {
	f := newFixture(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	burgerID := uuid.New().String()
	f.seedRecipe(t, burgerID, carne.ID, "0.15")
	f.forecast.result = &planning.ForecastResult{
		StartDate: "2026-09-02",
		Items: []planning.MenuDemand{
			{MenuItemID: burgerID, MenuItemName: "Hamburguesa", Tomorrow: d("10"), Next7Total: d("40")},
		},
	}

	plan, err := f.planner.BuildIngredientPlan(context.Background(), restaurantID, planning.ScopeTomorrow, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", plan.StartDate)
	require.Len(t, plan.Alerts, 1)
	assert.True(t, plan.Alerts[0].RequiredQty.Equal(d("1.5")), "requerido = %s", plan.Alerts[0].RequiredQty)
	assert.Equal(t, planmath.SeverityLow, plan.Alerts[0].Severity)

	plan7, err := f.planner.BuildIngredientPlan(context.Background(), restaurantID, planning.ScopeNext7, 7, 20)
	require.NoError(t, err)
	require.Len(t, plan7.Alerts, 1)
	assert.True(t, plan7.Alerts[0].RequiredQty.Equal(d("6")))
	assert.Equal(t, planmath.SeverityCritical, plan7.Alerts[0].Severity)
}

func TestBuildIngredientPlan_ReportaPlatosSinReceta(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "Carne molida", "CAR-01", "10", "2", "8")
	flanID := uuid.New().String()
	f.forecast.result = &planning.ForecastResult{
		StartDate: "2026-09-02",
		Items: []planning.MenuDemand{
			{MenuItemID: flanID, MenuItemName: "Flan casero", Tomorrow: d("5"), Next7Total: d("20")},
		},
	}

	plan, err := f.planner.BuildIngredientPlan(context.Background(), restaurantID, planning.ScopeTomorrow, 1, 20)
	require.NoError(t, err)
	require.Len(t, plan.MissingRecipes, 1)
	assert.Equal(t, flanID, plan.MissingRecipes[0].MenuItemID)
	assert.Equal(t, "Flan casero", plan.MissingRecipes[0].MenuItemName)
}

func TestBuildIngredientPlan_AlcanceInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.planner.BuildIngredientPlan(context.Background(), restaurantID, "next30", 30, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildIngredientPlan_OraculoCaido(t *testing.T) {
	f := newFixture(t)
	f.forecast.err = errors.New("connection refused")

	_, err := f.planner.BuildIngredientPlan(context.Background(), restaurantID, planning.ScopeTomorrow, 1, 20)
	assert.ErrorIs(t, err, domain.ErrForecastUnavailable)
}

func TestConvertAlertsToPurchaseRequest_SoloAlertasAccionables(t *testing.T) {
	f := newFixture(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	harina := f.seedItem(t, "Harina 000", "HAR-01", "2", "5", "1.2")
	f.seedItem(t, "Aceite girasol", "ACE-01", "10", "2", "4")

	alerts, _, err := f.planner.ComputeLowStockAlerts(context.Background(), restaurantID,
		map[string]decimal.Decimal{carne.ID: d("5")})
	require.NoError(t, err)

	req, err := f.planner.ConvertAlertsToPurchaseRequest(context.Background(), restaurantID, "u1", alerts, "reposición semanal")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusDraft, req.Status)
	assert.Equal(t, "reposición semanal", req.Note)
	require.Len(t, req.Lines, 2)

	assert.Equal(t, carne.ID, req.Lines[0].ItemID)
	assert.Equal(t, entity.RequestReasonShortage, req.Lines[0].Reason)
	assert.True(t, req.Lines[0].RequiredQty.Equal(d("5")))
	assert.True(t, req.Lines[0].CurrentStock.Equal(d("3")))
	assert.True(t, req.Lines[0].SuggestedQty.Equal(d("4")))

	assert.Equal(t, harina.ID, req.Lines[1].ItemID)
	assert.Equal(t, entity.RequestReasonLowStock, req.Lines[1].Reason)

	stored, err := f.repos.Requests.GetByID(context.Background(), restaurantID, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Lines, 2)
}

func TestConvertAlertsToPurchaseRequest_SinAccionables(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "Aceite girasol", "ACE-01", "10", "2", "4")

	alerts, _, err := f.planner.ComputeLowStockAlerts(context.Background(), restaurantID, nil)
	require.NoError(t, err)

	_, err = f.planner.ConvertAlertsToPurchaseRequest(context.Background(), restaurantID, "u1", alerts, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConvertRequestToDraftInvoice_CostoVigenteYMarcaConverted(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8.5")
	req := f.seedRequest(t, entity.RequestStatusApproved, entity.PurchaseRequestLine{
		ItemID:       carne.ID,
		RequiredQty:  d("5"),
		CurrentStock: d("3"),
		ReorderLevel: d("2"),
		SuggestedQty: d("4"),
		Reason:       entity.RequestReasonShortage,
	})

	inv, err := f.planner.ConvertRequestToDraftInvoice(context.Background(), restaurantID, "u1", req.ID, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusDraft, inv.Status)
	require.Len(t, inv.Lines, 1)
	assert.True(t, inv.Lines[0].Qty.Equal(d("4")))
	assert.True(t, inv.Lines[0].UnitCost.Equal(d("8.5")))
	assert.True(t, inv.Total.Equal(d("34")), "total = %s", inv.Total)

	fresh, err := f.repos.Requests.GetByID(context.Background(), restaurantID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusConverted, fresh.Status)
	assert.Equal(t, inv.ID, fresh.ConvertedInvoiceID)

	stored, err := f.repos.Invoices.GetByID(context.Background(), restaurantID, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.PurchaseStatusDraft, stored.Status)
}

func TestConvertRequestToDraftInvoice_EstadosTerminales(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	line := entity.PurchaseRequestLine{ItemID: carne.ID, SuggestedQty: d("4")}

	for _, status := range []string{entity.RequestStatusConverted, entity.RequestStatusCancelled} {
		req := f.seedRequest(t, status, line)
		_, err := f.planner.ConvertRequestToDraftInvoice(context.Background(), restaurantID, "u1", req.ID, sup.ID)
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s", status)
	}
}

func TestConvertRequestToDraftInvoice_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	req := f.seedRequest(t, entity.RequestStatusApproved,
		entity.PurchaseRequestLine{ItemID: carne.ID, SuggestedQty: d("4")})

	_, err := f.planner.ConvertRequestToDraftInvoice(context.Background(), restaurantID, "u1", req.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDraftFromForecast_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedItem(t, "Carne molida", "CAR-01", "3", "2", "8")
	burgerID := uuid.New().String()
	f.seedRecipe(t, burgerID, carne.ID, "0.5")
	f.forecast.result = &planning.ForecastResult{
		StartDate: "2026-09-02",
		Items: []planning.MenuDemand{
			{MenuItemID: burgerID, MenuItemName: "Hamburguesa", Tomorrow: d("10"), Next7Total: d("40")},
		},
	}

	inv, plan, err := f.planner.CreateDraftFromForecast(context.Background(), restaurantID, "u1", planning.ForecastDraftInput{
		Scope:       planning.ScopeTomorrow,
		HorizonDays: 1,
		TopN:        20,
		SupplierID:  sup.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, entity.PurchaseStatusDraft, inv.Status)
	require.Len(t, inv.Lines, 1)
	// requerido 5, stock 3, reorden 2 -> sugerido 4 al costo vigente.
	assert.True(t, inv.Lines[0].Qty.Equal(d("4")))
	assert.True(t, inv.Lines[0].UnitCost.Equal(d("8")))
	assert.True(t, inv.Total.Equal(d("32")))
}

func TestCreateDraftFromForecast_SinNadaQueComprar(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	f.seedItem(t, "Carne molida", "CAR-01", "100", "2", "8")
	f.forecast.result = &planning.ForecastResult{StartDate: "2026-09-02"}

	_, _, err := f.planner.CreateDraftFromForecast(context.Background(), restaurantID, "u1", planning.ForecastDraftInput{
		Scope:       planning.ScopeTomorrow,
		HorizonDays: 1,
		TopN:        20,
		SupplierID:  sup.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransicionesDeSolicitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.seedRequest(t, entity.RequestStatusDraft)
	require.NoError(t, f.planner.SubmitPurchaseRequest(ctx, restaurantID, req.ID))

	// Aprobar solo desde SUBMITTED.
	require.NoError(t, f.planner.ApprovePurchaseRequest(ctx, restaurantID, req.ID))
	assert.ErrorIs(t, f.planner.ApprovePurchaseRequest(ctx, restaurantID, req.ID), domain.ErrConflict)

	// Cancelar solo desde DRAFT o SUBMITTED.
	assert.ErrorIs(t, f.planner.CancelPurchaseRequest(ctx, restaurantID, req.ID), domain.ErrConflict)

	other := f.seedRequest(t, entity.RequestStatusSubmitted)
	require.NoError(t, f.planner.CancelPurchaseRequest(ctx, restaurantID, other.ID))

	fresh, err := f.planner.GetPurchaseRequest(ctx, restaurantID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusCancelled, fresh.Status)

	assert.ErrorIs(t, f.planner.SubmitPurchaseRequest(ctx, restaurantID, "no-existe"), domain.ErrNotFound)
}
