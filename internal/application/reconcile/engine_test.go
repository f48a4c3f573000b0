package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/infrastructure/memory"
	"github.com/jhoicas/restostock-api/pkg/logger"
)

const restaurantID = "r1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store  *memory.Store
	repos  reconcile.Repos
	engine *reconcile.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	locks := ledger.NewItemLockManager(2 * time.Second)
	eng := reconcile.NewEngine(memory.NewTxRunner(store), locks, repos, logger.Nop())
	return &fixture{store: store, repos: repos, engine: eng}
}

func (f *fixture) seedIngredient(t *testing.T, name, sku, stock string) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		SKU:          sku,
		Unit:         entity.UnitKG,
		CurrentStock: d(stock),
		ReorderLevel: d("5"),
		IsActive:     true,
	}
	require.NoError(t, f.repos.Items.Create(context.Background(), item))
	return item
}

func (f *fixture) seedMenuItem(t *testing.T, name string, recipe map[string]string) *entity.MenuItem {
	t.Helper()
	mi := &entity.MenuItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        d("12"),
		IsAvailable:  true,
	}
	require.NoError(t, f.repos.Menu.CreateMenuItem(context.Background(), mi))
	for ingredientID, qty := range recipe {
		require.NoError(t, f.repos.Recipes.Create(context.Background(), &entity.RecipeLine{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			MenuItemID:   mi.ID,
			IngredientID: ingredientID,
			Qty:          d(qty),
		}))
	}
	return mi
}

func (f *fixture) seedSale(t *testing.T, status string, items ...entity.SaleItem) *entity.Sale {
	t.Helper()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Status:       status,
		SoldAt:       time.Now(),
		CreatedBy:    "u1",
		Items:        items,
	}
	for i := range sale.Items {
		sale.Items[i].ID = uuid.New().String()
		sale.Items[i].SaleID = sale.ID
		sale.Items[i].RestaurantID = restaurantID
	}
	require.NoError(t, f.repos.Sales.Create(context.Background(), sale))
	return sale
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

func (f *fixture) stock(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	item, err := f.repos.Items.GetByID(context.Background(), restaurantID, itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.CurrentStock
}

func (f *fixture) movements(t *testing.T, itemID string) []*entity.StockMovement {
	t.Helper()
	movs, err := f.repos.Movements.ListByItem(context.Background(), restaurantID, itemID, 0, 0)
	require.NoError(t, err)
	return movs
}

func TestApplySaleDeduction_DescuentaSegunReceta(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")
	pan := f.seedIngredient(t, "Pan de hamburguesa", "PAN-01", "20")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15", pan.ID: "1"})
	sale := f.seedSale(t, entity.SaleStatusPaid, entity.SaleItem{MenuItemID: burger.ID, Name: "Hamburguesa", Qty: 2})

	res, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyApplied)
	assert.Equal(t, 2, res.Movements)
	assert.Empty(t, res.MissingRecipes)

	assert.True(t, f.stock(t, carne.ID).Equal(d("9.7")), "carne = %s", f.stock(t, carne.ID))
	assert.True(t, f.stock(t, pan.ID).Equal(d("18")), "pan = %s", f.stock(t, pan.ID))

	movs := f.movements(t, carne.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, entity.ReasonSale, movs[0].Reason)
	assert.Equal(t, "Auto-deduct for Sale #"+sale.ID, movs[0].Note)
}

func TestApplySaleDeduction_Idempotente(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15"})
	sale := f.seedSale(t, entity.SaleStatusPaid, entity.SaleItem{MenuItemID: burger.ID, Qty: 1})

	_, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)

	res, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyApplied)
	assert.Equal(t, 0, res.Movements)

	// Ni el saldo ni el ledger cambian en la segunda aplicación.
	assert.True(t, f.stock(t, carne.ID).Equal(d("9.85")))
	assert.Len(t, f.movements(t, carne.ID), 1)
}

func TestApplySaleDeduction_VentaNoPagada(t *testing.T) {
	f := newFixture(t)
	sale := f.seedSale(t, entity.SaleStatusDraft)

	_, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApplySaleDeduction_VentaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplySaleDeduction_InsuficienteTodoONada(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")
	queso := f.seedIngredient(t, "Queso cheddar", "QUE-01", "0.05")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15", queso.ID: "0.1"})
	sale := f.seedSale(t, entity.SaleStatusPaid, entity.SaleItem{MenuItemID: burger.ID, Qty: 1})

	_, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, queso.ID, insufficient.ItemID)
	assert.True(t, insufficient.Available.Equal(d("0.05")))

	// Todo-o-nada: ningún ingrediente cambió y la bandera no quedó puesta.
	assert.True(t, f.stock(t, carne.ID).Equal(d("10")))
	assert.True(t, f.stock(t, queso.ID).Equal(d("0.05")))
	assert.Empty(t, f.movements(t, carne.ID))

	fresh, err := f.repos.Sales.GetByID(context.Background(), restaurantID, sale.ID)
	require.NoError(t, err)
	assert.False(t, fresh.InventoryDeducted)
}

func TestApplySaleDeduction_SinRecetaMarcaBanderaIgual(t *testing.T) {
	f := newFixture(t)
	postre := f.seedMenuItem(t, "Flan casero", nil)
	sale := f.seedSale(t, entity.SaleStatusPaid, entity.SaleItem{MenuItemID: postre.ID, Qty: 3})

	res, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Movements)
	require.Len(t, res.MissingRecipes, 1)
	assert.Equal(t, postre.ID, res.MissingRecipes[0].MenuItemID)
	assert.Equal(t, "Flan casero", res.MissingRecipes[0].MenuItemName)

	// La bandera queda puesta: no se reintenta eternamente un plato sin receta.
	res2, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.True(t, res2.AlreadyApplied)
}

func TestApplySaleDeduction_ConcurrenteAplicaUnaVez(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "100")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.5"})
	sale := f.seedSale(t, entity.SaleStatusPaid, entity.SaleItem{MenuItemID: burger.ID, Qty: 4})

	const workers = 8
	results := make(chan *reconcile.DeductionResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.engine.ApplySaleDeduction(context.Background(), restaurantID, "u1", sale.ID)
			if err == nil {
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	applied := 0
	for res := range results {
		if !res.AlreadyApplied {
			applied++
		}
	}
	assert.Equal(t, 1, applied, "exactamente una goroutine debe aplicar el descuento")
	assert.True(t, f.stock(t, carne.ID).Equal(d("98")), "saldo = %s", f.stock(t, carne.ID))
	assert.Len(t, f.movements(t, carne.ID), 1)
}

func TestMarkSalePaid_PagaYDescuentaAtomicamente(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15"})
	sale := f.seedSale(t, entity.SaleStatusDraft, entity.SaleItem{MenuItemID: burger.ID, Qty: 2})

	res, err := f.engine.MarkSalePaid(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Movements)

	fresh, err := f.repos.Sales.GetByID(context.Background(), restaurantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPaid, fresh.Status)
	assert.True(t, fresh.InventoryDeducted)
	assert.True(t, f.stock(t, carne.ID).Equal(d("9.7")))
}

func TestMarkSalePaid_InsuficienteDejaDraft(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "0.1")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15"})
	sale := f.seedSale(t, entity.SaleStatusDraft, entity.SaleItem{MenuItemID: burger.ID, Qty: 1})

	_, err := f.engine.MarkSalePaid(context.Background(), restaurantID, "u1", sale.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El pago y el descuento son una sola transacción: la venta sigue DRAFT.
	fresh, err := f.repos.Sales.GetByID(context.Background(), restaurantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, fresh.Status)
	assert.False(t, fresh.InventoryDeducted)
	assert.True(t, f.stock(t, carne.ID).Equal(d("0.1")))
}

func TestMarkSalePaid_YaPagadaDelegaIdempotente(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")
	burger := f.seedMenuItem(t, "Hamburguesa", map[string]string{carne.ID: "0.15"})
	sale := f.seedSale(t, entity.SaleStatusDraft, entity.SaleItem{MenuItemID: burger.ID, Qty: 1})

	_, err := f.engine.MarkSalePaid(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)

	res, err := f.engine.MarkSalePaid(context.Background(), restaurantID, "u1", sale.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyApplied)
	assert.True(t, f.stock(t, carne.ID).Equal(d("9.85")))
}

func TestMarkSalePaid_VentaAnulada(t *testing.T) {
	f := newFixture(t)
	sale := f.seedSale(t, entity.SaleStatusVoid)

	_, err := f.engine.MarkSalePaid(context.Background(), restaurantID, "u1", sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPostPurchaseInvoice_TotalesMovimientosYCosto(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "2")
	queso := f.seedIngredient(t, "Queso cheddar", "QUE-01", "1")

	inv, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  sup.ID,
		InvoiceNo:   "F-0001",
		InvoiceDate: time.Now(),
		Discount:    d("10"),
		Tax:         d("5"),
		Lines: []reconcile.PurchaseLineInput{
			{ItemID: carne.ID, Qty: d("10"), UnitCost: d("8")},
			{ItemID: queso.ID, Qty: d("4"), UnitCost: d("5")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPosted, inv.Status)
	assert.True(t, inv.Subtotal.Equal(d("100")), "subtotal = %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(d("95")), "total = %s", inv.Total)

	assert.True(t, f.stock(t, carne.ID).Equal(d("12")))
	assert.True(t, f.stock(t, queso.ID).Equal(d("5")))

	movs := f.movements(t, carne.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, entity.ReasonPurchase, movs[0].Reason)
	assert.Equal(t, "PurchaseInvoice #"+inv.ID, movs[0].Note)

	// Política last-cost: el costo unitario queda en el de la última compra.
	item, err := f.repos.Items.GetByID(context.Background(), restaurantID, carne.ID)
	require.NoError(t, err)
	assert.True(t, item.CostPerUnit.Equal(d("8")))
}

func TestPostPurchaseInvoice_TotalNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "0")

	inv, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  sup.ID,
		InvoiceDate: time.Now(),
		Discount:    d("20"),
		Lines: []reconcile.PurchaseLineInput{
			{ItemID: carne.ID, Qty: d("2"), UnitCost: d("5")},
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Total.Equal(decimal.Zero), "total = %s", inv.Total)
}

func TestPostPurchaseInvoice_Validacion(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "0")

	cases := []struct {
		name string
		in   reconcile.CreatePurchaseInput
	}{
		{"sin líneas", reconcile.CreatePurchaseInput{SupplierID: sup.ID}},
		{"sin proveedor", reconcile.CreatePurchaseInput{
			Lines: []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("1"), UnitCost: d("1")}},
		}},
		{"qty cero", reconcile.CreatePurchaseInput{
			SupplierID: sup.ID,
			Lines:      []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("0"), UnitCost: d("1")}},
		}},
		{"costo negativo", reconcile.CreatePurchaseInput{
			SupplierID: sup.ID,
			Lines:      []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("1"), UnitCost: d("-1")}},
		}},
		{"descuento negativo", reconcile.CreatePurchaseInput{
			SupplierID: sup.ID,
			Discount:   d("-1"),
			Lines:      []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("1"), UnitCost: d("1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPostPurchaseInvoice_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "0")

	_, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  "no-existe",
		InvoiceDate: time.Now(),
		Lines:       []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("1"), UnitCost: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostPurchaseInvoice_ItemInexistenteNoEscribeNada(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "2")

	_, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  sup.ID,
		InvoiceDate: time.Now(),
		Lines: []reconcile.PurchaseLineInput{
			{ItemID: carne.ID, Qty: d("5"), UnitCost: d("8")},
			{ItemID: "no-existe", Qty: d("1"), UnitCost: d("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	// La validación corre antes de escribir: ni saldo, ni movimientos, ni factura.
	assert.True(t, f.stock(t, carne.ID).Equal(d("2")))
	assert.Empty(t, f.movements(t, carne.ID))
	invs, err := f.repos.Invoices.List(context.Background(), restaurantID, "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestPostDraftInvoice_ContabilizaSoloDraft(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "2")

	draft := &entity.PurchaseInvoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   sup.ID,
		InvoiceDate:  time.Now(),
		Status:       entity.PurchaseStatusDraft,
		Subtotal:     d("40"),
		Total:        d("40"),
		CreatedBy:    "u1",
		Lines: []entity.PurchaseLine{{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			ItemID:       carne.ID,
			Qty:          d("5"),
			UnitCost:     d("8"),
			LineTotal:    d("40"),
		}},
	}
	draft.Lines[0].InvoiceID = draft.ID
	require.NoError(t, f.repos.Invoices.Create(context.Background(), draft))

	inv, err := f.engine.PostDraftInvoice(context.Background(), restaurantID, "u1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPosted, inv.Status)
	assert.True(t, f.stock(t, carne.ID).Equal(d("7")))
	assert.Len(t, f.movements(t, carne.ID), 1)

	// Re-contabilizar no duplica entradas.
	_, err = f.engine.PostDraftInvoice(context.Background(), restaurantID, "u1", draft.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.stock(t, carne.ID).Equal(d("7")))
}

func TestVoidPurchaseInvoice_ReversaYEstadoTerminal(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "2")

	inv, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  sup.ID,
		InvoiceDate: time.Now(),
		Lines:       []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("5"), UnitCost: d("8")}},
	})
	require.NoError(t, err)
	require.True(t, f.stock(t, carne.ID).Equal(d("7")))

	voided, err := f.engine.VoidPurchaseInvoice(context.Background(), restaurantID, "u2", inv.ID, "pedido duplicado")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusVoid, voided.Status)
	assert.Equal(t, "pedido duplicado", voided.VoidReason)
	assert.True(t, f.stock(t, carne.ID).Equal(d("2")))

	movs := f.movements(t, carne.ID)
	require.Len(t, movs, 2)
	// El más reciente es la reversa.
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, entity.ReasonPurchaseVoid, movs[0].Reason)
	assert.Equal(t, "Void PurchaseInvoice #"+inv.ID+" - pedido duplicado", movs[0].Note)

	// VOID es terminal: no se re-anula.
	_, err = f.engine.VoidPurchaseInvoice(context.Background(), restaurantID, "u2", inv.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.stock(t, carne.ID).Equal(d("2")))
}

func TestVoidPurchaseInvoice_UnderflowNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "0")

	inv, err := f.engine.PostPurchaseInvoice(context.Background(), restaurantID, "u1", reconcile.CreatePurchaseInput{
		SupplierID:  sup.ID,
		InvoiceDate: time.Now(),
		Lines:       []reconcile.PurchaseLineInput{{ItemID: carne.ID, Qty: d("10"), UnitCost: d("8")}},
	})
	require.NoError(t, err)

	// Parte de la mercadería ya se consumió.
	_, err = f.engine.RegisterAdjustment(context.Background(), restaurantID, "u1", reconcile.AdjustmentInput{
		ItemID:   carne.ID,
		Type:     entity.MovementTypeOUT,
		Quantity: d("5"),
	})
	require.NoError(t, err)
	require.True(t, f.stock(t, carne.ID).Equal(d("5")))

	_, err = f.engine.VoidPurchaseInvoice(context.Background(), restaurantID, "u1", inv.ID, "error de carga")
	require.Error(t, err)

	var underflow *domain.VoidUnderflowError
	require.ErrorAs(t, err, &underflow)
	assert.Equal(t, carne.ID, underflow.ItemID)
	assert.True(t, underflow.Available.Equal(d("5")))

	// La anulación es todo-o-nada: la factura sigue POSTED y el saldo intacto.
	fresh, err := f.repos.Invoices.GetByID(context.Background(), restaurantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPosted, fresh.Status)
	assert.True(t, f.stock(t, carne.ID).Equal(d("5")))
	assert.Len(t, f.movements(t, carne.ID), 2)
}

func TestVoidPurchaseInvoice_SoloPosted(t *testing.T) {
	f := newFixture(t)
	sup := f.seedSupplier(t)
	draft := &entity.PurchaseInvoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   sup.ID,
		Status:       entity.PurchaseStatusDraft,
	}
	require.NoError(t, f.repos.Invoices.Create(context.Background(), draft))

	_, err := f.engine.VoidPurchaseInvoice(context.Background(), restaurantID, "u1", draft.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterAdjustment_RazonPorDefecto(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")

	mov, err := f.engine.RegisterAdjustment(context.Background(), restaurantID, "u1", reconcile.AdjustmentInput{
		ItemID:   carne.ID,
		Type:     entity.MovementTypeADJUST,
		Quantity: d("-2"),
		Note:     "merma por conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonManual, mov.Reason)
	assert.True(t, f.stock(t, carne.ID).Equal(d("8")))
}

func TestRegisterAdjustment_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	carne := f.seedIngredient(t, "Carne molida", "CAR-01", "10")

	_, err := f.engine.RegisterAdjustment(context.Background(), restaurantID, "u1", reconcile.AdjustmentInput{
		ItemID:   carne.ID,
		Type:     "TRANSFER",
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
