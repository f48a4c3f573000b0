// Package reconcile implementa el motor de conciliación de stock: descuento
// por ventas, contabilización y anulación de compras, y ajustes manuales.
// Cada operación es una transacción acotada: adquiere los locks de todos sus
// ítems en orden ascendente, verifica, aplica al ledger y confirma — o aborta
// completa sin efecto observable.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/recipe"
	"github.com/jhoicas/restostock-api/pkg/logger"
)

// Engine orquesta las transacciones del ledger.
type Engine struct {
	tx     TxRunner
	locks  *ledger.ItemLockManager
	ledger *ledger.Ledger
	reader Repos // repos atados al pool, para lecturas previas fuera de tx
	log    *logger.Logger
}

// NewEngine construye el motor.
func NewEngine(tx TxRunner, locks *ledger.ItemLockManager, reader Repos, log *logger.Logger) *Engine {
	return &Engine{
		tx:     tx,
		locks:  locks,
		ledger: ledger.NewLedger(),
		reader: reader,
		log:    log,
	}
}

// MissingRecipeWarning plato vendido sin receta: no aporta requerimiento y se
// reporta como advertencia, no como error.
type MissingRecipeWarning struct {
	MenuItemID   string `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
}

// DeductionResult resultado de aplicar el descuento de una venta.
type DeductionResult struct {
	SaleID         string                 `json:"sale_id"`
	AlreadyApplied bool                   `json:"already_applied"`
	Movements      int                    `json:"movements"`
	MissingRecipes []MissingRecipeWarning `json:"missing_recipes,omitempty"`
}

// ApplySaleDeduction descuenta del inventario los ingredientes de una venta
// PAID, según sus recetas. Idempotente: una venta ya aplicada devuelve éxito
// sin tocar el ledger. Si CUALQUIER ingrediente no alcanza, la transacción
// completa aborta con InsufficientStockError y ningún ítem cambia.
func (e *Engine) ApplySaleDeduction(ctx context.Context, restaurantID, actorID, saleID string) (*DeductionResult, error) {
	sale, err := e.reader.Sales.GetByID(ctx, restaurantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	if sale.InventoryDeducted {
		return &DeductionResult{SaleID: saleID, AlreadyApplied: true}, nil
	}
	if sale.Status != entity.SaleStatusPaid {
		return nil, fmt.Errorf("%w: solo ventas PAID descuentan inventario (estado %s)", domain.ErrConflict, sale.Status)
	}

	exp, warnings, err := e.buildRequirement(ctx, restaurantID, sale)
	if err != nil {
		return nil, err
	}

	result := &DeductionResult{SaleID: saleID, MissingRecipes: warnings}

	// Sin requerimientos: marcar la bandera igualmente, para que un repintado
	// posterior de recetas no re-descuente una venta vieja.
	if len(exp.Required) == 0 {
		err := e.tx.Run(ctx, func(r Repos) error {
			return r.Sales.MarkInventoryDeducted(ctx, restaurantID, saleID)
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	ids := exp.SortedIngredientIDs()
	release, err := e.locks.AcquireAll(ctx, restaurantID, ids)
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now()
	err = e.tx.Run(ctx, func(r Repos) error {
		// Re-verificar la bandera bajo lock: dos llamadas concurrentes sobre la
		// misma venta deben aplicar el descuento exactamente una vez.
		fresh, err := r.Sales.GetByID(ctx, restaurantID, saleID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if fresh.InventoryDeducted {
			result.AlreadyApplied = true
			return nil
		}
		return e.deductInTx(ctx, r, restaurantID, actorID, saleID, exp, now, result)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("sale_id", saleID).
		Int("movements", result.Movements).
		Bool("already_applied", result.AlreadyApplied).
		Msg("descuento de venta aplicado")
	return result, nil
}

// MarkSalePaid transiciona una venta DRAFT a PAID y aplica el descuento de
// inventario en la MISMA transacción: si algún ingrediente no alcanza, la
// venta sigue en DRAFT. Sobre una venta ya PAID delega en ApplySaleDeduction
// (idempotente).
func (e *Engine) MarkSalePaid(ctx context.Context, restaurantID, actorID, saleID string) (*DeductionResult, error) {
	sale, err := e.reader.Sales.GetByID(ctx, restaurantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	if sale.Status == entity.SaleStatusPaid {
		return e.ApplySaleDeduction(ctx, restaurantID, actorID, saleID)
	}
	if sale.Status != entity.SaleStatusDraft {
		return nil, fmt.Errorf("%w: solo una venta DRAFT puede pagarse (estado %s)", domain.ErrConflict, sale.Status)
	}

	exp, warnings, err := e.buildRequirement(ctx, restaurantID, sale)
	if err != nil {
		return nil, err
	}
	result := &DeductionResult{SaleID: saleID, MissingRecipes: warnings}

	ids := exp.SortedIngredientIDs()
	var release func()
	if len(ids) > 0 {
		release, err = e.locks.AcquireAll(ctx, restaurantID, ids)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	now := time.Now()
	err = e.tx.Run(ctx, func(r Repos) error {
		fresh, err := r.Sales.GetByID(ctx, restaurantID, saleID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if fresh.Status != entity.SaleStatusDraft {
			return fmt.Errorf("%w: la venta ya no está en DRAFT", domain.ErrConflict)
		}
		if err := r.Sales.SetStatus(ctx, restaurantID, saleID, entity.SaleStatusPaid); err != nil {
			return err
		}
		if fresh.InventoryDeducted {
			result.AlreadyApplied = true
			return nil
		}
		return e.deductInTx(ctx, r, restaurantID, actorID, saleID, exp, now, result)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("sale_id", saleID).
		Int("movements", result.Movements).
		Msg("venta pagada con descuento de inventario")
	return result, nil
}

// buildRequirement explota las líneas de la venta en el vector de
// requerimientos de ingredientes, con los platos sin receta como advertencias.
func (e *Engine) buildRequirement(ctx context.Context, restaurantID string, sale *entity.Sale) (recipe.Explosion, []MissingRecipeWarning, error) {
	// Vector de demanda por plato del menú (líneas libres no descuentan).
	demand := make(map[string]decimal.Decimal)
	for _, it := range sale.Items {
		if it.MenuItemID == "" {
			continue
		}
		demand[it.MenuItemID] = demand[it.MenuItemID].Add(decimal.NewFromInt(int64(it.Qty)))
	}

	var exp recipe.Explosion
	if len(demand) > 0 {
		menuIDs := make([]string, 0, len(demand))
		for id := range demand {
			menuIDs = append(menuIDs, id)
		}
		lines, err := e.reader.Recipes.ListByMenuItems(ctx, restaurantID, menuIDs)
		if err != nil {
			return recipe.Explosion{}, nil, err
		}
		exp = recipe.Explode(demand, lines)
	}

	warnings, err := e.missingRecipeWarnings(ctx, restaurantID, exp.MissingRecipe)
	if err != nil {
		return recipe.Explosion{}, nil, err
	}
	return exp, warnings, nil
}

// deductInTx valida TODOS los saldos y recién entonces escribe las salidas y
// la bandera de idempotencia. Corre dentro de la tx del caller, bajo los locks
// de todos los ingredientes.
func (e *Engine) deductInTx(ctx context.Context, r Repos, restaurantID, actorID, saleID string, exp recipe.Explosion, now time.Time, result *DeductionResult) error {
	ids := exp.SortedIngredientIDs()

	// Pasada 1: validar TODOS los saldos antes de escribir nada.
	for _, id := range ids {
		item, err := r.Items.GetByID(ctx, restaurantID, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		need := exp.Required[id]
		if item.CurrentStock.LessThan(need) {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				SKU:       item.SKU,
				Name:      item.Name,
				Required:  need,
				Available: item.CurrentStock,
			}
		}
	}

	// Pasada 2: aplicar salidas.
	for _, id := range ids {
		_, err := e.ledger.Apply(ctx, r.Items, r.Movements, ledger.ApplyInput{
			RestaurantID: restaurantID,
			ItemID:       id,
			Type:         entity.MovementTypeOUT,
			Quantity:     exp.Required[id],
			Reason:       entity.ReasonSale,
			Note:         fmt.Sprintf("Auto-deduct for Sale #%s", saleID),
			ActorID:      actorID,
			Now:          now,
		})
		if err != nil {
			return err
		}
		result.Movements++
	}
	return r.Sales.MarkInventoryDeducted(ctx, restaurantID, saleID)
}

func (e *Engine) missingRecipeWarnings(ctx context.Context, restaurantID string, menuItemIDs []string) ([]MissingRecipeWarning, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	items, err := e.reader.Menu.ListMenuItemsByIDs(ctx, restaurantID, menuItemIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(items))
	for _, mi := range items {
		names[mi.ID] = mi.Name
	}
	warnings := make([]MissingRecipeWarning, 0, len(menuItemIDs))
	for _, id := range menuItemIDs {
		warnings = append(warnings, MissingRecipeWarning{MenuItemID: id, MenuItemName: names[id]})
	}
	return warnings, nil
}
