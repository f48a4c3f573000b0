package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// InventoryItemRepository puerto de persistencia de ítems de inventario.
// Todas las consultas están acotadas por restaurantID: nunca hay lecturas
// ni escrituras cruzadas entre tenants.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.InventoryItem, error)
	GetBySKU(ctx context.Context, restaurantID, sku string) (*entity.InventoryItem, error)
	// ListByIDs devuelve los ítems del restaurante cuyo ID esté en ids.
	// Los IDs inexistentes simplemente no aparecen en el resultado.
	ListByIDs(ctx context.Context, restaurantID string, ids []string) ([]*entity.InventoryItem, error)
	// List pagina por nombre ascendente; limit <= 0 devuelve todo.
	List(ctx context.Context, restaurantID string, onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error)
	// ListLowStock devuelve ítems activos con current_stock <= reorder_level.
	ListLowStock(ctx context.Context, restaurantID string) ([]*entity.InventoryItem, error)
	// SetStock fija el saldo materializado. Solo lo invoca el ledger, dentro
	// de una transacción, tras escribir el movimiento correspondiente.
	SetStock(ctx context.Context, restaurantID, id string, stock decimal.Decimal) error
	// SetCost actualiza cost_per_unit (política last-cost al contabilizar compras).
	SetCost(ctx context.Context, restaurantID, id string, cost decimal.Decimal) error
}
