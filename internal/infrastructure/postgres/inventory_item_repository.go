package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, restaurant_id, name, sku, unit, current_stock, reorder_level, cost_per_unit, is_active, created_at, updated_at`

// Create persiste un ítem. SKU duplicado en el restaurante -> ErrDuplicate.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.RestaurantID, item.Name, item.SKU, item.Unit,
		item.CurrentStock, item.ReorderLevel, item.CostPerUnit,
		item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, item.SKU)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update actualiza metadatos del ítem (no el saldo).
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $3, unit = $4, reorder_level = $5, is_active = $6, updated_at = now()
		WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		item.RestaurantID, item.ID, item.Name, item.Unit, item.ReorderLevel, item.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, item.ID)
	}
	return nil
}

// GetByID devuelve el ítem o nil si no existe en el restaurante.
func (r *InventoryItemRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE restaurant_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, restaurantID, id))
}

// GetBySKU devuelve el ítem o nil si el SKU no existe en el restaurante.
func (r *InventoryItemRepo) GetBySKU(ctx context.Context, restaurantID, sku string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE restaurant_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, restaurantID, sku))
}

// ListByIDs devuelve los ítems del restaurante cuyo ID esté en ids.
func (r *InventoryItemRepo) ListByIDs(ctx context.Context, restaurantID string, ids []string) ([]*entity.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE restaurant_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(ctx, query, restaurantID, ids)
	if err != nil {
		return nil, fmt.Errorf("list items by ids: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// List pagina por nombre ascendente; limit <= 0 devuelve todo.
func (r *InventoryItemRepo) List(ctx context.Context, restaurantID string, onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE restaurant_id = $1`
	if onlyActive {
		query += ` AND is_active`
	}
	query += ` ORDER BY name ASC`
	args := []any{restaurantID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock ítems activos con current_stock <= reorder_level.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context, restaurantID string) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE restaurant_id = $1 AND is_active AND current_stock <= reorder_level
		ORDER BY current_stock - reorder_level ASC`
	rows, err := r.q.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// SetStock fija el saldo materializado (solo lo invoca el ledger, en tx).
func (r *InventoryItemRepo) SetStock(ctx context.Context, restaurantID, id string, stock decimal.Decimal) error {
	query := `UPDATE inventory_items SET current_stock = $3, updated_at = now() WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, restaurantID, id, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return nil
}

// SetCost actualiza cost_per_unit (política last-cost).
func (r *InventoryItemRepo) SetCost(ctx context.Context, restaurantID, id string, cost decimal.Decimal) error {
	query := `UPDATE inventory_items SET cost_per_unit = $3, updated_at = now() WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, restaurantID, id, cost)
	if err != nil {
		return fmt.Errorf("set cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return nil
}

func (r *InventoryItemRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.RestaurantID, &it.Name, &it.SKU, &it.Unit,
		&it.CurrentStock, &it.ReorderLevel, &it.CostPerUnit,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan inventory item: %w", err)
	}
	return &it, nil
}

func (r *InventoryItemRepo) scanMany(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var items []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		err := rows.Scan(
			&it.ID, &it.RestaurantID, &it.Name, &it.SKU, &it.Unit,
			&it.CurrentStock, &it.ReorderLevel, &it.CostPerUnit,
			&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
