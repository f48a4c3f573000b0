package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas (mismo Querier, misma tx).
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, restaurant_id, customer_name, status, payment_method,
			subtotal, discount, tax, total, notes, inventory_deducted, sold_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.RestaurantID, sale.CustomerName, sale.Status, sale.PaymentMethod,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total, sale.Notes,
		sale.InventoryDeducted, sale.SoldAt, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for _, it := range sale.Items {
		lineQuery := `
			INSERT INTO sale_items (id, sale_id, restaurant_id, menu_item_id, name, qty, unit_price, line_total, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		menuItemID := (*string)(nil)
		if it.MenuItemID != "" {
			menuItemID = &it.MenuItemID
		}
		_, err := r.q.Exec(ctx, lineQuery,
			it.ID, it.SaleID, it.RestaurantID, menuItemID, it.Name, it.Qty, it.UnitPrice, it.LineTotal, it.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con líneas, o nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Sale, error) {
	query := `
		SELECT id, restaurant_id, customer_name, status, payment_method,
			subtotal, discount, tax, total, notes, inventory_deducted, sold_at, created_by, created_at
		FROM sales WHERE restaurant_id = $1 AND id = $2`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&s.ID, &s.RestaurantID, &s.CustomerName, &s.Status, &s.PaymentMethod,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Notes,
		&s.InventoryDeducted, &s.SoldAt, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.listItems(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// List ventas del restaurante, más reciente primero (sin líneas).
func (r *SaleRepo) List(ctx context.Context, restaurantID string, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, restaurant_id, customer_name, status, payment_method,
			subtotal, discount, tax, total, notes, inventory_deducted, sold_at, created_by, created_at
		FROM sales WHERE restaurant_id = $1
		ORDER BY sold_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		err := rows.Scan(
			&s.ID, &s.RestaurantID, &s.CustomerName, &s.Status, &s.PaymentMethod,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Notes,
			&s.InventoryDeducted, &s.SoldAt, &s.CreatedBy, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}

// SetStatus transiciona el estado de la venta.
func (r *SaleRepo) SetStatus(ctx context.Context, restaurantID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $3 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, status,
	)
	if err != nil {
		return fmt.Errorf("set sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return nil
}

// MarkInventoryDeducted fija la bandera de idempotencia del descuento.
func (r *SaleRepo) MarkInventoryDeducted(ctx context.Context, restaurantID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET inventory_deducted = true WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id,
	)
	if err != nil {
		return fmt.Errorf("mark inventory deducted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *SaleRepo) listItems(ctx context.Context, restaurantID, saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, restaurant_id, COALESCE(menu_item_id::text, ''), name, qty, unit_price, line_total, sort_order
		FROM sale_items WHERE restaurant_id = $1 AND sale_id = $2
		ORDER BY sort_order ASC`
	rows, err := r.q.Query(ctx, query, restaurantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.RestaurantID, &it.MenuItemID, &it.Name, &it.Qty, &it.UnitPrice, &it.LineTotal, &it.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
