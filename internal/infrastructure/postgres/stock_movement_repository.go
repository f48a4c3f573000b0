package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación append-only sobre PostgreSQL. No hay
// UPDATE ni DELETE: la tabla es la historia.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, restaurant_id, item_id, type, quantity, reason, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.RestaurantID, m.ItemID, m.Type, m.Quantity, m.Reason, m.Note, createdBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByItem historial de un ítem, más reciente primero.
func (r *StockMovementRepo) ListByItem(ctx context.Context, restaurantID, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, restaurant_id, item_id, type, quantity, reason, note, COALESCE(created_by, ''), created_at
		FROM stock_movements
		WHERE restaurant_id = $1 AND item_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, restaurantID, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(&m.ID, &m.RestaurantID, &m.ItemID, &m.Type, &m.Quantity, &m.Reason, &m.Note, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}

// SumByItem suma con signo de todos los movimientos del ítem: IN suma, OUT
// resta, ADJUST aporta su delta. Debe igualar el saldo materializado.
func (r *StockMovementRepo) SumByItem(ctx context.Context, restaurantID, itemID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE type
			WHEN 'IN' THEN quantity
			WHEN 'OUT' THEN -quantity
			ELSE quantity
		END), 0)
		FROM stock_movements
		WHERE restaurant_id = $1 AND item_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, restaurantID, itemID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
