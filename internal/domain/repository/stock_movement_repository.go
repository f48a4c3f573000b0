package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// StockMovementRepository puerto del ledger append-only. No existe Update ni
// Delete: la historia es inmutable.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByItem(ctx context.Context, restaurantID, itemID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumByItem devuelve la suma con signo de todos los movimientos del ítem.
	// Debe igualar el saldo materializado (invariante de conciliación).
	SumByItem(ctx context.Context, restaurantID, itemID string) (decimal.Decimal, error)
}
