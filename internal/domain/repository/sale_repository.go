package repository

import (
	"context"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// SaleRepository puerto de ventas. Las líneas se crean junto con la venta y
// son snapshot inmutable; lo único que muta después es la bandera de
// idempotencia y (fuera del alcance del ledger) el estado.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Sale, error)
	List(ctx context.Context, restaurantID string, limit, offset int) ([]*entity.Sale, error)
	SetStatus(ctx context.Context, restaurantID, id, status string) error
	// MarkInventoryDeducted fija la bandera de idempotencia del descuento.
	MarkInventoryDeducted(ctx context.Context, restaurantID, id string) error
}
