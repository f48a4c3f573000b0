package repository

import (
	"context"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// PurchaseRequestRepository puerto de solicitudes de compra (planificación).
type PurchaseRequestRepository interface {
	Create(ctx context.Context, pr *entity.PurchaseRequest) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.PurchaseRequest, error)
	List(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseRequest, error)
	SetStatus(ctx context.Context, restaurantID, id, status string) error
	// MarkConverted fija CONVERTED y la referencia a la factura creada.
	MarkConverted(ctx context.Context, restaurantID, id, invoiceID string) error
	AppendNote(ctx context.Context, restaurantID, id, note string) error
}
