package repository

import (
	"context"
	"time"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// PurchaseInvoiceRepository puerto de facturas de compra.
type PurchaseInvoiceRepository interface {
	// Create persiste la factura con sus líneas.
	Create(ctx context.Context, inv *entity.PurchaseInvoice) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.PurchaseInvoice, error)
	List(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseInvoice, error)
	// SetStatus transiciona el estado (DRAFT -> POSTED).
	SetStatus(ctx context.Context, restaurantID, id, status string) error
	// MarkVoid marca la factura VOID con razón, actor y timestamp de auditoría.
	MarkVoid(ctx context.Context, restaurantID, id, reason, voidedBy string, voidedAt time.Time) error
}

// SupplierRepository puerto de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Supplier, error)
	List(ctx context.Context, restaurantID string, onlyActive bool) ([]*entity.Supplier, error)
}
