package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// SupplierUseCase CRUD mínimo de proveedores.
type SupplierUseCase struct {
	reader reconcile.Repos
	tx     reconcile.TxRunner
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(reader reconcile.Repos, tx reconcile.TxRunner) *SupplierUseCase {
	return &SupplierUseCase{reader: reader, tx: tx}
}

// CreateSupplier da de alta un proveedor.
func (uc *SupplierUseCase) CreateSupplier(ctx context.Context, restaurantID string, in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		IsActive:     true,
	}
	err := uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Suppliers.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSupplier detalle de un proveedor.
func (uc *SupplierUseCase) GetSupplier(ctx context.Context, restaurantID, id string) (*entity.Supplier, error) {
	s, err := uc.reader.Suppliers.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// ListSuppliers lista proveedores del restaurante.
func (uc *SupplierUseCase) ListSuppliers(ctx context.Context, restaurantID string, onlyActive bool) ([]*entity.Supplier, error) {
	return uc.reader.Suppliers.List(ctx, restaurantID, onlyActive)
}
