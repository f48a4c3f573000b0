// Package usecase contiene los casos de uso CRUD que rodean al motor de
// conciliación: ítems, proveedores, menú y ventas.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// InventoryUseCase CRUD de ítems de inventario y lecturas del ledger.
// El saldo NUNCA se edita por acá: solo vía movimientos del motor.
type InventoryUseCase struct {
	reader reconcile.Repos
	tx     reconcile.TxRunner
	ledger *ledger.Ledger
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(reader reconcile.Repos, tx reconcile.TxRunner) *InventoryUseCase {
	return &InventoryUseCase{reader: reader, tx: tx, ledger: ledger.NewLedger()}
}

// CreateItem da de alta un insumo. Si trae stock inicial, el alta escribe
// también el movimiento ADJUST que lo justifica: el ledger nace consistente.
func (uc *InventoryUseCase) CreateItem(ctx context.Context, restaurantID, actorID string, in dto.CreateItemRequest) (*entity.InventoryItem, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, fmt.Errorf("%w: nombre y SKU son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.IsValidUnit(in.Unit) {
		return nil, fmt.Errorf("%w: unidad %q", domain.ErrInvalidInput, in.Unit)
	}
	if in.CurrentStock.LessThan(decimal.Zero) || in.ReorderLevel.LessThan(decimal.Zero) || in.CostPerUnit.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: stock, reorden y costo no pueden ser negativos", domain.ErrInvalidInput)
	}

	existing, err := uc.reader.Items.GetBySKU(ctx, restaurantID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, in.SKU)
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         in.Name,
		SKU:          in.SKU,
		Unit:         in.Unit,
		CurrentStock: decimal.Zero,
		ReorderLevel: in.ReorderLevel.Round(2),
		CostPerUnit:  in.CostPerUnit.Round(2),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(r reconcile.Repos) error {
		if err := r.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.CurrentStock.GreaterThan(decimal.Zero) {
			_, err := uc.ledger.Apply(ctx, r.Items, r.Movements, ledger.ApplyInput{
				RestaurantID: restaurantID,
				ItemID:       item.ID,
				Type:         entity.MovementTypeADJUST,
				Quantity:     in.CurrentStock,
				Reason:       entity.ReasonManual,
				Note:         "Initial stock",
				ActorID:      actorID,
				Now:          now,
			})
			if err != nil {
				return err
			}
			item.CurrentStock = in.CurrentStock.Round(2)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem edita metadatos (nombre, unidad, reorden, activo). El saldo y el
// costo quedan fuera: los gobierna el motor.
func (uc *InventoryUseCase) UpdateItem(ctx context.Context, restaurantID, id string, in dto.UpdateItemRequest) (*entity.InventoryItem, error) {
	item, err := uc.reader.Items.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Unit != "" {
		if !entity.IsValidUnit(in.Unit) {
			return nil, fmt.Errorf("%w: unidad %q", domain.ErrInvalidInput, in.Unit)
		}
		item.Unit = in.Unit
	}
	if in.ReorderLevel.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el nivel de reorden no puede ser negativo", domain.ErrInvalidInput)
	}
	item.ReorderLevel = in.ReorderLevel.Round(2)
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	item.UpdatedAt = time.Now()

	err = uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem detalle de un ítem.
func (uc *InventoryUseCase) GetItem(ctx context.Context, restaurantID, id string) (*entity.InventoryItem, error) {
	item, err := uc.reader.Items.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return item, nil
}

// ListItems lista los ítems del restaurante.
func (uc *InventoryUseCase) ListItems(ctx context.Context, restaurantID string, onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	return uc.reader.Items.List(ctx, restaurantID, onlyActive, limit, offset)
}

// ListLowStock ítems activos en o debajo de su nivel de reorden.
func (uc *InventoryUseCase) ListLowStock(ctx context.Context, restaurantID string) ([]*entity.InventoryItem, error) {
	return uc.reader.Items.ListLowStock(ctx, restaurantID)
}

// ListMovements historial del ledger de un ítem.
func (uc *InventoryUseCase) ListMovements(ctx context.Context, restaurantID, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	item, err := uc.reader.Items.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return uc.reader.Movements.ListByItem(ctx, restaurantID, itemID, limit, offset)
}

// CheckLedgerConsistency contrasta el saldo materializado contra la suma con
// signo de los movimientos del ítem. Deben coincidir siempre; una diferencia
// indica una escritura fuera del motor.
func (uc *InventoryUseCase) CheckLedgerConsistency(ctx context.Context, restaurantID, itemID string) (*dto.LedgerCheckResponse, error) {
	item, err := uc.reader.Items.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	sum, err := uc.reader.Movements.SumByItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerCheckResponse{
		ItemID:       itemID,
		CurrentStock: item.CurrentStock,
		MovementSum:  sum,
		Consistent:   item.CurrentStock.Equal(sum),
	}, nil
}
