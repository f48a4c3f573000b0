// Package ledger implementa el libro de movimientos de stock: la única vía
// de mutación de saldos. Cada aplicación escribe un movimiento inmutable y
// actualiza el saldo materializado del ítem en la misma transacción de BD.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

// ApplyInput describe una aplicación al ledger.
// Quantity: positiva para IN/OUT, con signo para ADJUST.
type ApplyInput struct {
	RestaurantID string
	ItemID       string
	Type         string
	Quantity     decimal.Decimal
	Reason       string
	Note         string
	ActorID      string
	Now          time.Time
}

// Ledger aplica movimientos sobre los repositorios atados a la transacción
// del caller. El caller es responsable de haber adquirido los locks de los
// ítems afectados antes de leer saldos.
type Ledger struct{}

// NewLedger construye el ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Apply escribe un movimiento y actualiza el saldo del ítem de forma atómica
// (misma tx). Si la operación debita y el saldo resultante quedaría negativo,
// falla con InsufficientStockError y no escribe nada.
func (l *Ledger) Apply(
	ctx context.Context,
	items repository.InventoryItemRepository,
	movements repository.StockMovementRepository,
	in ApplyInput,
) (*entity.StockMovement, error) {
	if !entity.IsValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	switch in.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: la cantidad debe ser > 0 para %s", domain.ErrInvalidInput, in.Type)
		}
	case entity.MovementTypeADJUST:
		if in.Quantity.IsZero() {
			return nil, fmt.Errorf("%w: ajuste con delta cero", domain.ErrInvalidInput)
		}
	}

	item, err := items.GetByID(ctx, in.RestaurantID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, in.ItemID)
	}

	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		RestaurantID: in.RestaurantID,
		ItemID:       in.ItemID,
		Type:         in.Type,
		Quantity:     in.Quantity.Round(2),
		Reason:       in.Reason,
		Note:         in.Note,
		CreatedBy:    in.ActorID,
		CreatedAt:    in.Now,
	}

	newBalance := item.CurrentStock.Add(mov.SignedDelta()).Round(2)
	if newBalance.LessThan(decimal.Zero) {
		return nil, &domain.InsufficientStockError{
			ItemID:    item.ID,
			SKU:       item.SKU,
			Name:      item.Name,
			Required:  mov.SignedDelta().Neg(),
			Available: item.CurrentStock,
		}
	}

	if err := items.SetStock(ctx, in.RestaurantID, in.ItemID, newBalance); err != nil {
		return nil, err
	}
	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CurrentStock devuelve el saldo actual del ítem.
func (l *Ledger) CurrentStock(
	ctx context.Context,
	items repository.InventoryItemRepository,
	restaurantID, itemID string,
) (decimal.Decimal, error) {
	item, err := items.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return item.CurrentStock, nil
}
