package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// AdjustmentInput entrada para un movimiento manual (IN, OUT o ADJUST).
type AdjustmentInput struct {
	ItemID   string
	Type     string
	Quantity decimal.Decimal
	Reason   string
	Note     string
}

// RegisterAdjustment registra un movimiento manual con la misma disciplina de
// lock + transacción que el resto del motor. Las correcciones de historia se
// hacen así, con nuevos movimientos ADJUST; nunca editando movimientos.
func (e *Engine) RegisterAdjustment(ctx context.Context, restaurantID, actorID string, in AdjustmentInput) (*entity.StockMovement, error) {
	if in.ItemID == "" {
		return nil, fmt.Errorf("%w: ítem obligatorio", domain.ErrInvalidInput)
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}

	release, err := e.locks.AcquireAll(ctx, restaurantID, []string{in.ItemID})
	if err != nil {
		return nil, err
	}
	defer release()

	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonManual
	}

	var mov *entity.StockMovement
	err = e.tx.Run(ctx, func(r Repos) error {
		var err error
		mov, err = e.ledger.Apply(ctx, r.Items, r.Movements, ledger.ApplyInput{
			RestaurantID: restaurantID,
			ItemID:       in.ItemID,
			Type:         in.Type,
			Quantity:     in.Quantity,
			Reason:       reason,
			Note:         in.Note,
			ActorID:      actorID,
			Now:          time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("item_id", in.ItemID).
		Str("type", in.Type).
		Str("quantity", in.Quantity.String()).
		Msg("movimiento manual registrado")
	return mov, nil
}
