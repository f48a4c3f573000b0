package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// PurchaseLineInput línea de entrada para contabilizar una compra.
type PurchaseLineInput struct {
	ItemID   string
	Qty      decimal.Decimal
	UnitCost decimal.Decimal
}

// CreatePurchaseInput entrada para crear y contabilizar una factura de compra.
type CreatePurchaseInput struct {
	SupplierID  string
	InvoiceNo   string
	InvoiceDate time.Time
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Note        string
	Lines       []PurchaseLineInput
}

// PostPurchaseInvoice crea una factura POSTED: por cada línea escribe un
// movimiento IN y sobreescribe cost_per_unit con el costo de la línea
// (política last-cost). total = max(0, subtotal - descuento + impuesto).
func (e *Engine) PostPurchaseInvoice(ctx context.Context, restaurantID, actorID string, in CreatePurchaseInput) (*entity.PurchaseInvoice, error) {
	if err := validatePurchaseInput(in); err != nil {
		return nil, err
	}
	supplier, err := e.reader.Suppliers.GetByID(ctx, restaurantID, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	itemIDs := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	release, err := e.locks.AcquireAll(ctx, restaurantID, itemIDs)
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now()
	inv := &entity.PurchaseInvoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   in.SupplierID,
		InvoiceNo:    in.InvoiceNo,
		InvoiceDate:  in.InvoiceDate,
		Status:       entity.PurchaseStatusPosted,
		Discount:     in.Discount.Round(2),
		Tax:          in.Tax.Round(2),
		Note:         in.Note,
		CreatedBy:    actorID,
		CreatedAt:    now,
	}

	subtotal := decimal.Zero
	for idx, l := range in.Lines {
		qty := l.Qty.Round(2)
		unitCost := l.UnitCost.Round(2)
		lineTotal := qty.Mul(unitCost).Round(2)
		subtotal = subtotal.Add(lineTotal)
		inv.Lines = append(inv.Lines, entity.PurchaseLine{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			RestaurantID: restaurantID,
			ItemID:       l.ItemID,
			Qty:          qty,
			UnitCost:     unitCost,
			LineTotal:    lineTotal,
			SortOrder:    idx,
		})
	}
	inv.Subtotal = subtotal.Round(2)
	inv.Total = invoiceTotal(inv.Subtotal, inv.Discount, inv.Tax)

	err = e.tx.Run(ctx, func(r Repos) error {
		// Los ítems deben existir en el restaurante antes de escribir nada.
		for _, l := range inv.Lines {
			item, err := r.Items.GetByID(ctx, restaurantID, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: %s", domain.ErrItemNotFound, l.ItemID)
			}
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		return e.applyInvoiceIn(ctx, r, inv, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("invoice_id", inv.ID).
		Int("lines", len(inv.Lines)).
		Str("total", inv.Total.String()).
		Msg("factura de compra contabilizada")
	return inv, nil
}

// PostDraftInvoice contabiliza una factura DRAFT existente (creada desde una
// solicitud de compra o desde el pronóstico). Solo DRAFT puede contabilizarse.
func (e *Engine) PostDraftInvoice(ctx context.Context, restaurantID, actorID, invoiceID string) (*entity.PurchaseInvoice, error) {
	inv, err := e.reader.Invoices.GetByID(ctx, restaurantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	if inv.Status != entity.PurchaseStatusDraft {
		return nil, fmt.Errorf("%w: solo una factura DRAFT puede contabilizarse (estado %s)", domain.ErrConflict, inv.Status)
	}

	release, err := e.locks.AcquireAll(ctx, restaurantID, invoiceItemIDs(inv))
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now()
	err = e.tx.Run(ctx, func(r Repos) error {
		fresh, err := r.Invoices.GetByID(ctx, restaurantID, invoiceID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		}
		if fresh.Status != entity.PurchaseStatusDraft {
			return fmt.Errorf("%w: la factura ya no está en DRAFT", domain.ErrConflict)
		}
		for _, l := range fresh.Lines {
			item, err := r.Items.GetByID(ctx, restaurantID, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: %s", domain.ErrItemNotFound, l.ItemID)
			}
		}
		if err := e.applyInvoiceIn(ctx, r, fresh, actorID, now); err != nil {
			return err
		}
		return r.Invoices.SetStatus(ctx, restaurantID, invoiceID, entity.PurchaseStatusPosted)
	})
	if err != nil {
		return nil, err
	}

	inv.Status = entity.PurchaseStatusPosted
	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("invoice_id", invoiceID).
		Msg("factura DRAFT contabilizada")
	return inv, nil
}

// VoidPurchaseInvoice anula una factura POSTED: escribe las reversas OUT de
// todas sus líneas, exactamente una vez. La validación de no-negatividad es
// previa y sobre TODAS las líneas: si alguna reversa dejaría saldo negativo
// la anulación completa aborta con VoidUnderflowError. VOID es irreversible.
func (e *Engine) VoidPurchaseInvoice(ctx context.Context, restaurantID, actorID, invoiceID, reason string) (*entity.PurchaseInvoice, error) {
	inv, err := e.reader.Invoices.GetByID(ctx, restaurantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	if inv.Status == entity.PurchaseStatusVoid {
		return nil, fmt.Errorf("%w: la factura ya está anulada", domain.ErrConflict)
	}
	if inv.Status != entity.PurchaseStatusPosted {
		return nil, fmt.Errorf("%w: solo una factura POSTED puede anularse (estado %s)", domain.ErrConflict, inv.Status)
	}

	release, err := e.locks.AcquireAll(ctx, restaurantID, invoiceItemIDs(inv))
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now()
	err = e.tx.Run(ctx, func(r Repos) error {
		fresh, err := r.Invoices.GetByID(ctx, restaurantID, invoiceID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		}
		if fresh.Status != entity.PurchaseStatusPosted {
			return fmt.Errorf("%w: la factura ya no está en POSTED", domain.ErrConflict)
		}

		// Pasada 1: ninguna línea puede dejar saldo negativo.
		for _, l := range fresh.Lines {
			item, err := r.Items.GetByID(ctx, restaurantID, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: %s", domain.ErrItemNotFound, l.ItemID)
			}
			if item.CurrentStock.Sub(l.Qty).LessThan(decimal.Zero) {
				return &domain.VoidUnderflowError{
					ItemID:    item.ID,
					SKU:       item.SKU,
					Name:      item.Name,
					Qty:       l.Qty,
					Available: item.CurrentStock,
				}
			}
		}

		// Pasada 2: reversas OUT.
		note := fmt.Sprintf("Void PurchaseInvoice #%s", invoiceID)
		if reason != "" {
			note += " - " + reason
		}
		for _, l := range fresh.Lines {
			_, err := e.ledger.Apply(ctx, r.Items, r.Movements, ledger.ApplyInput{
				RestaurantID: restaurantID,
				ItemID:       l.ItemID,
				Type:         entity.MovementTypeOUT,
				Quantity:     l.Qty,
				Reason:       entity.ReasonPurchaseVoid,
				Note:         note,
				ActorID:      actorID,
				Now:          now,
			})
			if err != nil {
				return err
			}
		}
		return r.Invoices.MarkVoid(ctx, restaurantID, invoiceID, reason, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	inv.Status = entity.PurchaseStatusVoid
	inv.VoidReason = reason
	inv.VoidedBy = actorID
	inv.VoidedAt = &now
	e.log.Info().
		Str("restaurant_id", restaurantID).
		Str("invoice_id", invoiceID).
		Str("reason", reason).
		Msg("factura de compra anulada")
	return inv, nil
}

// applyInvoiceIn escribe los IN de cada línea y actualiza el costo last-cost.
func (e *Engine) applyInvoiceIn(ctx context.Context, r Repos, inv *entity.PurchaseInvoice, actorID string, now time.Time) error {
	for _, l := range inv.Lines {
		_, err := e.ledger.Apply(ctx, r.Items, r.Movements, ledger.ApplyInput{
			RestaurantID: inv.RestaurantID,
			ItemID:       l.ItemID,
			Type:         entity.MovementTypeIN,
			Quantity:     l.Qty,
			Reason:       entity.ReasonPurchase,
			Note:         fmt.Sprintf("PurchaseInvoice #%s", inv.ID),
			ActorID:      actorID,
			Now:          now,
		})
		if err != nil {
			return err
		}
		if err := r.Items.SetCost(ctx, inv.RestaurantID, l.ItemID, l.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

func validatePurchaseInput(in CreatePurchaseInput) error {
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return fmt.Errorf("%w: proveedor y al menos una línea son obligatorios", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ItemID == "" {
			return fmt.Errorf("%w: línea sin ítem", domain.ErrInvalidInput)
		}
		if !l.Qty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: qty debe ser > 0", domain.ErrInvalidInput)
		}
		if l.UnitCost.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
		}
	}
	if in.Discount.LessThan(decimal.Zero) || in.Tax.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: descuento e impuesto no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

// invoiceTotal = max(0, subtotal - descuento + impuesto).
func invoiceTotal(subtotal, discount, tax decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount).Add(tax).Round(2)
	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total
}

// invoiceItemIDs IDs únicos de los ítems de la factura, en orden ascendente.
func invoiceItemIDs(inv *entity.PurchaseInvoice) []string {
	seen := make(map[string]struct{}, len(inv.Lines))
	ids := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	sort.Strings(ids)
	return ids
}
