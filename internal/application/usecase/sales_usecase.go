package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// SalesUseCase creación y pago de ventas. El descuento de inventario lo hace
// el motor de conciliación; acá solo se arma la venta con snapshot de precios.
type SalesUseCase struct {
	reader reconcile.Repos
	tx     reconcile.TxRunner
	engine *reconcile.Engine
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(reader reconcile.Repos, tx reconcile.TxRunner, engine *reconcile.Engine) *SalesUseCase {
	return &SalesUseCase{reader: reader, tx: tx, engine: engine}
}

// CreateSale registra una venta con líneas snapshot (nombre y precio
// congelados). Status DRAFT la deja pendiente; PAID (el default) dispara el
// descuento de inventario vía el motor: si no hay stock suficiente la venta
// queda creada en DRAFT y el error se propaga.
func (uc *SalesUseCase) CreateSale(ctx context.Context, restaurantID, actorID string, in dto.CreateSaleRequest) (*entity.Sale, *reconcile.DeductionResult, error) {
	if len(in.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	status := in.Status
	if status == "" {
		status = entity.SaleStatusPaid
	}
	if status != entity.SaleStatusDraft && status != entity.SaleStatusPaid {
		return nil, nil, fmt.Errorf("%w: una venta nace DRAFT o PAID, no %q", domain.ErrInvalidInput, status)
	}

	menuIDs := make([]string, 0, len(in.Items))
	for _, l := range in.Items {
		if l.MenuItemID == "" {
			return nil, nil, fmt.Errorf("%w: línea sin plato", domain.ErrInvalidInput)
		}
		if l.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: la cantidad debe ser > 0", domain.ErrInvalidInput)
		}
		menuIDs = append(menuIDs, l.MenuItemID)
	}
	menuItems, err := uc.reader.Menu.ListMenuItemsByIDs(ctx, restaurantID, menuIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*entity.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		RestaurantID:  restaurantID,
		Status:        entity.SaleStatusDraft, // PAID recién tras el descuento
		PaymentMethod: in.PaymentMethod,
		Discount:      decimal.Zero,
		Tax:           decimal.Zero,
		SoldAt:        now,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}
	subtotal := decimal.Zero
	for idx, l := range in.Items {
		mi, ok := byID[l.MenuItemID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: plato %s", domain.ErrNotFound, l.MenuItemID)
		}
		lineTotal := mi.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:           uuid.New().String(),
			SaleID:       sale.ID,
			RestaurantID: restaurantID,
			MenuItemID:   mi.ID,
			Name:         mi.Name,
			Qty:          l.Quantity,
			UnitPrice:    mi.Price,
			LineTotal:    lineTotal,
			SortOrder:    idx,
		})
	}
	sale.Subtotal = subtotal.Round(2)
	sale.Total = sale.Subtotal

	err = uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, nil, err
	}

	if status == entity.SaleStatusDraft {
		return sale, nil, nil
	}
	result, err := uc.engine.MarkSalePaid(ctx, restaurantID, actorID, sale.ID)
	if err != nil {
		return sale, nil, err
	}
	sale.Status = entity.SaleStatusPaid
	sale.InventoryDeducted = true
	return sale, result, nil
}

// PaySale transiciona una venta DRAFT a PAID con su descuento de inventario,
// de forma atómica (el motor valida y aplica bajo locks).
func (uc *SalesUseCase) PaySale(ctx context.Context, restaurantID, actorID, saleID string) (*reconcile.DeductionResult, error) {
	return uc.engine.MarkSalePaid(ctx, restaurantID, actorID, saleID)
}

// ApplyDeduction re-aplica el descuento de inventario de una venta PAID.
// Idempotente: útil para reintentar tras un LOCK_CONFLICT.
func (uc *SalesUseCase) ApplyDeduction(ctx context.Context, restaurantID, actorID, saleID string) (*reconcile.DeductionResult, error) {
	return uc.engine.ApplySaleDeduction(ctx, restaurantID, actorID, saleID)
}

// GetSale detalle de una venta.
func (uc *SalesUseCase) GetSale(ctx context.Context, restaurantID, id string) (*entity.Sale, error) {
	sale, err := uc.reader.Sales.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return sale, nil
}

// ListSales ventas del restaurante, más reciente primero.
func (uc *SalesUseCase) ListSales(ctx context.Context, restaurantID string, limit, offset int) ([]*entity.Sale, error) {
	return uc.reader.Sales.List(ctx, restaurantID, limit, offset)
}

// VoidSale anula una venta. NO repone inventario: la reposición, si
// corresponde, se registra como ajuste manual.
func (uc *SalesUseCase) VoidSale(ctx context.Context, restaurantID, saleID string) error {
	return uc.tx.Run(ctx, func(r reconcile.Repos) error {
		sale, err := r.Sales.GetByID(ctx, restaurantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if sale.Status == entity.SaleStatusVoid {
			return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
		}
		return r.Sales.SetStatus(ctx, restaurantID, saleID, entity.SaleStatusVoid)
	})
}
