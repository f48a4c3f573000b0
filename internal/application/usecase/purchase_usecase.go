package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

// PurchaseLineForPDF línea resuelta con nombre y unidad del ítem (la entidad
// solo lleva el ID).
type PurchaseLineForPDF struct {
	ItemName string
	Unit     string
	Line     entity.PurchaseLine
}

// PurchasePDFGenerator puerto de la representación gráfica de una factura
// de compra.
type PurchasePDFGenerator interface {
	GeneratePurchasePDF(ctx context.Context, inv *entity.PurchaseInvoice, restaurant *entity.Restaurant, supplier *entity.Supplier, lines []PurchaseLineForPDF) ([]byte, error)
}

// PurchaseUseCase orquesta facturas de compra: la contabilización y la
// anulación son del motor de conciliación; acá van la consulta y el PDF.
type PurchaseUseCase struct {
	reader reconcile.Repos
	engine *reconcile.Engine
	users  repository.UserRepository
	pdf    PurchasePDFGenerator
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(reader reconcile.Repos, engine *reconcile.Engine, users repository.UserRepository, pdf PurchasePDFGenerator) *PurchaseUseCase {
	return &PurchaseUseCase{reader: reader, engine: engine, users: users, pdf: pdf}
}

// CreateAndPost registra una factura y la contabiliza: un movimiento IN por
// línea y costo last-cost sobre cada ítem.
func (uc *PurchaseUseCase) CreateAndPost(ctx context.Context, restaurantID, actorID string, in dto.CreatePurchaseRequest) (*entity.PurchaseInvoice, error) {
	input := reconcile.CreatePurchaseInput{
		SupplierID:  in.SupplierID,
		InvoiceNo:   in.InvoiceNumber,
		InvoiceDate: in.InvoiceDate,
		Discount:    in.Discount,
		Tax:         in.Tax,
		Note:        in.Notes,
	}
	if input.InvoiceDate.IsZero() {
		input.InvoiceDate = time.Now()
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, reconcile.PurchaseLineInput{
			ItemID:   l.ItemID,
			Qty:      l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return uc.engine.PostPurchaseInvoice(ctx, restaurantID, actorID, input)
}

// PostDraft contabiliza una factura DRAFT existente.
func (uc *PurchaseUseCase) PostDraft(ctx context.Context, restaurantID, actorID, invoiceID string) (*entity.PurchaseInvoice, error) {
	return uc.engine.PostDraftInvoice(ctx, restaurantID, actorID, invoiceID)
}

// Void anula una factura POSTED escribiendo las reversas OUT.
func (uc *PurchaseUseCase) Void(ctx context.Context, restaurantID, actorID, invoiceID, reason string) (*entity.PurchaseInvoice, error) {
	return uc.engine.VoidPurchaseInvoice(ctx, restaurantID, actorID, invoiceID, reason)
}

// GetPurchase detalle de una factura.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, restaurantID, id string) (*entity.PurchaseInvoice, error) {
	inv, err := uc.reader.Invoices.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return inv, nil
}

// ListPurchases facturas del restaurante, opcionalmente por estado.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseInvoice, error) {
	return uc.reader.Invoices.List(ctx, restaurantID, status, limit, offset)
}

// DownloadPDF genera el PDF de una factura POSTED o VOID. Las DRAFT todavía
// no tocaron inventario y no se imprimen.
func (uc *PurchaseUseCase) DownloadPDF(ctx context.Context, restaurantID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.GetPurchase(ctx, restaurantID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == entity.PurchaseStatusDraft {
		return nil, "", fmt.Errorf("%w: la factura está en DRAFT, contabilícela antes de imprimir", domain.ErrInvalidInput)
	}

	restaurant, err := uc.users.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener restaurante: %w", err)
	}
	if restaurant == nil {
		return nil, "", fmt.Errorf("%w: restaurante %s", domain.ErrNotFound, restaurantID)
	}

	supplier, err := uc.reader.Suppliers.GetByID(ctx, restaurantID, inv.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	if supplier == nil {
		supplier = &entity.Supplier{ID: inv.SupplierID, Name: "Proveedor " + inv.SupplierID}
	}

	itemIDs := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	items, err := uc.reader.Items.ListByIDs(ctx, restaurantID, itemIDs)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener ítems: %w", err)
	}
	byID := make(map[string]*entity.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	lines := make([]PurchaseLineForPDF, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		name, unit := "Ítem "+l.ItemID, ""
		if it, ok := byID[l.ItemID]; ok {
			name, unit = it.Name, it.Unit
		}
		lines = append(lines, PurchaseLineForPDF{ItemName: name, Unit: unit, Line: l})
	}

	pdfBytes, err = uc.pdf.GeneratePurchasePDF(ctx, inv, restaurant, supplier, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	name := inv.InvoiceNo
	if name == "" {
		name = inv.ID
	}
	return pdfBytes, fmt.Sprintf("compra_%s.pdf", name), nil
}
