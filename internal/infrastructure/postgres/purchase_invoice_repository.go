package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.PurchaseInvoiceRepository = (*PurchaseInvoiceRepo)(nil)

// PurchaseInvoiceRepo facturas de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

const invoiceColumns = `id, restaurant_id, supplier_id, invoice_no, invoice_date, status,
	subtotal, discount, tax, total, note, voided_at, COALESCE(voided_by::text, ''), void_reason, created_by, created_at`

// Create persiste la factura con sus líneas (mismo Querier, misma tx).
func (r *PurchaseInvoiceRepo) Create(ctx context.Context, inv *entity.PurchaseInvoice) error {
	query := `
		INSERT INTO purchase_invoices (id, restaurant_id, supplier_id, invoice_no, invoice_date, status,
			subtotal, discount, tax, total, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.RestaurantID, inv.SupplierID, inv.InvoiceNo, inv.InvoiceDate, inv.Status,
		inv.Subtotal, inv.Discount, inv.Tax, inv.Total, inv.Note, inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase invoice: %w", err)
	}
	for _, l := range inv.Lines {
		lineQuery := `
			INSERT INTO purchase_lines (id, invoice_id, restaurant_id, item_id, qty, unit_cost, line_total, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.InvoiceID, l.RestaurantID, l.ItemID, l.Qty, l.UnitCost, l.LineTotal, l.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("create purchase line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la factura con líneas, o nil si no existe.
func (r *PurchaseInvoiceRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE restaurant_id = $1 AND id = $2`
	var inv entity.PurchaseInvoice
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&inv.ID, &inv.RestaurantID, &inv.SupplierID, &inv.InvoiceNo, &inv.InvoiceDate, &inv.Status,
		&inv.Subtotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.Note,
		&inv.VoidedAt, &inv.VoidedBy, &inv.VoidReason, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", err)
	}

	lines, err := r.listLines(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

// List facturas del restaurante, opcionalmente por estado, más reciente primero (sin líneas).
func (r *PurchaseInvoiceRepo) List(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseInvoice, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY invoice_date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.PurchaseInvoice
	for rows.Next() {
		var inv entity.PurchaseInvoice
		err := rows.Scan(
			&inv.ID, &inv.RestaurantID, &inv.SupplierID, &inv.InvoiceNo, &inv.InvoiceDate, &inv.Status,
			&inv.Subtotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.Note,
			&inv.VoidedAt, &inv.VoidedBy, &inv.VoidReason, &inv.CreatedBy, &inv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

// SetStatus transiciona el estado (DRAFT -> POSTED).
func (r *PurchaseInvoiceRepo) SetStatus(ctx context.Context, restaurantID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_invoices SET status = $3 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, status,
	)
	if err != nil {
		return fmt.Errorf("set invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return nil
}

// MarkVoid marca la factura VOID con razón, actor y timestamp de auditoría.
func (r *PurchaseInvoiceRepo) MarkVoid(ctx context.Context, restaurantID, id, reason, voidedBy string, voidedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_invoices SET status = $3, void_reason = $4, voided_by = $5, voided_at = $6
		 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, entity.PurchaseStatusVoid, reason, voidedBy, voidedAt,
	)
	if err != nil {
		return fmt.Errorf("mark invoice void: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) listLines(ctx context.Context, restaurantID, invoiceID string) ([]entity.PurchaseLine, error) {
	query := `
		SELECT id, invoice_id, restaurant_id, item_id, qty, unit_cost, line_total, sort_order
		FROM purchase_lines WHERE restaurant_id = $1 AND invoice_id = $2
		ORDER BY sort_order ASC`
	rows, err := r.q.Query(ctx, query, restaurantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		err := rows.Scan(&l.ID, &l.InvoiceID, &l.RestaurantID, &l.ItemID, &l.Qty, &l.UnitCost, &l.LineTotal, &l.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
