package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo solicitudes de compra (planificación) sobre PostgreSQL.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

const requestColumns = `id, restaurant_id, request_date, source_plan_date, status, note,
	COALESCE(converted_invoice_id::text, ''), created_by, created_at, updated_at`

// Create persiste la solicitud con sus líneas (mismo Querier, misma tx).
func (r *PurchaseRequestRepo) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (id, restaurant_id, request_date, source_plan_date, status, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		pr.ID, pr.RestaurantID, pr.RequestDate, pr.SourcePlanDate, pr.Status, pr.Note,
		pr.CreatedBy, pr.CreatedAt, pr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase request: %w", err)
	}
	for _, l := range pr.Lines {
		lineQuery := `
			INSERT INTO purchase_request_lines (id, request_id, restaurant_id, item_id,
				required_qty, current_stock, reorder_level, suggested_qty, reason, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.RequestID, l.RestaurantID, l.ItemID,
			l.RequiredQty, l.CurrentStock, l.ReorderLevel, l.SuggestedQty, l.Reason, l.Note,
		)
		if err != nil {
			return fmt.Errorf("create purchase request line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la solicitud con líneas, o nil si no existe.
func (r *PurchaseRequestRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE restaurant_id = $1 AND id = $2`
	var pr entity.PurchaseRequest
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&pr.ID, &pr.RestaurantID, &pr.RequestDate, &pr.SourcePlanDate, &pr.Status, &pr.Note,
		&pr.ConvertedInvoiceID, &pr.CreatedBy, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}

	lines, err := r.listLines(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	pr.Lines = lines
	return &pr, nil
}

// List solicitudes del restaurante, opcionalmente por estado (sin líneas).
func (r *PurchaseRequestRepo) List(ctx context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY request_date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.PurchaseRequest
	for rows.Next() {
		var pr entity.PurchaseRequest
		err := rows.Scan(
			&pr.ID, &pr.RestaurantID, &pr.RequestDate, &pr.SourcePlanDate, &pr.Status, &pr.Note,
			&pr.ConvertedInvoiceID, &pr.CreatedBy, &pr.CreatedAt, &pr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		requests = append(requests, &pr)
	}
	return requests, rows.Err()
}

// SetStatus transiciona el estado de la solicitud.
func (r *PurchaseRequestRepo) SetStatus(ctx context.Context, restaurantID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_requests SET status = $3, updated_at = now() WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, status,
	)
	if err != nil {
		return fmt.Errorf("set request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return nil
}

// MarkConverted fija CONVERTED y la referencia a la factura creada.
func (r *PurchaseRequestRepo) MarkConverted(ctx context.Context, restaurantID, id, invoiceID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_requests SET status = $3, converted_invoice_id = $4, updated_at = now()
		 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, entity.RequestStatusConverted, invoiceID,
	)
	if err != nil {
		return fmt.Errorf("mark request converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return nil
}

// AppendNote agrega una nota al final de la existente.
func (r *PurchaseRequestRepo) AppendNote(ctx context.Context, restaurantID, id, note string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_requests
		 SET note = CASE WHEN note = '' THEN $3 ELSE note || E'\n' || $3 END, updated_at = now()
		 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id, note,
	)
	if err != nil {
		return fmt.Errorf("append request note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PurchaseRequestRepo) listLines(ctx context.Context, restaurantID, requestID string) ([]entity.PurchaseRequestLine, error) {
	query := `
		SELECT id, request_id, restaurant_id, item_id, required_qty, current_stock, reorder_level, suggested_qty, reason, note
		FROM purchase_request_lines WHERE restaurant_id = $1 AND request_id = $2
		ORDER BY suggested_qty DESC, item_id ASC`
	rows, err := r.q.Query(ctx, query, restaurantID, requestID)
	if err != nil {
		return nil, fmt.Errorf("list purchase request lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.PurchaseRequestLine
	for rows.Next() {
		var l entity.PurchaseRequestLine
		err := rows.Scan(&l.ID, &l.RequestID, &l.RestaurantID, &l.ItemID,
			&l.RequiredQty, &l.CurrentStock, &l.ReorderLevel, &l.SuggestedQty, &l.Reason, &l.Note)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
