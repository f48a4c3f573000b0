package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, restaurant_id, name, email, phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.RestaurantID, s.Name, s.Email, s.Phone, s.Address, s.IsActive)
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// GetByID devuelve el proveedor o nil si no existe en el restaurante.
func (r *SupplierRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, restaurant_id, name, email, phone, address, is_active
		FROM suppliers WHERE restaurant_id = $1 AND id = $2`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&s.ID, &s.RestaurantID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List proveedores del restaurante.
func (r *SupplierRepo) List(ctx context.Context, restaurantID string, onlyActive bool) ([]*entity.Supplier, error) {
	query := `
		SELECT id, restaurant_id, name, email, phone, address, is_active
		FROM suppliers WHERE restaurant_id = $1`
	if onlyActive {
		query += ` AND is_active`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.q.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.RestaurantID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}
