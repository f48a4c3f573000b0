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

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo categorías y platos sobre PostgreSQL (usable con pool o tx).
type MenuRepo struct {
	q Querier
}

// NewMenuRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuRepository(q Querier) *MenuRepo {
	return &MenuRepo{q: q}
}

// CreateCategory persiste una categoría del menú.
func (r *MenuRepo) CreateCategory(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO menu_categories (id, restaurant_id, name, slug, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.RestaurantID, c.Name, c.Slug, c.SortOrder, c.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Slug)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// ListCategories categorías del restaurante en orden de presentación.
func (r *MenuRepo) ListCategories(ctx context.Context, restaurantID string) ([]*entity.Category, error) {
	query := `
		SELECT id, restaurant_id, name, slug, sort_order, is_active
		FROM menu_categories WHERE restaurant_id = $1
		ORDER BY sort_order ASC, name ASC`
	rows, err := r.q.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Slug, &c.SortOrder, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

const menuItemColumns = `id, restaurant_id, category_id, name, slug, description, price, is_available, sort_order, created_at`

// CreateMenuItem persiste un plato.
func (r *MenuRepo) CreateMenuItem(ctx context.Context, mi *entity.MenuItem) error {
	query := `
		INSERT INTO menu_items (` + menuItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		mi.ID, mi.RestaurantID, mi.CategoryID, mi.Name, mi.Slug,
		mi.Description, mi.Price, mi.IsAvailable, mi.SortOrder, mi.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: plato %s", domain.ErrDuplicate, mi.Slug)
		}
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// GetMenuItem devuelve el plato o nil si no existe en el restaurante.
func (r *MenuRepo) GetMenuItem(ctx context.Context, restaurantID, id string) (*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE restaurant_id = $1 AND id = $2`
	var mi entity.MenuItem
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&mi.ID, &mi.RestaurantID, &mi.CategoryID, &mi.Name, &mi.Slug,
		&mi.Description, &mi.Price, &mi.IsAvailable, &mi.SortOrder, &mi.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &mi, nil
}

// ListMenuItems platos del restaurante.
func (r *MenuRepo) ListMenuItems(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE restaurant_id = $1`
	if onlyAvailable {
		query += ` AND is_available`
	}
	query += ` ORDER BY sort_order ASC, name ASC`
	rows, err := r.q.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()
	return r.scanMenuItems(rows)
}

// ListMenuItemsByIDs platos del restaurante cuyo ID esté en ids.
func (r *MenuRepo) ListMenuItemsByIDs(ctx context.Context, restaurantID string, ids []string) ([]*entity.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE restaurant_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(ctx, query, restaurantID, ids)
	if err != nil {
		return nil, fmt.Errorf("list menu items by ids: %w", err)
	}
	defer rows.Close()
	return r.scanMenuItems(rows)
}

func (r *MenuRepo) scanMenuItems(rows pgx.Rows) ([]*entity.MenuItem, error) {
	var items []*entity.MenuItem
	for rows.Next() {
		var mi entity.MenuItem
		err := rows.Scan(
			&mi.ID, &mi.RestaurantID, &mi.CategoryID, &mi.Name, &mi.Slug,
			&mi.Description, &mi.Price, &mi.IsAvailable, &mi.SortOrder, &mi.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, &mi)
	}
	return items, rows.Err()
}
