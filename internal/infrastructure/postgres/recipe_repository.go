package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo líneas de receta (BOM) sobre PostgreSQL (usable con pool o tx).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// Create persiste una línea de receta. Duplicado (plato, ingrediente) -> ErrDuplicate.
func (r *RecipeRepo) Create(ctx context.Context, line *entity.RecipeLine) error {
	query := `
		INSERT INTO recipe_lines (id, restaurant_id, menu_item_id, ingredient_id, qty_per_plate)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, line.ID, line.RestaurantID, line.MenuItemID, line.IngredientID, line.Qty)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el ingrediente ya está en la receta", domain.ErrDuplicate)
		}
		return fmt.Errorf("create recipe line: %w", err)
	}
	return nil
}

// Delete elimina una línea de receta.
func (r *RecipeRepo) Delete(ctx context.Context, restaurantID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete recipe line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de receta %s", domain.ErrNotFound, id)
	}
	return nil
}

// ListByMenuItem líneas de receta de un plato.
func (r *RecipeRepo) ListByMenuItem(ctx context.Context, restaurantID, menuItemID string) ([]entity.RecipeLine, error) {
	query := `
		SELECT id, restaurant_id, menu_item_id, ingredient_id, qty_per_plate
		FROM recipe_lines
		WHERE restaurant_id = $1 AND menu_item_id = $2`
	rows, err := r.q.Query(ctx, query, restaurantID, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()
	return r.scanLines(rows)
}

// ListByMenuItems todas las líneas de receta de los platos dados.
func (r *RecipeRepo) ListByMenuItems(ctx context.Context, restaurantID string, menuItemIDs []string) ([]entity.RecipeLine, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, restaurant_id, menu_item_id, ingredient_id, qty_per_plate
		FROM recipe_lines
		WHERE restaurant_id = $1 AND menu_item_id = ANY($2)`
	rows, err := r.q.Query(ctx, query, restaurantID, menuItemIDs)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines by menu items: %w", err)
	}
	defer rows.Close()
	return r.scanLines(rows)
}

func (r *RecipeRepo) scanLines(rows pgx.Rows) ([]entity.RecipeLine, error) {
	var lines []entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ID, &l.RestaurantID, &l.MenuItemID, &l.IngredientID, &l.Qty); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
