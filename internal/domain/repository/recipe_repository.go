package repository

import (
	"context"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// RecipeRepository puerto del BOM (líneas de receta plato -> ingrediente).
type RecipeRepository interface {
	Create(ctx context.Context, line *entity.RecipeLine) error
	Delete(ctx context.Context, restaurantID, id string) error
	ListByMenuItem(ctx context.Context, restaurantID, menuItemID string) ([]entity.RecipeLine, error)
	// ListByMenuItems devuelve todas las líneas de receta de los platos dados,
	// filtrando a que plato e ingrediente pertenezcan al restaurante.
	ListByMenuItems(ctx context.Context, restaurantID string, menuItemIDs []string) ([]entity.RecipeLine, error)
}

// MenuRepository puerto de categorías y platos del menú.
type MenuRepository interface {
	CreateCategory(ctx context.Context, c *entity.Category) error
	ListCategories(ctx context.Context, restaurantID string) ([]*entity.Category, error)
	CreateMenuItem(ctx context.Context, mi *entity.MenuItem) error
	GetMenuItem(ctx context.Context, restaurantID, id string) (*entity.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error)
	ListMenuItemsByIDs(ctx context.Context, restaurantID string, ids []string) ([]*entity.MenuItem, error)
}
