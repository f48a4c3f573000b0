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
	"github.com/jhoicas/restostock-api/pkg/slug"
)

// MenuUseCase categorías, platos y recetas (BOM).
type MenuUseCase struct {
	reader reconcile.Repos
	tx     reconcile.TxRunner
}

// NewMenuUseCase construye el caso de uso.
func NewMenuUseCase(reader reconcile.Repos, tx reconcile.TxRunner) *MenuUseCase {
	return &MenuUseCase{reader: reader, tx: tx}
}

// CreateCategory crea una categoría del menú.
func (uc *MenuUseCase) CreateCategory(ctx context.Context, restaurantID string, in dto.CreateCategoryRequest) (*entity.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	c := &entity.Category{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         in.Name,
		Slug:         slug.Make(in.Name),
		IsActive:     true,
	}
	err := uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Menu.CreateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories categorías del restaurante.
func (uc *MenuUseCase) ListCategories(ctx context.Context, restaurantID string) ([]*entity.Category, error) {
	return uc.reader.Menu.ListCategories(ctx, restaurantID)
}

// CreateMenuItem crea un plato vendible.
func (uc *MenuUseCase) CreateMenuItem(ctx context.Context, restaurantID string, in dto.CreateMenuItemRequest) (*entity.MenuItem, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	mi := &entity.MenuItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Slug:         slug.Make(in.Name),
		Price:        in.Price.Round(2),
		IsAvailable:  true,
		CreatedAt:    time.Now(),
	}
	err := uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Menu.CreateMenuItem(ctx, mi)
	})
	if err != nil {
		return nil, err
	}
	return mi, nil
}

// ListMenuItems platos del restaurante.
func (uc *MenuUseCase) ListMenuItems(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error) {
	return uc.reader.Menu.ListMenuItems(ctx, restaurantID, onlyAvailable)
}

// AddRecipeLine agrega un ingrediente a la receta de un plato. Plato e
// ingrediente deben pertenecer AL MISMO restaurante; la cantidad por plato
// debe ser positiva.
func (uc *MenuUseCase) AddRecipeLine(ctx context.Context, restaurantID, menuItemID string, in dto.AddRecipeLineRequest) (*entity.RecipeLine, error) {
	if !in.QtyPerPlate.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: qty_per_plate debe ser > 0", domain.ErrInvalidInput)
	}
	mi, err := uc.reader.Menu.GetMenuItem(ctx, restaurantID, menuItemID)
	if err != nil {
		return nil, err
	}
	if mi == nil {
		return nil, fmt.Errorf("%w: plato %s", domain.ErrNotFound, menuItemID)
	}
	item, err := uc.reader.Items.GetByID(ctx, restaurantID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, in.ItemID)
	}

	line := &entity.RecipeLine{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		MenuItemID:   menuItemID,
		IngredientID: in.ItemID,
		Qty:          in.QtyPerPlate.Round(2),
	}
	err = uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Recipes.Create(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveRecipeLine quita un ingrediente de una receta.
func (uc *MenuUseCase) RemoveRecipeLine(ctx context.Context, restaurantID, lineID string) error {
	return uc.tx.Run(ctx, func(r reconcile.Repos) error {
		return r.Recipes.Delete(ctx, restaurantID, lineID)
	})
}

// ListRecipe líneas de receta de un plato.
func (uc *MenuUseCase) ListRecipe(ctx context.Context, restaurantID, menuItemID string) ([]entity.RecipeLine, error) {
	mi, err := uc.reader.Menu.GetMenuItem(ctx, restaurantID, menuItemID)
	if err != nil {
		return nil, err
	}
	if mi == nil {
		return nil, fmt.Errorf("%w: plato %s", domain.ErrNotFound, menuItemID)
	}
	return uc.reader.Recipes.ListByMenuItem(ctx, restaurantID, menuItemID)
}
