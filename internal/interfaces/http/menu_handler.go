package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/usecase"
)

// MenuHandler maneja categorías, platos y recetas (protegido).
type MenuHandler struct {
	uc *usecase.MenuUseCase
}

// NewMenuHandler construye el handler.
func NewMenuHandler(uc *usecase.MenuUseCase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// CreateCategory godoc
// @Summary      Crear categoría del menú
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "name"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/menu/categories [post]
func (h *MenuHandler) CreateCategory(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cat, err := h.uc.CreateCategory(c.Context(), restaurantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(cat))
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/menu/categories [get]
func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	cats, err := h.uc.ListCategories(c.Context(), restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	return c.JSON(out)
}

// CreateMenuItem godoc
// @Summary      Crear plato del menú
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMenuItemRequest  true  "category_id, name, price"
// @Success      201   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu/items [post]
func (h *MenuHandler) CreateMenuItem(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mi, err := h.uc.CreateMenuItem(c.Context(), restaurantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMenuItemResponse(mi, nil))
}

// ListMenuItems godoc
// @Summary      Listar platos
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        only_available  query  bool  false  "Solo platos disponibles"
// @Success      200  {array}  dto.MenuItemResponse
// @Router       /api/menu/items [get]
func (h *MenuHandler) ListMenuItems(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	items, err := h.uc.ListMenuItems(c.Context(), restaurantID, c.QueryBool("only_available"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, mi := range items {
		out = append(out, toMenuItemResponse(mi, nil))
	}
	return c.JSON(out)
}

// AddRecipeLine godoc
// @Summary      Agregar ingrediente a la receta de un plato
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del plato"
// @Param        body  body  dto.AddRecipeLineRequest  true  "item_id, qty_per_plate"
// @Success      201   {object}  dto.RecipeLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/menu/items/{id}/recipe [post]
func (h *MenuHandler) AddRecipeLine(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.AddRecipeLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.AddRecipeLine(c.Context(), restaurantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecipeLineResponse(line))
}

// ListRecipe godoc
// @Summary      Receta de un plato
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del plato"
// @Success      200  {array}  dto.RecipeLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu/items/{id}/recipe [get]
func (h *MenuHandler) ListRecipe(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	lines, err := h.uc.ListRecipe(c.Context(), restaurantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RecipeLineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, toRecipeLineResponse(&lines[i]))
	}
	return c.JSON(out)
}

// RemoveRecipeLine godoc
// @Summary      Quitar un ingrediente de una receta
// @Tags         menu
// @Security     Bearer
// @Param        id      path  string  true  "ID del plato"
// @Param        lineId  path  string  true  "ID de la línea de receta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu/items/{id}/recipe/{lineId} [delete]
func (h *MenuHandler) RemoveRecipeLine(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	if err := h.uc.RemoveRecipeLine(c.Context(), restaurantID, c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
