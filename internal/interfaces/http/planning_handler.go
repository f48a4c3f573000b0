package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/planning"
)

// Horizonte y tamaño de pedido al oráculo cuando el cliente no los fija.
const (
	defaultHorizonDays = 7
	defaultTopN        = 20
)

// PlanningHandler maneja el tablero de stock bajo, el plan por pronóstico y
// el ciclo de vida de las solicitudes de compra (protegido).
type PlanningHandler struct {
	planner *planning.Planner
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(planner *planning.Planner) *PlanningHandler {
	return &PlanningHandler{planner: planner}
}

// Alerts godoc
// @Summary      Tablero de alertas de stock bajo
// @Description  Sin scope clasifica solo stock contra reorden; con scope
//               (tomorrow | next7) suma el requerimiento del pronóstico.
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        scope  query  string  false  "tomorrow | next7"
// @Success      200  {object}  dto.AlertSet
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/planning/alerts [get]
func (h *PlanningHandler) Alerts(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	scope := c.Query("scope")
	if scope == "" {
		alerts, sum, err := h.planner.ComputeLowStockAlerts(c.Context(), restaurantID, nil)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.AlertSet{
			GeneratedAt: time.Now(),
			Summary:     toAlertSummary(sum),
			Alerts:      toAlertResponses(alerts),
		})
	}
	plan, err := h.planner.BuildIngredientPlan(c.Context(), restaurantID, scope, horizonFor(scope), defaultTopN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AlertSet{
		Scope:          plan.Scope,
		GeneratedAt:    plan.GeneratedAt,
		Summary:        toAlertSummary(plan.Summary),
		Alerts:         toAlertResponses(plan.Alerts),
		MissingRecipes: toMissingRecipes(plan.MissingRecipes),
	})
}

// Plan godoc
// @Summary      Plan de ingredientes por pronóstico de demanda
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        scope         query  string  true   "tomorrow | next7"
// @Param        horizon_days  query  int     false  "Días a pronosticar (default 7)"
// @Param        top_n         query  int     false  "Platos a pedir al oráculo (default 20)"
// @Success      200  {object}  dto.IngredientPlan
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/planning/plan [get]
func (h *PlanningHandler) Plan(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	scope := c.Query("scope", planning.ScopeTomorrow)
	horizon := c.QueryInt("horizon_days", horizonFor(scope))
	topN := c.QueryInt("top_n", defaultTopN)
	plan, err := h.planner.BuildIngredientPlan(c.Context(), restaurantID, scope, horizon, topN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toIngredientPlan(plan))
}

// ConvertAlerts godoc
// @Summary      Materializar alertas en una solicitud de compra DRAFT
// @Description  item_ids vacío toma todas las alertas accionables (no-OK).
// @Tags         planning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertAlertsRequest  true  "scope, item_ids, notes"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/planning/requests [post]
func (h *PlanningHandler) ConvertAlerts(c *fiber.Ctx) error {
	restaurantID, userID := GetRestaurantID(c), GetUserID(c)
	if restaurantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ConvertAlertsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	var alerts []planning.Alert
	if in.Scope == "" {
		var err error
		alerts, _, err = h.planner.ComputeLowStockAlerts(c.Context(), restaurantID, nil)
		if err != nil {
			return respondError(c, err)
		}
	} else {
		plan, err := h.planner.BuildIngredientPlan(c.Context(), restaurantID, in.Scope, horizonFor(in.Scope), defaultTopN)
		if err != nil {
			return respondError(c, err)
		}
		alerts = plan.Alerts
	}
	if len(in.ItemIDs) > 0 {
		want := make(map[string]bool, len(in.ItemIDs))
		for _, id := range in.ItemIDs {
			want[id] = true
		}
		kept := alerts[:0]
		for _, a := range alerts {
			if want[a.ItemID] {
				kept = append(kept, a)
			}
		}
		alerts = kept
	}

	pr, err := h.planner.ConvertAlertsToPurchaseRequest(c.Context(), restaurantID, userID, alerts, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseRequestResponse(pr))
}

// GetRequest godoc
// @Summary      Obtener una solicitud de compra
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planning/requests/{id} [get]
func (h *PlanningHandler) GetRequest(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	pr, err := h.planner.GetPurchaseRequest(c.Context(), restaurantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// ListRequests godoc
// @Summary      Listar solicitudes de compra
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT | SUBMITTED | APPROVED | CONVERTED | CANCELLED"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.PurchaseRequestResponse
// @Router       /api/planning/requests [get]
func (h *PlanningHandler) ListRequests(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	prs, err := h.planner.ListPurchaseRequests(c.Context(), restaurantID, c.Query("status"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseRequestResponse, 0, len(prs))
	for _, pr := range prs {
		out = append(out, toPurchaseRequestResponse(pr))
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar una solicitud DRAFT a revisión
// @Tags         planning
// @Security     Bearer
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/planning/requests/{id}/submit [post]
func (h *PlanningHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.planner.SubmitPurchaseRequest)
}

// Approve godoc
// @Summary      Aprobar una solicitud SUBMITTED
// @Tags         planning
// @Security     Bearer
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/planning/requests/{id}/approve [post]
func (h *PlanningHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.planner.ApprovePurchaseRequest)
}

// Cancel godoc
// @Summary      Cancelar una solicitud DRAFT o SUBMITTED
// @Tags         planning
// @Security     Bearer
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/planning/requests/{id}/cancel [post]
func (h *PlanningHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.planner.CancelPurchaseRequest)
}

// ConvertRequest godoc
// @Summary      Convertir una solicitud APPROVED en factura de compra DRAFT
// @Description  La factura nace DRAFT al costo vigente de cada ítem; no toca
//               inventario hasta contabilizarse.
// @Tags         planning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ConvertRequestRequest  true  "supplier_id"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/planning/requests/{id}/convert [post]
func (h *PlanningHandler) ConvertRequest(c *fiber.Ctx) error {
	restaurantID, userID := GetRestaurantID(c), GetUserID(c)
	if restaurantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ConvertRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.planner.ConvertRequestToDraftInvoice(c.Context(), restaurantID, userID, c.Params("id"), in.SupplierID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(inv))
}

// ForecastDraft godoc
// @Summary      Factura DRAFT directa desde el pronóstico
// @Description  Atajo pronóstico -> plan -> factura DRAFT con las cantidades
//               sugeridas, al costo vigente de cada ítem.
// @Tags         planning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "scope, horizon_days, top_n, supplier_id"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/planning/forecast-draft [post]
func (h *PlanningHandler) ForecastDraft(c *fiber.Ctx) error {
	restaurantID, userID := GetRestaurantID(c), GetUserID(c)
	if restaurantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in struct {
		Scope       string `json:"scope"`
		HorizonDays int    `json:"horizon_days"`
		TopN        int    `json:"top_n"`
		SupplierID  string `json:"supplier_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Scope == "" {
		in.Scope = planning.ScopeTomorrow
	}
	if in.HorizonDays <= 0 {
		in.HorizonDays = horizonFor(in.Scope)
	}
	if in.TopN <= 0 {
		in.TopN = defaultTopN
	}
	inv, plan, err := h.planner.CreateDraftFromForecast(c.Context(), restaurantID, userID, planning.ForecastDraftInput{
		Scope:       in.Scope,
		HorizonDays: in.HorizonDays,
		TopN:        in.TopN,
		SupplierID:  in.SupplierID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"invoice": toPurchaseResponse(inv),
		"plan":    toIngredientPlan(plan),
	})
}

func (h *PlanningHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, restaurantID, requestID string) error) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	if err := fn(c.Context(), restaurantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func horizonFor(scope string) int {
	if scope == planning.ScopeTomorrow {
		return 1
	}
	return defaultHorizonDays
}
