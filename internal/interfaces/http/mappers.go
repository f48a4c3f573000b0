package http

import (
	"github.com/jhoicas/restostock-api/internal/application/dto"
	"github.com/jhoicas/restostock-api/internal/application/planning"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// Mapeo entidad -> DTO. Los handlers nunca devuelven entidades crudas.

func toItemResponse(it *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		RestaurantID: it.RestaurantID,
		Name:         it.Name,
		SKU:          it.SKU,
		Unit:         it.Unit,
		CurrentStock: it.CurrentStock,
		ReorderLevel: it.ReorderLevel,
		CostPerUnit:  it.CostPerUnit,
		IsActive:     it.IsActive,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toItemResponses(items []*entity.InventoryItem) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Note:      m.Note,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toMenuItemResponse(mi *entity.MenuItem, recipe []entity.RecipeLine) dto.MenuItemResponse {
	out := dto.MenuItemResponse{
		ID:          mi.ID,
		CategoryID:  mi.CategoryID,
		Name:        mi.Name,
		Slug:        mi.Slug,
		Price:       mi.Price,
		IsAvailable: mi.IsAvailable,
	}
	for _, l := range recipe {
		out.Recipe = append(out.Recipe, toRecipeLineResponse(&l))
	}
	return out
}

func toRecipeLineResponse(l *entity.RecipeLine) dto.RecipeLineResponse {
	return dto.RecipeLineResponse{
		ID:          l.ID,
		MenuItemID:  l.MenuItemID,
		ItemID:      l.IngredientID,
		QtyPerPlate: l.Qty,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:                s.ID,
		Status:            s.Status,
		PaymentMethod:     s.PaymentMethod,
		Total:             s.Total,
		InventoryDeducted: s.InventoryDeducted,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
	}
	for _, li := range s.Items {
		out.Items = append(out.Items, dto.SaleLineResponse{
			ID:           li.ID,
			MenuItemID:   li.MenuItemID,
			MenuItemName: li.Name,
			Quantity:     li.Qty,
			UnitPrice:    li.UnitPrice,
			LineTotal:    li.LineTotal,
		})
	}
	return out
}

func toDeductionResponse(r *reconcile.DeductionResult) dto.DeductionResponse {
	out := dto.DeductionResponse{
		SaleID:         r.SaleID,
		AlreadyApplied: r.AlreadyApplied,
		Movements:      r.Movements,
	}
	for _, w := range r.MissingRecipes {
		out.MissingRecipes = append(out.MissingRecipes, dto.MissingRecipe{MenuItemID: w.MenuItemID, MenuItemName: w.MenuItemName})
	}
	return out
}

func toPurchaseResponse(inv *entity.PurchaseInvoice) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:            inv.ID,
		SupplierID:    inv.SupplierID,
		InvoiceNumber: inv.InvoiceNo,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Notes:         inv.Note,
		VoidedAt:      inv.VoidedAt,
		VoidReason:    inv.VoidReason,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, dto.PurchaseLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Qty,
			UnitCost:  l.UnitCost,
			LineTotal: l.LineTotal,
		})
	}
	return out
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
	}
}

func toAlertResponses(alerts []planning.Alert) []dto.IngredientAlert {
	out := make([]dto.IngredientAlert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.IngredientAlert{
			ItemID:             a.ItemID,
			Name:               a.Name,
			SKU:                a.SKU,
			Unit:               a.Unit,
			CurrentStock:       a.CurrentStock,
			ReorderLevel:       a.ReorderLevel,
			RequiredQty:        a.RequiredQty,
			ProjectedRemaining: a.ProjectedRemaining,
			SuggestedQty:       a.SuggestedQty,
			Severity:           a.Severity,
		})
	}
	return out
}

func toAlertSummary(s planning.Summary) dto.AlertSummary {
	return dto.AlertSummary{Critical: s.Critical, Low: s.Low, OK: s.OK}
}

func toMissingRecipes(ws []reconcile.MissingRecipeWarning) []dto.MissingRecipe {
	out := make([]dto.MissingRecipe, 0, len(ws))
	for _, w := range ws {
		out = append(out, dto.MissingRecipe{MenuItemID: w.MenuItemID, MenuItemName: w.MenuItemName})
	}
	return out
}

func toIngredientPlan(p *planning.Plan) dto.IngredientPlan {
	out := dto.IngredientPlan{
		Scope:          p.Scope,
		StartDate:      p.StartDate,
		GeneratedAt:    p.GeneratedAt,
		Summary:        toAlertSummary(p.Summary),
		Alerts:         toAlertResponses(p.Alerts),
		MissingRecipes: toMissingRecipes(p.MissingRecipes),
	}
	for _, d := range p.Demand {
		qty := d.Tomorrow
		if p.Scope == planning.ScopeNext7 {
			qty = d.Next7Total
		}
		out.Demand = append(out.Demand, dto.PlanItemDemand{
			MenuItemID:   d.MenuItemID,
			MenuItemName: d.MenuItemName,
			Quantity:     qty,
		})
	}
	return out
}

func toPurchaseRequestResponse(pr *entity.PurchaseRequest) dto.PurchaseRequestResponse {
	out := dto.PurchaseRequestResponse{
		ID:          pr.ID,
		RequestDate: pr.RequestDate,
		Status:      pr.Status,
		Note:        pr.Note,
		CreatedBy:   pr.CreatedBy,
		CreatedAt:   pr.CreatedAt,
		UpdatedAt:   pr.UpdatedAt,
		ConvertedTo: pr.ConvertedInvoiceID,
	}
	for _, l := range pr.Lines {
		out.Lines = append(out.Lines, dto.PurchaseRequestLineResponse{
			ID:           l.ID,
			ItemID:       l.ItemID,
			RequiredQty:  l.RequiredQty,
			CurrentStock: l.CurrentStock,
			ReorderLevel: l.ReorderLevel,
			SuggestedQty: l.SuggestedQty,
			Reason:       l.Reason,
			Note:         l.Note,
		})
	}
	return out
}
