package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restostock-api/internal/application/auth"
	"github.com/jhoicas/restostock-api/internal/application/planning"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/application/usecase"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	InventoryUC *usecase.InventoryUseCase
	MenuUC      *usecase.MenuUseCase
	SalesUC     *usecase.SalesUseCase
	PurchaseUC  *usecase.PurchaseUseCase
	SupplierUC  *usecase.SupplierUseCase
	Engine      *reconcile.Engine
	Planner     *planning.Planner
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario: ítems + ledger de movimientos
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Engine)
	inv.Post("/items", inventoryHandler.Create)
	inv.Get("/items", inventoryHandler.List)
	inv.Get("/items/low-stock", inventoryHandler.ListLowStock)
	inv.Get("/items/:id", inventoryHandler.GetByID)
	inv.Put("/items/:id", inventoryHandler.Update)
	inv.Get("/items/:id/movements", inventoryHandler.ListMovements)
	inv.Get("/items/:id/consistency", inventoryHandler.CheckConsistency)
	inv.Post("/movements", inventoryHandler.RegisterMovement)

	// Menú: categorías, platos y recetas
	menu := protected.Group("/menu")
	menuHandler := NewMenuHandler(deps.MenuUC)
	menu.Post("/categories", menuHandler.CreateCategory)
	menu.Get("/categories", menuHandler.ListCategories)
	menu.Post("/items", menuHandler.CreateMenuItem)
	menu.Get("/items", menuHandler.ListMenuItems)
	menu.Post("/items/:id/recipe", menuHandler.AddRecipeLine)
	menu.Get("/items/:id/recipe", menuHandler.ListRecipe)
	menu.Delete("/items/:id/recipe/:lineId", menuHandler.RemoveRecipeLine)

	// Ventas
	sales := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	sales.Post("/", salesHandler.Create)
	sales.Get("/", salesHandler.List)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Post("/:id/pay", salesHandler.Pay)
	sales.Post("/:id/deduct", salesHandler.Deduct)
	sales.Post("/:id/void", salesHandler.Void)

	// Compras
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/pdf", purchaseHandler.DownloadPDF)
	purchases.Post("/:id/post", purchaseHandler.Post)
	purchases.Post("/:id/void", RequireRole(entity.RoleAdmin), purchaseHandler.Void)

	// Proveedores
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Planificación: alertas, plan por pronóstico y solicitudes de compra
	plan := protected.Group("/planning")
	planningHandler := NewPlanningHandler(deps.Planner)
	plan.Get("/alerts", planningHandler.Alerts)
	plan.Get("/plan", planningHandler.Plan)
	plan.Post("/forecast-draft", planningHandler.ForecastDraft)
	plan.Post("/requests", planningHandler.ConvertAlerts)
	plan.Get("/requests", planningHandler.ListRequests)
	plan.Get("/requests/:id", planningHandler.GetRequest)
	plan.Post("/requests/:id/submit", planningHandler.Submit)
	plan.Post("/requests/:id/approve", RequireRole(entity.RoleAdmin), planningHandler.Approve)
	plan.Post("/requests/:id/cancel", planningHandler.Cancel)
	plan.Post("/requests/:id/convert", planningHandler.ConvertRequest)
}
