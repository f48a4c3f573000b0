package reconcile

import (
	"context"

	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

// Repos agrupa los repositorios que participan en las transacciones del motor.
// El TxRunner entrega una instancia atada a la transacción; el mismo tipo
// sirve, atado al pool, para las lecturas previas (read-committed).
type Repos struct {
	Items     repository.InventoryItemRepository
	Movements repository.StockMovementRepository
	Recipes   repository.RecipeRepository
	Menu      repository.MenuRepository
	Sales     repository.SaleRepository
	Invoices  repository.PurchaseInvoiceRepository
	Requests  repository.PurchaseRequestRepository
	Suppliers repository.SupplierRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repos atados a esa
// tx. Commit si fn devuelve nil; Rollback en caso contrario: ninguna
// transacción del motor queda aplicada a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
