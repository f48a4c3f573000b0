package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/repository"
)

// Los repos devuelven copias: el estado del store solo muta por sus métodos,
// igual que una fila de base de datos.

// ItemRepo ítems de inventario en memoria.
type ItemRepo struct{ s *Store }

var _ repository.InventoryItemRepository = (*ItemRepo)(nil)

func cloneItem(it *entity.InventoryItem) *entity.InventoryItem {
	cp := *it
	return &cp
}

func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.items {
		if ex.RestaurantID == item.RestaurantID && ex.SKU == item.SKU {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, item.SKU)
		}
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.items[item.ID]
	if !ok || ex.RestaurantID != item.RestaurantID {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, item.ID)
	}
	ex.Name = item.Name
	ex.Unit = item.Unit
	ex.ReorderLevel = item.ReorderLevel
	ex.IsActive = item.IsActive
	ex.UpdatedAt = item.UpdatedAt
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.RestaurantID != restaurantID {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, restaurantID, sku string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.RestaurantID == restaurantID && it.SKU == sku {
			return cloneItem(it), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) ListByIDs(_ context.Context, restaurantID string, ids []string) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryItem
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok && it.RestaurantID == restaurantID {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *ItemRepo) List(_ context.Context, restaurantID string, onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedByKey(r.s.items, func(it *entity.InventoryItem) bool {
		return it.RestaurantID == restaurantID && (!onlyActive || it.IsActive)
	})
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.InventoryItem, 0, len(all))
	for _, it := range all {
		out = append(out, cloneItem(it))
	}
	return out, nil
}

func (r *ItemRepo) ListLowStock(_ context.Context, restaurantID string) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	low := sortedByKey(r.s.items, func(it *entity.InventoryItem) bool {
		return it.RestaurantID == restaurantID && it.IsActive && it.CurrentStock.LessThanOrEqual(it.ReorderLevel)
	})
	out := make([]*entity.InventoryItem, 0, len(low))
	for _, it := range low {
		out = append(out, cloneItem(it))
	}
	return out, nil
}

func (r *ItemRepo) SetStock(_ context.Context, restaurantID, id string, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.RestaurantID != restaurantID {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	it.CurrentStock = stock
	it.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepo) SetCost(_ context.Context, restaurantID, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.RestaurantID != restaurantID {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	it.CostPerUnit = cost
	it.UpdatedAt = time.Now()
	return nil
}

// MovementRepo ledger append-only en memoria.
type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) ListByItem(_ context.Context, restaurantID, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	// más reciente primero
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.RestaurantID == restaurantID && m.ItemID == itemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MovementRepo) SumByItem(_ context.Context, restaurantID, itemID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.RestaurantID == restaurantID && m.ItemID == itemID {
			sum = sum.Add(m.SignedDelta())
		}
	}
	return sum, nil
}

// RecipeRepo líneas de receta en memoria.
type RecipeRepo struct{ s *Store }

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

func (r *RecipeRepo) Create(_ context.Context, line *entity.RecipeLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.recipes {
		if ex.RestaurantID == line.RestaurantID && ex.MenuItemID == line.MenuItemID && ex.IngredientID == line.IngredientID {
			return fmt.Errorf("%w: el ingrediente ya está en la receta", domain.ErrDuplicate)
		}
	}
	cp := *line
	r.s.recipes[line.ID] = &cp
	return nil
}

func (r *RecipeRepo) Delete(_ context.Context, restaurantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.recipes[id]
	if !ok || l.RestaurantID != restaurantID {
		return fmt.Errorf("%w: línea de receta %s", domain.ErrNotFound, id)
	}
	delete(r.s.recipes, id)
	return nil
}

func (r *RecipeRepo) ListByMenuItem(_ context.Context, restaurantID, menuItemID string) ([]entity.RecipeLine, error) {
	return r.listWhere(func(l *entity.RecipeLine) bool {
		return l.RestaurantID == restaurantID && l.MenuItemID == menuItemID
	})
}

func (r *RecipeRepo) ListByMenuItems(_ context.Context, restaurantID string, menuItemIDs []string) ([]entity.RecipeLine, error) {
	want := make(map[string]bool, len(menuItemIDs))
	for _, id := range menuItemIDs {
		want[id] = true
	}
	return r.listWhere(func(l *entity.RecipeLine) bool {
		return l.RestaurantID == restaurantID && want[l.MenuItemID]
	})
}

func (r *RecipeRepo) listWhere(keep func(*entity.RecipeLine) bool) ([]entity.RecipeLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := sortedByKey(r.s.recipes, keep)
	out := make([]entity.RecipeLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	return out, nil
}

// MenuRepo categorías y platos en memoria.
type MenuRepo struct{ s *Store }

var _ repository.MenuRepository = (*MenuRepo)(nil)

func (r *MenuRepo) CreateCategory(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.cats[c.ID] = &cp
	return nil
}

func (r *MenuRepo) ListCategories(_ context.Context, restaurantID string) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cats := sortedByKey(r.s.cats, func(c *entity.Category) bool { return c.RestaurantID == restaurantID })
	out := make([]*entity.Category, 0, len(cats))
	for _, c := range cats {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MenuRepo) CreateMenuItem(_ context.Context, mi *entity.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *mi
	r.s.menuItems[mi.ID] = &cp
	return nil
}

func (r *MenuRepo) GetMenuItem(_ context.Context, restaurantID, id string) (*entity.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mi, ok := r.s.menuItems[id]
	if !ok || mi.RestaurantID != restaurantID {
		return nil, nil
	}
	cp := *mi
	return &cp, nil
}

func (r *MenuRepo) ListMenuItems(_ context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error) {
	return r.listWhere(func(mi *entity.MenuItem) bool {
		return mi.RestaurantID == restaurantID && (!onlyAvailable || mi.IsAvailable)
	})
}

func (r *MenuRepo) ListMenuItemsByIDs(_ context.Context, restaurantID string, ids []string) ([]*entity.MenuItem, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.listWhere(func(mi *entity.MenuItem) bool {
		return mi.RestaurantID == restaurantID && want[mi.ID]
	})
}

func (r *MenuRepo) listWhere(keep func(*entity.MenuItem) bool) ([]*entity.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := sortedByKey(r.s.menuItems, keep)
	out := make([]*entity.MenuItem, 0, len(items))
	for _, mi := range items {
		cp := *mi
		out = append(out, &cp)
	}
	return out, nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.RestaurantID != restaurantID {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *SaleRepo) List(_ context.Context, restaurantID string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales := sortedByKey(r.s.sales, func(s *entity.Sale) bool { return s.RestaurantID == restaurantID })
	if offset > len(sales) {
		offset = len(sales)
	}
	sales = sales[offset:]
	if limit > 0 && limit < len(sales) {
		sales = sales[:limit]
	}
	out := make([]*entity.Sale, 0, len(sales))
	for _, s := range sales {
		out = append(out, cloneSale(s))
	}
	return out, nil
}

func (r *SaleRepo) SetStatus(_ context.Context, restaurantID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.RestaurantID != restaurantID {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	sale.Status = status
	return nil
}

func (r *SaleRepo) MarkInventoryDeducted(_ context.Context, restaurantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.RestaurantID != restaurantID {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	sale.InventoryDeducted = true
	return nil
}

// InvoiceRepo facturas de compra en memoria.
type InvoiceRepo struct{ s *Store }

var _ repository.PurchaseInvoiceRepository = (*InvoiceRepo)(nil)

func cloneInvoice(inv *entity.PurchaseInvoice) *entity.PurchaseInvoice {
	cp := *inv
	cp.Lines = append([]entity.PurchaseLine(nil), inv.Lines...)
	if inv.VoidedAt != nil {
		t := *inv.VoidedAt
		cp.VoidedAt = &t
	}
	return &cp
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.PurchaseInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.RestaurantID != restaurantID {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) List(_ context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	invoices := sortedByKey(r.s.invoices, func(inv *entity.PurchaseInvoice) bool {
		return inv.RestaurantID == restaurantID && (status == "" || inv.Status == status)
	})
	if offset > len(invoices) {
		offset = len(invoices)
	}
	invoices = invoices[offset:]
	if limit > 0 && limit < len(invoices) {
		invoices = invoices[:limit]
	}
	out := make([]*entity.PurchaseInvoice, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, cloneInvoice(inv))
	}
	return out, nil
}

func (r *InvoiceRepo) SetStatus(_ context.Context, restaurantID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.RestaurantID != restaurantID {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	inv.Status = status
	return nil
}

func (r *InvoiceRepo) MarkVoid(_ context.Context, restaurantID, id, reason, voidedBy string, voidedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.RestaurantID != restaurantID {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	inv.Status = entity.PurchaseStatusVoid
	inv.VoidReason = reason
	inv.VoidedBy = voidedBy
	inv.VoidedAt = &voidedAt
	return nil
}

// RequestRepo solicitudes de compra en memoria.
type RequestRepo struct{ s *Store }

var _ repository.PurchaseRequestRepository = (*RequestRepo)(nil)

func cloneRequest(pr *entity.PurchaseRequest) *entity.PurchaseRequest {
	cp := *pr
	cp.Lines = append([]entity.PurchaseRequestLine(nil), pr.Lines...)
	if pr.SourcePlanDate != nil {
		t := *pr.SourcePlanDate
		cp.SourcePlanDate = &t
	}
	return &cp
}

func (r *RequestRepo) Create(_ context.Context, pr *entity.PurchaseRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests[pr.ID] = cloneRequest(pr)
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.PurchaseRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr, ok := r.s.requests[id]
	if !ok || pr.RestaurantID != restaurantID {
		return nil, nil
	}
	return cloneRequest(pr), nil
}

func (r *RequestRepo) List(_ context.Context, restaurantID, status string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	requests := sortedByKey(r.s.requests, func(pr *entity.PurchaseRequest) bool {
		return pr.RestaurantID == restaurantID && (status == "" || pr.Status == status)
	})
	if offset > len(requests) {
		offset = len(requests)
	}
	requests = requests[offset:]
	if limit > 0 && limit < len(requests) {
		requests = requests[:limit]
	}
	out := make([]*entity.PurchaseRequest, 0, len(requests))
	for _, pr := range requests {
		out = append(out, cloneRequest(pr))
	}
	return out, nil
}

func (r *RequestRepo) SetStatus(_ context.Context, restaurantID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr, ok := r.s.requests[id]
	if !ok || pr.RestaurantID != restaurantID {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	pr.Status = status
	pr.UpdatedAt = time.Now()
	return nil
}

func (r *RequestRepo) MarkConverted(_ context.Context, restaurantID, id, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr, ok := r.s.requests[id]
	if !ok || pr.RestaurantID != restaurantID {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	pr.Status = entity.RequestStatusConverted
	pr.ConvertedInvoiceID = invoiceID
	pr.UpdatedAt = time.Now()
	return nil
}

func (r *RequestRepo) AppendNote(_ context.Context, restaurantID, id, note string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr, ok := r.s.requests[id]
	if !ok || pr.RestaurantID != restaurantID {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	if pr.Note == "" {
		pr.Note = note
	} else {
		pr.Note += "\n" + note
	}
	pr.UpdatedAt = time.Now()
	return nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sup
	r.s.suppliers[sup.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[id]
	if !ok || sup.RestaurantID != restaurantID {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r *SupplierRepo) List(_ context.Context, restaurantID string, onlyActive bool) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	suppliers := sortedByKey(r.s.suppliers, func(s *entity.Supplier) bool {
		return s.RestaurantID == restaurantID && (!onlyActive || s.IsActive)
	})
	out := make([]*entity.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// UserRepo usuarios y restaurantes en memoria.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo construye el repo de usuarios sobre el store.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) CreateRestaurant(_ context.Context, rest *entity.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rest
	r.s.restaurants[rest.ID] = &cp
	return nil
}

func (r *UserRepo) GetRestaurant(_ context.Context, id string) (*entity.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rest, ok := r.s.restaurants[id]
	if !ok {
		return nil, nil
	}
	cp := *rest
	return &cp, nil
}

func (r *UserRepo) CreateUser(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if ex.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
