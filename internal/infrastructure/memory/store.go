// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en tests: mismo contrato que los adaptadores de PostgreSQL,
// sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/restostock-api/internal/application/reconcile"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
// Un solo mutex: las operaciones son cortas y los tests no necesitan más.
type Store struct {
	mu sync.Mutex

	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
	recipes   map[string]*entity.RecipeLine
	cats      map[string]*entity.Category
	menuItems map[string]*entity.MenuItem
	sales     map[string]*entity.Sale
	invoices  map[string]*entity.PurchaseInvoice
	requests  map[string]*entity.PurchaseRequest
	suppliers map[string]*entity.Supplier

	restaurants map[string]*entity.Restaurant
	users       map[string]*entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:       make(map[string]*entity.InventoryItem),
		recipes:     make(map[string]*entity.RecipeLine),
		cats:        make(map[string]*entity.Category),
		menuItems:   make(map[string]*entity.MenuItem),
		sales:       make(map[string]*entity.Sale),
		invoices:    make(map[string]*entity.PurchaseInvoice),
		requests:    make(map[string]*entity.PurchaseRequest),
		suppliers:   make(map[string]*entity.Supplier),
		restaurants: make(map[string]*entity.Restaurant),
		users:       make(map[string]*entity.User),
	}
}

// NewRepos arma el set completo de repositorios sobre el store.
func NewRepos(s *Store) reconcile.Repos {
	return reconcile.Repos{
		Items:     &ItemRepo{s: s},
		Movements: &MovementRepo{s: s},
		Recipes:   &RecipeRepo{s: s},
		Menu:      &MenuRepo{s: s},
		Sales:     &SaleRepo{s: s},
		Invoices:  &InvoiceRepo{s: s},
		Requests:  &RequestRepo{s: s},
		Suppliers: &SupplierRepo{s: s},
	}
}

// TxRunner pass-through: ejecuta fn con los repos del mismo store. No hay
// rollback real; el motor valida todo antes de escribir, así que los tests
// de aborto no dejan estado a medias.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

var _ reconcile.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn con repos atados al store.
func (t *TxRunner) Run(_ context.Context, fn func(r reconcile.Repos) error) error {
	return fn(NewRepos(t.s))
}

func sortedByKey[T any](m map[string]*T, keep func(*T) bool) []*T {
	ids := make([]string, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
