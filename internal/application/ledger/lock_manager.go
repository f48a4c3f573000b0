package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/restostock-api/internal/domain"
)

// DefaultLockTimeout espera máxima por transacción para adquirir todos sus locks.
const DefaultLockTimeout = 3 * time.Second

// ItemLockManager serializa transacciones que tocan los mismos ítems.
// Mantiene un lock exclusivo por (restaurante, ítem); toda transacción mutante
// adquiere los locks de TODOS sus ítems en orden ascendente de ID antes de
// leer cualquier saldo, y los libera recién al confirmar o abortar. El orden
// determinista de adquisición elimina los ciclos de deadlock entre
// transacciones multi-ítem concurrentes.
type ItemLockManager struct {
	mu      sync.Mutex
	locks   map[string]*itemLock
	timeout time.Duration
}

// itemLock semáforo binario con conteo de referencias para poder limpiar
// la entrada del mapa cuando nadie la espera.
type itemLock struct {
	sem  chan struct{}
	refs int
}

// NewItemLockManager construye el manager. timeout <= 0 usa DefaultLockTimeout.
func NewItemLockManager(timeout time.Duration) *ItemLockManager {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &ItemLockManager{
		locks:   make(map[string]*itemLock),
		timeout: timeout,
	}
}

// AcquireAll adquiere los locks de todos los itemIDs (deduplicados, en orden
// ascendente) y devuelve la función de liberación. La espera total está
// acotada por el timeout del manager: si algún lock no llega a tiempo se
// liberan los ya adquiridos y se devuelve LockConflictError (reintentable),
// de modo que una adquisición fallida nunca deja locks colgados.
func (m *ItemLockManager) AcquireAll(ctx context.Context, restaurantID string, itemIDs []string) (func(), error) {
	keys := m.sortedKeys(restaurantID, itemIDs)
	deadline := time.NewTimer(m.timeout)
	defer deadline.Stop()

	acquired := make([]*itemLock, 0, len(keys))
	rollback := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			<-acquired[i].sem
		}
		m.unref(keys[:len(acquired)])
	}

	for i, key := range keys {
		lock := m.ref(key)
		select {
		case lock.sem <- struct{}{}:
			acquired = append(acquired, lock)
		case <-ctx.Done():
			m.unref(keys[i : i+1])
			rollback()
			return nil, ctx.Err()
		case <-deadline.C:
			m.unref(keys[i : i+1])
			rollback()
			return nil, &domain.LockConflictError{ItemID: strings.TrimPrefix(key, restaurantID+"/")}
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				<-acquired[i].sem
			}
			m.unref(keys)
		})
	}
	return release, nil
}

// sortedKeys dedup + orden ascendente: el orden total determinista que evita
// deadlocks. Los IDs son UUIDs, el orden lexicográfico alcanza.
func (m *ItemLockManager) sortedKeys(restaurantID string, itemIDs []string) []string {
	seen := make(map[string]struct{}, len(itemIDs))
	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		key := restaurantID + "/" + id
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (m *ItemLockManager) ref(key string) *itemLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &itemLock{sem: make(chan struct{}, 1)}
		m.locks[key] = lock
	}
	lock.refs++
	return lock
}

func (m *ItemLockManager) unref(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		lock, ok := m.locks[key]
		if !ok {
			continue
		}
		lock.refs--
		if lock.refs <= 0 {
			delete(m.locks, key)
		}
	}
}
