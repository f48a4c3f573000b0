package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/domain"
)

func TestAcquireAll_AdquiereYLibera(t *testing.T) {
	m := ledger.NewItemLockManager(time.Second)

	release, err := m.AcquireAll(context.Background(), "r1", []string{"b", "a", "a"})
	require.NoError(t, err)
	release()

	// Tras liberar, los mismos ítems se pueden volver a adquirir de inmediato.
	release2, err := m.AcquireAll(context.Background(), "r1", []string{"a", "b"})
	require.NoError(t, err)
	release2()
}

func TestAcquireAll_ReleaseEsIdempotente(t *testing.T) {
	m := ledger.NewItemLockManager(time.Second)

	release, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	release()
	release() // segunda llamada no debe hacer un doble-release

	release2, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	release2()
}

func TestAcquireAll_ConflictoConTimeout(t *testing.T) {
	m := ledger.NewItemLockManager(50 * time.Millisecond)

	release, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	defer release()

	_, err = m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLockConflict), "err = %v", err)

	var lockErr *domain.LockConflictError
	require.True(t, errors.As(err, &lockErr))
	assert.Equal(t, "a", lockErr.ItemID)
}

// Todo-o-nada: si el segundo lock no llega a tiempo, el primero queda
// liberado y otra transacción puede tomarlo.
func TestAcquireAll_FallaLiberaLosYaAdquiridos(t *testing.T) {
	m := ledger.NewItemLockManager(50 * time.Millisecond)

	// Otro actor retiene "b"; la adquisición de {a, b} debe fallar.
	releaseB, err := m.AcquireAll(context.Background(), "r1", []string{"b"})
	require.NoError(t, err)
	defer releaseB()

	_, err = m.AcquireAll(context.Background(), "r1", []string{"a", "b"})
	require.True(t, errors.Is(err, domain.ErrLockConflict))

	// "a" no quedó colgado.
	releaseA, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	releaseA()
}

func TestAcquireAll_RespetaCancelacionDelContexto(t *testing.T) {
	m := ledger.NewItemLockManager(5 * time.Second)

	release, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err = m.AcquireAll(ctx, "r1", []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

// Restaurantes distintos no compiten por el mismo ítem.
func TestAcquireAll_AisladoPorRestaurante(t *testing.T) {
	m := ledger.NewItemLockManager(50 * time.Millisecond)

	r1, err := m.AcquireAll(context.Background(), "r1", []string{"a"})
	require.NoError(t, err)
	defer r1()

	r2, err := m.AcquireAll(context.Background(), "r2", []string{"a"})
	require.NoError(t, err)
	r2()
}

// Transacciones multi-ítem concurrentes con conjuntos solapados no se
// bloquean entre sí de forma permanente: el orden total de adquisición
// evita los ciclos.
func TestAcquireAll_ConcurrenciaSinDeadlock(t *testing.T) {
	m := ledger.NewItemLockManager(2 * time.Second)
	sets := [][]string{
		{"a", "b"},
		{"b", "c"},
		{"c", "a"},
		{"a", "b", "c"},
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(sets)*10)
	for i := 0; i < 10; i++ {
		for _, set := range sets {
			wg.Add(1)
			go func(ids []string) {
				defer wg.Done()
				release, err := m.AcquireAll(context.Background(), "r1", ids)
				if err != nil {
					errCh <- err
					return
				}
				time.Sleep(time.Millisecond)
				release()
			}(set)
		}
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("adquisición falló: %v", err)
	}
}
