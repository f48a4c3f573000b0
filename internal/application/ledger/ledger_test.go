package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restostock-api/internal/application/ledger"
	"github.com/jhoicas/restostock-api/internal/domain"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedItem(t *testing.T, store *memory.Store, stock string) *entity.InventoryItem {
	t.Helper()
	repos := memory.NewRepos(store)
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		RestaurantID: "r1",
		Name:         "Tomate",
		SKU:          "TOM-01",
		Unit:         entity.UnitKG,
		CurrentStock: d(stock),
		ReorderLevel: d("5"),
		IsActive:     true,
	}
	require.NoError(t, repos.Items.Create(context.Background(), item))
	return item
}

func TestApply_INSumaAlSaldo(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "10")
	l := ledger.NewLedger()

	mov, err := l.Apply(context.Background(), repos.Items, repos.Movements, ledger.ApplyInput{
		RestaurantID: "r1",
		ItemID:       item.ID,
		Type:         entity.MovementTypeIN,
		Quantity:     d("2.5"),
		Reason:       entity.ReasonPurchase,
		ActorID:      "u1",
		Now:          time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIN, mov.Type)

	got, err := repos.Items.GetByID(context.Background(), "r1", item.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d("12.5")), "saldo = %s", got.CurrentStock)
}

func TestApply_OUTQueDejaNegativo_NoEscribeNada(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "3")
	l := ledger.NewLedger()

	_, err := l.Apply(context.Background(), repos.Items, repos.Movements, ledger.ApplyInput{
		RestaurantID: "r1",
		ItemID:       item.ID,
		Type:         entity.MovementTypeOUT,
		Quantity:     d("3.01"),
		Reason:       entity.ReasonSale,
		Now:          time.Now(),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, item.ID, insuf.ItemID)
	assert.True(t, insuf.Available.Equal(d("3")))

	// Ni saldo ni ledger cambiaron.
	got, _ := repos.Items.GetByID(context.Background(), "r1", item.ID)
	assert.True(t, got.CurrentStock.Equal(d("3")))
	sum, _ := repos.Movements.SumByItem(context.Background(), "r1", item.ID)
	assert.True(t, sum.IsZero())
}

func TestApply_OUTHastaCero_EsValido(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "3")
	l := ledger.NewLedger()

	_, err := l.Apply(context.Background(), repos.Items, repos.Movements, ledger.ApplyInput{
		RestaurantID: "r1",
		ItemID:       item.ID,
		Type:         entity.MovementTypeOUT,
		Quantity:     d("3"),
		Reason:       entity.ReasonSale,
		Now:          time.Now(),
	})
	require.NoError(t, err)

	got, _ := repos.Items.GetByID(context.Background(), "r1", item.ID)
	assert.True(t, got.CurrentStock.IsZero())
}

func TestApply_ADJUSTConSigno(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "10")
	l := ledger.NewLedger()

	_, err := l.Apply(context.Background(), repos.Items, repos.Movements, ledger.ApplyInput{
		RestaurantID: "r1",
		ItemID:       item.ID,
		Type:         entity.MovementTypeADJUST,
		Quantity:     d("-4"),
		Reason:       entity.ReasonManual,
		Note:         "merma",
		Now:          time.Now(),
	})
	require.NoError(t, err)

	got, _ := repos.Items.GetByID(context.Background(), "r1", item.ID)
	assert.True(t, got.CurrentStock.Equal(d("6")))
}

func TestApply_Validaciones(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "10")
	l := ledger.NewLedger()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ledger.ApplyInput
	}{
		{"tipo inválido", ledger.ApplyInput{RestaurantID: "r1", ItemID: item.ID, Type: "TRANSFER", Quantity: d("1")}},
		{"IN con cantidad cero", ledger.ApplyInput{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeIN, Quantity: decimal.Zero}},
		{"OUT con cantidad negativa", ledger.ApplyInput{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeOUT, Quantity: d("-1")}},
		{"ADJUST con delta cero", ledger.ApplyInput{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeADJUST, Quantity: decimal.Zero}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Apply(ctx, repos.Items, repos.Movements, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApply_ItemInexistente(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	l := ledger.NewLedger()

	_, err := l.Apply(context.Background(), repos.Items, repos.Movements, ledger.ApplyInput{
		RestaurantID: "r1",
		ItemID:       "no-existe",
		Type:         entity.MovementTypeIN,
		Quantity:     d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// El saldo materializado siempre iguala la suma con signo del ledger.
func TestApply_SaldoConciliaConLedger(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	item := seedItem(t, store, "0")
	l := ledger.NewLedger()
	ctx := context.Background()

	steps := []ledger.ApplyInput{
		{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeIN, Quantity: d("20"), Reason: entity.ReasonPurchase},
		{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeOUT, Quantity: d("7.25"), Reason: entity.ReasonSale},
		{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeADJUST, Quantity: d("-0.5"), Reason: entity.ReasonManual},
		{RestaurantID: "r1", ItemID: item.ID, Type: entity.MovementTypeADJUST, Quantity: d("1.25"), Reason: entity.ReasonManual},
	}
	for _, in := range steps {
		in.Now = time.Now()
		_, err := l.Apply(ctx, repos.Items, repos.Movements, in)
		require.NoError(t, err)
	}

	got, _ := repos.Items.GetByID(ctx, "r1", item.ID)
	sum, _ := repos.Movements.SumByItem(ctx, "r1", item.ID)
	assert.True(t, got.CurrentStock.Equal(sum), "saldo %s != suma %s", got.CurrentStock, sum)
	assert.True(t, got.CurrentStock.Equal(d("13.5")))
}
