package recipe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restostock-api/internal/domain/entity"
	"github.com/jhoicas/restostock-api/internal/domain/recipe"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(menuItemID, ingredientID, qty string) entity.RecipeLine {
	return entity.RecipeLine{
		ID:           menuItemID + "-" + ingredientID,
		RestaurantID: "r1",
		MenuItemID:   menuItemID,
		IngredientID: ingredientID,
		Qty:          d(qty),
	}
}

// Dos platos que comparten un ingrediente: los aportes se suman.
func TestExplode_SumaIngredientesCompartidos(t *testing.T) {
	demand := map[string]decimal.Decimal{
		"hamburguesa": d("10"),
		"pizza":       d("4"),
	}
	lines := []entity.RecipeLine{
		line("hamburguesa", "queso", "0.05"),
		line("hamburguesa", "carne", "0.15"),
		line("pizza", "queso", "0.20"),
	}

	exp := recipe.Explode(demand, lines)

	require.Len(t, exp.Required, 2)
	// queso: 10*0.05 + 4*0.20 = 0.5 + 0.8 = 1.3
	assert.True(t, exp.Required["queso"].Equal(d("1.3")), "queso = %s", exp.Required["queso"])
	assert.True(t, exp.Required["carne"].Equal(d("1.5")), "carne = %s", exp.Required["carne"])
	assert.Empty(t, exp.MissingRecipe)
}

// Cada aporte se redondea a 2 decimales antes de sumar.
func TestExplode_RedondeaCadaAporte(t *testing.T) {
	demand := map[string]decimal.Decimal{"plato": d("3")}
	lines := []entity.RecipeLine{line("plato", "aceite", "0.333")}

	exp := recipe.Explode(demand, lines)

	// 3 * 0.333 = 0.999 -> 1.00
	assert.True(t, exp.Required["aceite"].Equal(d("1")), "aceite = %s", exp.Required["aceite"])
}

// Platos demandados sin receta se reportan, ordenados; no aportan cero en
// silencio.
func TestExplode_ReportaPlatosSinReceta(t *testing.T) {
	demand := map[string]decimal.Decimal{
		"zeta":  d("2"),
		"alfa":  d("1"),
		"plato": d("5"),
	}
	lines := []entity.RecipeLine{line("plato", "harina", "0.4")}

	exp := recipe.Explode(demand, lines)

	assert.Equal(t, []string{"alfa", "zeta"}, exp.MissingRecipe)
	require.Len(t, exp.Required, 1)
	assert.True(t, exp.Required["harina"].Equal(d("2")))
}

// Demanda cero o negativa no aporta requerimiento ni cuenta como faltante.
func TestExplode_IgnoraDemandaNoPositiva(t *testing.T) {
	demand := map[string]decimal.Decimal{
		"plato":     d("0"),
		"otroPlato": d("-3"),
	}
	lines := []entity.RecipeLine{line("plato", "harina", "0.4")}

	exp := recipe.Explode(demand, lines)

	assert.Empty(t, exp.Required)
	assert.Empty(t, exp.MissingRecipe)
}

func TestExplode_DemandaVacia(t *testing.T) {
	exp := recipe.Explode(nil, nil)
	assert.Empty(t, exp.Required)
	assert.Empty(t, exp.MissingRecipe)
}

// El orden de adquisición de locks es determinista: IDs ascendentes.
func TestSortedIngredientIDs(t *testing.T) {
	exp := recipe.Explosion{Required: map[string]decimal.Decimal{
		"c": d("1"), "a": d("2"), "b": d("3"),
	}}
	assert.Equal(t, []string{"a", "b", "c"}, exp.SortedIngredientIDs())
}
