package planning_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restostock-api/internal/domain/planning"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProject_Critico(t *testing.T) {
	// Requerido 8 con stock 5: faltan 3 aun consumiendo todo.
	p := planning.Project(d("5"), d("2"), d("8"))

	assert.Equal(t, planning.SeverityCritical, p.Severity)
	assert.True(t, p.ProjectedRemaining.Equal(d("-3")), "remanente = %s", p.ProjectedRemaining)
	assert.True(t, p.ShortageToPlan.Equal(d("3")))
	// sugerido = 8 + 2 - 5 = 5: cubre el plan y repone el colchón
	assert.True(t, p.SuggestedQty.Equal(d("5")))
}

func TestProject_BajoPorColchon(t *testing.T) {
	// Alcanza para el plan pero el remanente cae al nivel de reorden.
	p := planning.Project(d("10"), d("5"), d("8"))

	assert.Equal(t, planning.SeverityLow, p.Severity)
	assert.True(t, p.ProjectedRemaining.Equal(d("2")))
	assert.True(t, p.ShortageToPlan.IsZero())
	// sugerido = 8 + 5 - 10 = 3
	assert.True(t, p.SuggestedQty.Equal(d("3")))
}

func TestProject_RemanenteIgualAlReorden_EsLow(t *testing.T) {
	// El borde cuenta: proyectado == reorden ya es LOW.
	p := planning.Project(d("13"), d("5"), d("8"))
	assert.Equal(t, planning.SeverityLow, p.Severity)
}

func TestProject_OK(t *testing.T) {
	p := planning.Project(d("50"), d("5"), d("8"))

	assert.Equal(t, planning.SeverityOK, p.Severity)
	assert.True(t, p.ProjectedRemaining.Equal(d("42")))
	assert.True(t, p.ShortageToPlan.IsZero())
	assert.True(t, p.SuggestedQty.IsZero(), "con sobrante no se sugiere compra")
}

func TestProject_SinRequerimiento_SoloStockVsReorden(t *testing.T) {
	// requirement cero: la severidad sale de stock contra reorden.
	low := planning.Project(d("4"), d("5"), decimal.Zero)
	assert.Equal(t, planning.SeverityLow, low.Severity)
	assert.True(t, low.SuggestedQty.Equal(d("1")))

	ok := planning.Project(d("6"), d("5"), decimal.Zero)
	assert.Equal(t, planning.SeverityOK, ok.Severity)
}

func TestProject_SugeridoNuncaNegativo(t *testing.T) {
	p := planning.Project(d("100"), d("1"), d("2"))
	assert.True(t, p.SuggestedQty.IsZero())
	assert.True(t, p.ShortageToPlan.IsZero())
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, planning.SeverityRank(planning.SeverityCritical), planning.SeverityRank(planning.SeverityLow))
	assert.Less(t, planning.SeverityRank(planning.SeverityLow), planning.SeverityRank(planning.SeverityOK))
}
