// Package planning contiene la matemática pura del planificador de stock bajo.
package planning

import "github.com/shopspring/decimal"

// Severidad de una alerta de reposición.
const (
	SeverityCritical = "CRITICAL" // el requerimiento supera el stock actual
	SeverityLow      = "LOW"      // el remanente proyectado cae al nivel de reorden o debajo
	SeverityOK       = "OK"
)

// Projection es el cálculo de reposición para un ingrediente.
type Projection struct {
	ProjectedRemaining decimal.Decimal // current - required (puede ser negativo)
	ShortageToPlan     decimal.Decimal // max(0, required - current)
	SuggestedQty       decimal.Decimal // max(0, required + reorder - current)
	Severity           string
}

// Project calcula remanente proyectado, severidad y cantidad sugerida de
// compra. SuggestedQty repone hasta cubrir el plan MÁS el colchón de reorden,
// y nunca es negativa.
func Project(current, reorder, required decimal.Decimal) Projection {
	projected := current.Sub(required)

	shortage := required.Sub(current)
	if shortage.LessThan(decimal.Zero) {
		shortage = decimal.Zero
	}

	suggested := required.Add(reorder).Sub(current)
	if suggested.LessThan(decimal.Zero) {
		suggested = decimal.Zero
	}

	severity := SeverityOK
	switch {
	case shortage.GreaterThan(decimal.Zero):
		severity = SeverityCritical
	case projected.LessThanOrEqual(reorder):
		severity = SeverityLow
	}

	return Projection{
		ProjectedRemaining: projected.Round(2),
		ShortageToPlan:     shortage.Round(2),
		SuggestedQty:       suggested.Round(2),
		Severity:           severity,
	}
}

// SeverityRank orden para presentación: CRITICAL antes que LOW antes que OK.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 0
	case SeverityLow:
		return 1
	default:
		return 2
	}
}
