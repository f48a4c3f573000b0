package planning

import (
	"context"

	"github.com/shopspring/decimal"
)

// MenuDemand demanda pronosticada de un plato del menú.
type MenuDemand struct {
	MenuItemID   string
	MenuItemName string
	Tomorrow     decimal.Decimal
	Next7Total   decimal.Decimal
}

// ForecastResult respuesta del oráculo de pronóstico de demanda.
type ForecastResult struct {
	StartDate string // YYYY-MM-DD del primer día pronosticado
	Items     []MenuDemand
}

// ForecastProvider puerto del servicio externo de pronóstico. El planificador
// lo trata como colaborador opaco: si falla, las operaciones que dependen de
// él devuelven ErrForecastUnavailable y nada más del sistema se ve afectado.
type ForecastProvider interface {
	PredictMenuDemand(ctx context.Context, restaurantID string, horizonDays, topN int) (*ForecastResult, error)
	Close()
}
