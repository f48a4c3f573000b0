// Package forecast adaptador HTTP del oráculo de pronóstico de demanda.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/application/planning"
)

// Verificar en tiempo de compilación que HTTPClient implementa ForecastProvider.
var _ planning.ForecastProvider = (*HTTPClient)(nil)

// HTTPClient consume el servicio de pronóstico vía REST. El servicio es un
// colaborador externo: acá no hay modelo ni inferencia, solo transporte.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient construye el adaptador. baseURL vacío deshabilita el servicio:
// cada llamada devuelve error descriptivo (el planificador lo traduce a
// ErrForecastUnavailable) en lugar de panic.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Estructura del payload del servicio de pronóstico.
type forecastResponse struct {
	StartDate string `json:"start_date"`
	Items     []struct {
		MenuItemID   string          `json:"menu_item_id"`
		MenuItemName string          `json:"menu_item_name"`
		Tomorrow     decimal.Decimal `json:"tomorrow"`
		Next7Total   decimal.Decimal `json:"next_7_total"`
	} `json:"items"`
	Error string `json:"error,omitempty"`
}

// PredictMenuDemand GET {base}/forecast/menu-demand con restaurante, horizonte
// y top-N. Cualquier fallo de red, status o payload es un error: el caller
// decide qué significa "sin pronóstico".
func (c *HTTPClient) PredictMenuDemand(ctx context.Context, restaurantID string, horizonDays, topN int) (*planning.ForecastResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("forecast: servicio no configurado (FORECAST_URL vacío)")
	}

	q := url.Values{}
	q.Set("restaurant_id", restaurantID)
	q.Set("horizon_days", strconv.Itoa(horizonDays))
	q.Set("top_n", strconv.Itoa(topN))
	endpoint := c.baseURL + "/forecast/menu-demand?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: armar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("forecast: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: status %d: %s", resp.StatusCode, string(body))
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("forecast: payload inválido: %w", err)
	}
	if fr.Error != "" {
		return nil, fmt.Errorf("forecast: %s", fr.Error)
	}

	result := &planning.ForecastResult{StartDate: fr.StartDate}
	for _, it := range fr.Items {
		result.Items = append(result.Items, planning.MenuDemand{
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Tomorrow:     it.Tomorrow,
			Next7Total:   it.Next7Total,
		})
	}
	return result, nil
}

// Close libera las conexiones keep-alive del cliente.
func (c *HTTPClient) Close() {
	c.httpClient.CloseIdleConnections()
}
