package dto

// ErrorResponse respuesta de error uniforme de la API.
// Code es estable (para lógica del cliente); Message es legible.
// Retryable marca errores transitorios (conflicto de lock) que el cliente
// puede reintentar re-enviando la misma transacción.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}
