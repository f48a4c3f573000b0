package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrItemNotFound        = errors.New("ítem de inventario no encontrado en el restaurante")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrVoidWouldUnderflow  = errors.New("anular dejaría stock negativo")
	ErrLockConflict        = errors.New("conflicto de bloqueo, reintentar la transacción")
	ErrForecastUnavailable = errors.New("servicio de pronóstico no disponible")
)

// InsufficientStockError lleva el contexto necesario para que el caller actúe
// sin re-consultar: qué ítem falló y cuánto había frente a cuánto se necesitaba.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ItemID    string
	SKU       string
	Name      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (%s): hay %s, se necesita %s",
		e.Name, e.SKU, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// VoidUnderflowError: revertir la compra dejaría el saldo del ítem negativo.
// errors.Is(err, ErrVoidWouldUnderflow) == true.
type VoidUnderflowError struct {
	ItemID    string
	SKU       string
	Name      string
	Qty       decimal.Decimal
	Available decimal.Decimal
}

func (e *VoidUnderflowError) Error() string {
	return fmt.Sprintf("no se puede anular: el stock de %s (%s) quedaría negativo (actual=%s, reversa=%s)",
		e.Name, e.SKU, e.Available.String(), e.Qty.String())
}

func (e *VoidUnderflowError) Unwrap() error { return ErrVoidWouldUnderflow }

// LockConflictError: no se obtuvo el lock de un ítem dentro del tiempo máximo.
// Es transitorio: el caller puede reintentar la transacción completa.
type LockConflictError struct {
	ItemID string
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("no se obtuvo el lock del ítem %s a tiempo", e.ItemID)
}

func (e *LockConflictError) Unwrap() error { return ErrLockConflict }
