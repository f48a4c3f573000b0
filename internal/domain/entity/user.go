package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Restaurant es el límite de aislamiento multi-tenant: todos los ítems,
// movimientos y transacciones están acotados a un restaurante.
type Restaurant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// User usuario del sistema, siempre asociado a un restaurante.
type User struct {
	ID           string
	RestaurantID string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
