package entity

// Supplier proveedor de insumos del restaurante.
type Supplier struct {
	ID           string
	RestaurantID string
	Name         string
	Email        string
	Phone        string
	Address      string
	IsActive     bool
}
