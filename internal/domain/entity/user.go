package entity

import "time"

// Roles de operador del almacén.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleCalidad   = "calidad"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User operador que inicia sesión en la API.
// WarehouseID vacío significa acceso a todos los almacenes.
type User struct {
	ID           string
	WarehouseID  string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es uno de los reconocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleCalidad:
		return true
	}
	return false
}
