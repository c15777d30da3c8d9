package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User representa un usuario del sistema (personal del almacén).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
