package entity

import "time"

// Customer representa un cliente. Puede crearse explícitamente desde el
// catálogo o implícitamente (solo con el nombre) al registrar una salida
// de stock cuando el cliente aún no existe.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
