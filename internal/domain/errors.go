package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUnavailable        = errors.New("servicio no disponible")

	// Errores del motor de stock y del ciclo de vida de transacciones.
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrAlreadyReturned   = errors.New("la transacción ya fue devuelta")
	ErrInvalidDate       = errors.New("fecha inválida")
)
