package entity

import "time"

// Stock representa la existencia actual (on-hand) de un producto.
// Invariante: OnHand = suma de entradas − suma de salidas no devueltas.
// Solo el orquestador de stock lo muta, siempre dentro de una transacción.
type Stock struct {
	ProductID string
	OnHand    int64
	UpdatedAt time.Time
}
