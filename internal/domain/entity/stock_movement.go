package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN     = "IN"     // entrada (compra / reposición)
	MovementTypeOUT    = "OUT"    // salida (venta, alquiler, mantenimiento)
	MovementTypeRETURN = "RETURN" // devolución de un alquiler
)

// StockMovement representa una línea del libro de movimientos (append-only).
// Cada mutación del stock deja exactamente un registro aquí.
type StockMovement struct {
	ID            string
	TransactionID string // transacción de salida que originó el movimiento; vacío en entradas manuales
	ProductID     string
	Type          string
	Quantity      int64 // positivo entrada/devolución, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Condition     string // estado reportado en la devolución ("good", "damaged", ...)
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
