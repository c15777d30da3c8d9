package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/domain"
)

// Tipos de transacción de salida de stock.
const (
	TransactionSold          = "SOLD"
	TransactionRented        = "RENTED"
	TransactionMaintained    = "MAINTAINED"
	TransactionNotMaintained = "NOT_MAINTAINED"
)

// Estados del ciclo de vida (solo aplican a RENTED; el resto nace terminal).
const (
	StatusActive   = "ACTIVE"
	StatusReturned = "RETURNED"
)

// ValidTransactionType verifica que el tipo sea uno de los cuatro permitidos.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionSold, TransactionRented, TransactionMaintained, TransactionNotMaintained:
		return true
	}
	return false
}

// TransactionItem es una línea de la transacción: producto y cantidad.
// QuantityReturned acumula las devoluciones parciales de un alquiler.
type TransactionItem struct {
	ID               string
	TransactionID    string
	ProductID        string
	ProductName      string // denormalizado en lecturas (join con products)
	Quantity         int64
	QuantityReturned int64
}

// Pending devuelve la cantidad alquilada aún no devuelta.
func (i *TransactionItem) Pending() int64 {
	return i.Quantity - i.QuantityReturned
}

// Transaction representa una salida de stock (venta, alquiler o mantenimiento).
// Es append-only: nunca se elimina; un alquiler solo cambia de estado al
// registrarse la devolución completa.
type Transaction struct {
	ID                 string
	Type               string
	CustomerID         string // exactamente uno de CustomerID/CustomerName
	CustomerName       string
	Items              []TransactionItem
	TransactionDate    time.Time
	ExpectedReturnDate *time.Time // obligatorio si Type == RENTED
	Status             string     // ACTIVE | RETURNED; vacío para tipos no RENTED
	ReturnDate         *time.Time
	ReturnCondition    string
	// SearchText índice de búsqueda precalculado al crear la transacción
	// (nombres de producto + nombre y email del cliente, normalizados).
	SearchText string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsRental indica si la transacción tiene ciclo de vida (alquiler).
func (t *Transaction) IsRental() bool {
	return t.Type == TransactionRented
}

// FullyReturned indica si todas las líneas fueron devueltas por completo.
func (t *Transaction) FullyReturned() bool {
	for i := range t.Items {
		if t.Items[i].Pending() > 0 {
			return false
		}
	}
	return true
}

// itemFor resuelve la línea a devolver. Con una sola línea el productID puede
// omitirse; con varias es obligatorio.
func (t *Transaction) itemFor(productID string) (*TransactionItem, error) {
	if productID == "" {
		if len(t.Items) == 1 {
			return &t.Items[0], nil
		}
		return nil, fmt.Errorf("%w: la transacción tiene %d líneas, indique el producto", domain.ErrInvalidInput, len(t.Items))
	}
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: producto %s no pertenece a la transacción", domain.ErrNotFound, productID)
}

// ApplyReturn valida y aplica una devolución sobre la transacción (máquina de
// estados ACTIVE → RETURNED). Devuelve la línea afectada para que el caller
// acredite el stock por la misma cantidad. No toca el ledger: eso es del
// orquestador, que debe confirmar ambos cambios en la misma transacción.
func (t *Transaction) ApplyReturn(productID string, quantity int64, returnDate time.Time, condition string, now time.Time) (*TransactionItem, error) {
	if !t.IsRental() {
		return nil, fmt.Errorf("%w: una transacción %s no admite devolución", domain.ErrInvalidTransition, t.Type)
	}
	if t.Status == StatusReturned {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrAlreadyReturned, t.ID)
	}
	if returnDate.Before(t.TransactionDate) {
		return nil, fmt.Errorf("%w: la fecha de devolución %s es anterior a la fecha de la transacción %s",
			domain.ErrInvalidDate, returnDate.Format("2006-01-02"), t.TransactionDate.Format("2006-01-02"))
	}
	item, err := t.itemFor(productID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > item.Pending() {
		return nil, fmt.Errorf("%w: producto %s: devolución de %d con %d pendiente",
			domain.ErrInvalidQuantity, item.ProductID, quantity, item.Pending())
	}
	item.QuantityReturned += quantity
	t.ReturnDate = &returnDate
	t.ReturnCondition = condition
	if t.FullyReturned() {
		t.Status = StatusReturned
	}
	t.UpdatedAt = now
	return item, nil
}
