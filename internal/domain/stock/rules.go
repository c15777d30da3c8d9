// Package stock contiene las reglas puras del ledger de inventario:
// validación de cantidades y débito/crédito del on-hand. Las funciones no
// tocan persistencia; el orquestador las aplica dentro de una transacción.
package stock

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// ValidateQuantity verifica la cantidad de una operación según el tipo de
// producto: siempre >= 1, y exactamente 1 para productos ITEM (serializados).
func ValidateQuantity(product *entity.Product, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("%w: producto %s: la cantidad debe ser >= 1 (recibido %d)",
			domain.ErrInvalidQuantity, product.ID, quantity)
	}
	if product.IsItem() && quantity != 1 {
		return fmt.Errorf("%w: producto %s es ITEM (serializado): la cantidad debe ser exactamente 1 (recibido %d)",
			domain.ErrInvalidQuantity, product.ID, quantity)
	}
	return nil
}

// Debit descuenta cantidad del on-hand (salida de stock). Falla con
// ErrInsufficientStock si no hay existencia suficiente, indicando lo
// solicitado y lo disponible.
func Debit(s *entity.Stock, product *entity.Product, quantity int64, now time.Time) error {
	if err := ValidateQuantity(product, quantity); err != nil {
		return err
	}
	if quantity > s.OnHand {
		return fmt.Errorf("%w: producto %s: solicitado %d, disponible %d",
			domain.ErrInsufficientStock, product.ID, quantity, s.OnHand)
	}
	s.OnHand -= quantity
	s.UpdatedAt = now
	return nil
}

// Credit suma cantidad al on-hand (entrada o devolución).
func Credit(s *entity.Stock, product *entity.Product, quantity int64, now time.Time) error {
	if err := ValidateQuantity(product, quantity); err != nil {
		return err
	}
	s.OnHand += quantity
	s.UpdatedAt = now
	return nil
}
