package repository

import (
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos
// (append-only: solo Create y lecturas).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
