package stock

import (
	"context"

	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el ledger y el registro de
// transacciones se confirmen o reviertan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// IdempotencyStore deduplica solicitudes reintentadas por clave del caller.
// SetIdempotency devuelve false si la clave ya fue registrada.
type IdempotencyStore interface {
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
