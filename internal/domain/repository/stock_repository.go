package repository

import "github.com/jhoicas/stock-rentals-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el on-hand por
// producto. Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); cubre la
	// secuencia check-then-commit del orquestador.
	GetForUpdate(productID string) (*entity.Stock, error)
}
