package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el on-hand actual de un producto. Sin fila: on-hand cero.
func (r *StockRepo) Get(productID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, on_hand, updated_at
		FROM stock WHERE product_id = $1`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.OnHand, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el on-hand de un producto.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, on_hand, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.OnHand)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE) para
// serializar la secuencia check-then-commit del orquestador.
func (r *StockRepo) GetForUpdate(productID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, on_hand, updated_at
		FROM stock WHERE product_id = $1
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.OnHand, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}
