package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no hay update ni delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una línea del libro de movimientos.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, transaction_id, product_id, type, quantity, unit_cost, total_cost, condition, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	txID := (*string)(nil)
	if movement.TransactionID != "" {
		txID = &movement.TransactionID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, txID, movement.ProductID, movement.Type,
		movement.Quantity, movement.UnitCost, movement.TotalCost, movement.Condition,
		movement.Date, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, transaction_id, product_id, type, quantity, unit_cost, total_cost, condition, date, created_at, created_by
		FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var txID, createdBy *string
	if err := row.Scan(&m.ID, &txID, &m.ProductID, &m.Type,
		&m.Quantity, &m.UnitCost, &m.TotalCost, &m.Condition,
		&m.Date, &m.CreatedAt, &createdBy); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	if txID != nil {
		m.TransactionID = *txID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
