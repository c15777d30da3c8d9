package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre
// PostgreSQL (usable con pool o tx). Las transacciones son append-only:
// el único UPDATE permitido es el estado de devolución de un alquiler.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, type, customer_id, customer_name, transaction_date, expected_return_date, status, return_date, return_condition, search_text, created_at, updated_at`

// Create persiste la transacción y sus líneas.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Type, tx.CustomerID, tx.CustomerName, tx.TransactionDate,
		tx.ExpectedReturnDate, nullIfEmpty(tx.Status), tx.ReturnDate,
		nullIfEmpty(tx.ReturnCondition), tx.SearchText, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	for i := range tx.Items {
		item := &tx.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.TransactionID = tx.ID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO transaction_items (id, transaction_id, product_id, quantity, quantity_returned)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.TransactionID, item.ProductID, item.Quantity, item.QuantityReturned,
		)
		if err != nil {
			return fmt.Errorf("insert transaction item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una transacción con sus líneas.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene la transacción bloqueando su fila (SELECT FOR
// UPDATE) para serializar devoluciones concurrentes sobre el mismo alquiler.
func (r *TransactionRepo) GetByIDForUpdate(id string) (*entity.Transaction, error) {
	return r.getByID(id, true)
}

func (r *TransactionRepo) getByID(id string, forUpdate bool) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	tx, err := scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if err := r.loadItems([]*entity.Transaction{tx}); err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateReturnState persiste el estado de devolución de la transacción y los
// contadores quantity_returned de sus líneas.
func (r *TransactionRepo) UpdateReturnState(tx *entity.Transaction) error {
	query := `
		UPDATE transactions SET status = $2, return_date = $3, return_condition = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, nullIfEmpty(tx.Status), tx.ReturnDate, nullIfEmpty(tx.ReturnCondition), tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction return state: %w", err)
	}
	for i := range tx.Items {
		item := &tx.Items[i]
		_, err := r.q.Exec(context.Background(), `
			UPDATE transaction_items SET quantity_returned = $2 WHERE id = $1`,
			item.ID, item.QuantityReturned,
		)
		if err != nil {
			return fmt.Errorf("update transaction item: %w", err)
		}
	}
	return nil
}

// List devuelve la página solicitada y el total de filas que cumplen el
// filtro. El término de búsqueda llega ya normalizado (minúsculas, sin
// tildes) y se compara contra la columna search_text precalculada.
// Orden: transaction_date DESC, created_at DESC.
func (r *TransactionRepo) List(filter repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND search_text LIKE '%%' || $%d || '%%'", pos)
		args = append(args, filter.Search)
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND transaction_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND transaction_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC LIMIT $%d OFFSET $%d`, pos, pos+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListOverdueRentals lista alquileres ACTIVE cuya fecha esperada de
// devolución ya pasó.
func (r *TransactionRepo) ListOverdueRentals(now time.Time, limit int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1 AND status = $2 AND expected_return_date < $3
		ORDER BY expected_return_date ASC LIMIT $4`
	rows, err := r.q.Query(context.Background(), query,
		entity.TransactionRented, entity.StatusActive, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue rentals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas (con nombre de producto denormalizado) para un
// lote de transacciones en una sola consulta.
func (r *TransactionRepo) loadItems(txs []*entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Transaction, len(txs))
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
		ids = append(ids, tx.ID)
	}
	query := `
		SELECT i.id, i.transaction_id, i.product_id, p.name, i.quantity, i.quantity_returned
		FROM transaction_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.transaction_id = ANY($1)
		ORDER BY i.id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("load transaction items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.TransactionItem
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.QuantityReturned); err != nil {
			return fmt.Errorf("scan transaction item: %w", err)
		}
		if tx, ok := byID[item.TransactionID]; ok {
			tx.Items = append(tx.Items, item)
		}
	}
	return rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var tx entity.Transaction
	var status, condition *string
	err := row.Scan(&tx.ID, &tx.Type, &tx.CustomerID, &tx.CustomerName,
		&tx.TransactionDate, &tx.ExpectedReturnDate, &status,
		&tx.ReturnDate, &condition, &tx.SearchText, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tx.Status = deref(status)
	tx.ReturnCondition = deref(condition)
	return &tx, nil
}
