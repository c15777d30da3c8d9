package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, type, category_id, supplier_id, cost_price, serial_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Type, product.CategoryID, nullIfEmpty(product.SupplierID),
		product.CostPrice, nullIfEmpty(product.SerialNumber), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, type, category_id, supplier_id, cost_price, serial_number, created_at, updated_at
		FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySerialNumber obtiene un producto por número de serie (solo ITEM los llevan).
func (r *ProductRepo) GetBySerialNumber(serial string) (*entity.Product, error) {
	query := `
		SELECT id, name, type, category_id, supplier_id, cost_price, serial_number, created_at, updated_at
		FROM products WHERE serial_number = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, serial))
}

// Update actualiza un producto existente. Type y SerialNumber solo cambian si
// el producto no está referenciado por transacciones (validado en el caso de uso).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, type = $3, category_id = $4, supplier_id = $5, cost_price = $6, serial_number = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Type, product.CategoryID, nullIfEmpty(product.SupplierID),
		product.CostPrice, nullIfEmpty(product.SerialNumber), product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, type, category_id, supplier_id, cost_price, serial_number, created_at, updated_at
		FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var supplierID, serial *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.CategoryID, &supplierID,
			&p.CostPrice, &serial, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.SupplierID = deref(supplierID)
		p.SerialNumber = deref(serial)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// HasTransactions indica si el producto aparece en alguna línea de transacción
// o movimiento de stock.
func (r *ProductRepo) HasTransactions(productID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM transaction_items WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product transactions: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var supplierID, serial *string
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.CategoryID, &supplierID,
		&p.CostPrice, &serial, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.SupplierID = deref(supplierID)
	p.SerialNumber = deref(serial)
	return &p, nil
}
