package repository

import "github.com/jhoicas/stock-rentals-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySerialNumber(serial string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	// HasTransactions indica si el producto está referenciado por alguna
	// transacción (bloquea cambios de tipo/serie y el borrado).
	HasTransactions(productID string) (bool, error)
	Delete(id string) error
}
