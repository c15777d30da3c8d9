package repository

import "github.com/jhoicas/stock-rentals-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByName busca por nombre exacto (case-insensitive); usado por la
	// creación implícita de clientes en la salida de stock.
	GetByName(name string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
