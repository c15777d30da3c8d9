package repository

import (
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// TransactionFilter filtros del listado de transacciones.
// Page es 1-indexado; Type vacío o "ALL" no filtra.
type TransactionFilter struct {
	Type     string
	Search   string // subcadena, sin distinguir mayúsculas ni tildes
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// TransactionRepository define el puerto de persistencia para Transaction y
// sus líneas. Las transacciones nunca se eliminan; solo la devolución de un
// alquiler muta su estado.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	// GetByIDForUpdate bloquea la transacción y sus líneas (SELECT FOR UPDATE)
	// para serializar devoluciones concurrentes.
	GetByIDForUpdate(id string) (*entity.Transaction, error)
	// UpdateReturnState persiste status, fechas y contadores de devolución.
	UpdateReturnState(tx *entity.Transaction) error
	// List devuelve la página solicitada y el total de filas que cumplen el
	// filtro. Orden: transaction_date DESC, created_at DESC.
	List(filter TransactionFilter) ([]*entity.Transaction, int, error)
	// ListOverdueRentals lista alquileres ACTIVE con fecha esperada de
	// devolución anterior a now.
	ListOverdueRentals(now time.Time, limit int) ([]*entity.Transaction, error)
}
