package stock

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
	"github.com/jhoicas/stock-rentals-api/pkg/search"
)

// Valor especial del filtro de tipo: no filtra.
const FilterTypeAll = "ALL"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryUseCase expone las vistas de solo lectura sobre la transacción y el
// libro de movimientos: listado con filtro/búsqueda/paginación e historial
// de movimientos por producto.
type QueryUseCase struct {
	txRepo  repository.TransactionRepository
	movRepo repository.StockMovementRepository
}

// NewQueryUseCase construye la capa de consulta.
func NewQueryUseCase(txRepo repository.TransactionRepository, movRepo repository.StockMovementRepository) *QueryUseCase {
	return &QueryUseCase{txRepo: txRepo, movRepo: movRepo}
}

// List devuelve una página de transacciones. La página es 1-indexada; una
// página más allá del final devuelve cero filas con el total correcto.
func (uc *QueryUseCase) List(in dto.ListTransactionsRequest) (*dto.TransactionListResponse, error) {
	filter := repository.TransactionFilter{
		Type:     in.Type,
		Search:   search.Normalize(in.Search),
		Page:     in.Page,
		PageSize: in.PageSize,
	}
	if filter.Type == FilterTypeAll {
		filter.Type = ""
	}
	if filter.Type != "" && !entity.ValidTransactionType(filter.Type) {
		return nil, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, in.Type)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	rows, total, err := uc.txRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(rows))
	for _, tx := range rows {
		items = append(items, *ToTransactionResponse(tx))
	}
	return &dto.TransactionListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// GetByID devuelve una transacción por ID.
func (uc *QueryUseCase) GetByID(id string) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	return ToTransactionResponse(tx), nil
}

// ListMovements devuelve el historial de movimientos de un producto.
func (uc *QueryUseCase) ListMovements(productID string, from, to *time.Time, limit, offset int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Condition:     m.Condition,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}

// ToTransactionResponse mapea la entidad al DTO de salida.
func ToTransactionResponse(tx *entity.Transaction) *dto.TransactionResponse {
	if tx == nil {
		return nil
	}
	items := make([]dto.TransactionItemResponse, 0, len(tx.Items))
	for i := range tx.Items {
		item := &tx.Items[i]
		items = append(items, dto.TransactionItemResponse{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			QuantityReturned: item.QuantityReturned,
		})
	}
	return &dto.TransactionResponse{
		ID:                 tx.ID,
		Type:               tx.Type,
		CustomerID:         tx.CustomerID,
		CustomerName:       tx.CustomerName,
		Items:              items,
		TransactionDate:    tx.TransactionDate,
		ExpectedReturnDate: tx.ExpectedReturnDate,
		Status:             tx.Status,
		ReturnDate:         tx.ReturnDate,
		ReturnCondition:    tx.ReturnCondition,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
}
