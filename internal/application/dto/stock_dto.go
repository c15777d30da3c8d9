package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOutItemRequest línea de una salida de stock.
type StockOutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// RecordStockOutRequest body para POST /api/transactions.
// Exactamente uno de customer_id / customer_name debe venir; con
// customer_name se crea el cliente implícitamente si no existe.
// expected_return_date es obligatoria para type=RENTED.
type RecordStockOutRequest struct {
	Type               string                `json:"type" validate:"required"`
	CustomerID         string                `json:"customer_id"`
	CustomerName       string                `json:"customer_name"`
	Items              []StockOutItemRequest `json:"items" validate:"required,min=1,dive"`
	TransactionDate    time.Time             `json:"transaction_date"`
	ExpectedReturnDate *time.Time            `json:"expected_return_date"`
	// IdempotencyKey opcional: reintentos con la misma clave no se aplican dos veces.
	IdempotencyKey string `json:"idempotency_key"`
}

// StockInRequest body para POST /api/stock/in (reposición).
type StockInRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// ReturnRequest body para POST /api/transactions/:id/return.
// product_id puede omitirse cuando la transacción tiene una sola línea.
type ReturnRequest struct {
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity" validate:"required,min=1"`
	ReturnDate time.Time `json:"return_date"`
	Condition  string    `json:"condition"`
}

// TransactionItemResponse línea de la transacción en respuestas.
type TransactionItemResponse struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name,omitempty"`
	Quantity         int64  `json:"quantity"`
	QuantityReturned int64  `json:"quantity_returned"`
}

// TransactionResponse salida de una transacción.
type TransactionResponse struct {
	ID                 string                    `json:"id"`
	Type               string                    `json:"type"`
	CustomerID         string                    `json:"customer_id,omitempty"`
	CustomerName       string                    `json:"customer_name,omitempty"`
	Items              []TransactionItemResponse `json:"items"`
	TransactionDate    time.Time                 `json:"transaction_date"`
	ExpectedReturnDate *time.Time                `json:"expected_return_date,omitempty"`
	Status             string                    `json:"status,omitempty"`
	ReturnDate         *time.Time                `json:"return_date,omitempty"`
	ReturnCondition    string                    `json:"return_condition,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// ListTransactionsRequest query params del listado.
// type: SOLD | RENTED | MAINTAINED | NOT_MAINTAINED | ALL (o vacío).
type ListTransactionsRequest struct {
	Type     string `query:"type"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// TransactionListResponse página de transacciones con el total del filtro.
type TransactionListResponse struct {
	Items    []TransactionResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// StockMovementResponse línea del libro de movimientos de un producto.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Condition     string          `json:"condition,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// OverdueRentalResponse alquiler vencido (ACTIVE con fecha esperada pasada).
type OverdueRentalResponse struct {
	TransactionID      string    `json:"transaction_id"`
	CustomerID         string    `json:"customer_id,omitempty"`
	CustomerName       string    `json:"customer_name,omitempty"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	DaysOverdue        int       `json:"days_overdue"`
}
