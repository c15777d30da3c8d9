package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Type         string          `json:"type" validate:"required,oneof=ITEM QUANTITY"`
	CategoryID   string          `json:"category_id" validate:"required"`
	SupplierID   string          `json:"supplier_id"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SerialNumber string          `json:"serial_number"`
}

// UpdateProductRequest entrada para actualizar un producto. Tipo y número de
// serie no se modifican una vez que el producto tiene transacciones.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID   *string          `json:"category_id"`
	SupplierID   *string          `json:"supplier_id"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	Type         *string          `json:"type"`
	SerialNumber *string          `json:"serial_number"`
}

// ProductResponse salida de un producto, con su existencia actual.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SerialNumber string          `json:"serial_number,omitempty"`
	OnHand       int64           `json:"on_hand"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
