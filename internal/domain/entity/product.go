package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeItem     = "ITEM"     // serializado, no fungible: siempre cantidad 1 por unidad
	ProductTypeQuantity = "QUANTITY" // fungible: se controla por conteo
)

// Product representa un producto del inventario.
// Los productos ITEM llevan número de serie y se mueven de a una unidad;
// los QUANTITY se controlan por cantidad. Una vez referenciado por una
// transacción, solo los campos descriptivos pueden modificarse.
type Product struct {
	ID           string
	Name         string
	Type         string // ITEM | QUANTITY
	CategoryID   string
	SupplierID   string // vacío si no tiene proveedor asociado
	CostPrice    decimal.Decimal
	SerialNumber string // solo para ITEM
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsItem indica si el producto es de tipo serializado (cantidad fija 1).
func (p *Product) IsItem() bool {
	return p.Type == ProductTypeItem
}

// ValidType verifica que el tipo sea uno de los permitidos.
func ValidProductType(t string) bool {
	return t == ProductTypeItem || t == ProductTypeQuantity
}
