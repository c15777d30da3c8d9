package stock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func quantityProduct() *entity.Product {
	return &entity.Product{ID: "prod-qty", Name: "Cemento 50kg", Type: entity.ProductTypeQuantity}
}

func itemProduct() *entity.Product {
	return &entity.Product{ID: "prod-item", Name: "Taladro Bosch", Type: entity.ProductTypeItem, SerialNumber: "SN-001"}
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// ValidateQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateQuantity_CantidadCero(t *testing.T) {
	err := stock.ValidateQuantity(quantityProduct(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad 0 debe rechazarse")
}

func TestValidateQuantity_CantidadNegativa(t *testing.T) {
	err := stock.ValidateQuantity(quantityProduct(), -5)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestValidateQuantity_ItemSoloAceptaUno(t *testing.T) {
	require.NoError(t, stock.ValidateQuantity(itemProduct(), 1),
		"un ITEM con cantidad 1 es válido")

	err := stock.ValidateQuantity(itemProduct(), 2)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity,
		"un ITEM (serializado) nunca admite cantidad distinta de 1")
}

func TestValidateQuantity_QuantityAceptaVarias(t *testing.T) {
	assert.NoError(t, stock.ValidateQuantity(quantityProduct(), 40))
}

// ──────────────────────────────────────────────────────────────────────────────
// Debit / Credit
// ──────────────────────────────────────────────────────────────────────────────

func TestDebit_DescuentaOnHand(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-qty", OnHand: 50}
	require.NoError(t, stock.Debit(s, quantityProduct(), 40, testNow))
	assert.Equal(t, int64(10), s.OnHand)
	assert.Equal(t, testNow, s.UpdatedAt)
}

func TestDebit_StockInsuficiente(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-qty", OnHand: 3}
	err := stock.Debit(s, quantityProduct(), 5, testNow)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "solicitado 5", "el error debe incluir lo solicitado")
	assert.Contains(t, err.Error(), "disponible 3", "el error debe incluir lo disponible")
	assert.Equal(t, int64(3), s.OnHand, "un débito fallido no debe mutar el on-hand")
}

func TestDebit_ExactamenteElDisponible(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-qty", OnHand: 5}
	require.NoError(t, stock.Debit(s, quantityProduct(), 5, testNow))
	assert.Equal(t, int64(0), s.OnHand, "debitar todo el disponible deja on-hand en 0")
}

func TestDebit_ItemConStockCero(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-item", OnHand: 0}
	err := stock.Debit(s, itemProduct(), 1, testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"un ITEM ya vendido (on-hand 0) no puede salir de nuevo")
}

func TestCredit_SumaOnHand(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-qty", OnHand: 10}
	require.NoError(t, stock.Credit(s, quantityProduct(), 7, testNow))
	assert.Equal(t, int64(17), s.OnHand)
}

func TestCredit_CantidadInvalida(t *testing.T) {
	s := &entity.Stock{ProductID: "prod-qty", OnHand: 10}
	err := stock.Credit(s, quantityProduct(), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(10), s.OnHand)
}
