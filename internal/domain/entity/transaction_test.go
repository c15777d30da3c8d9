package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	txDate     = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	returnDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
)

// rentalTx construye un alquiler ACTIVE con las líneas dadas (producto → cantidad).
func rentalTx(items ...entity.TransactionItem) *entity.Transaction {
	return &entity.Transaction{
		ID:              "tx-1",
		Type:            entity.TransactionRented,
		CustomerID:      "cust-1",
		Items:           items,
		TransactionDate: txDate,
		Status:          entity.StatusActive,
	}
}

func line(productID string, qty int64) entity.TransactionItem {
	return entity.TransactionItem{ID: "item-" + productID, TransactionID: "tx-1", ProductID: productID, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidTransactionType
// ──────────────────────────────────────────────────────────────────────────────

func TestValidTransactionType(t *testing.T) {
	for _, typ := range []string{
		entity.TransactionSold,
		entity.TransactionRented,
		entity.TransactionMaintained,
		entity.TransactionNotMaintained,
	} {
		assert.True(t, entity.ValidTransactionType(typ), typ)
	}
	assert.False(t, entity.ValidTransactionType("LOANED"))
	assert.False(t, entity.ValidTransactionType(""))
	assert.False(t, entity.ValidTransactionType("rented"), "los tipos distinguen mayúsculas")
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyReturn — máquina de estados ACTIVE → RETURNED
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReturn_DevolucionCompleta(t *testing.T) {
	tx := rentalTx(line("prod-1", 3))

	item, err := tx.ApplyReturn("prod-1", 3, returnDate, "good", testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(3), item.QuantityReturned)
	assert.Equal(t, entity.StatusReturned, tx.Status, "devolución completa debe cerrar el alquiler")
	require.NotNil(t, tx.ReturnDate)
	assert.Equal(t, returnDate, *tx.ReturnDate)
	assert.Equal(t, "good", tx.ReturnCondition)
	assert.Equal(t, testNow, tx.UpdatedAt)
}

func TestApplyReturn_DevolucionParcialMantieneActive(t *testing.T) {
	tx := rentalTx(line("prod-1", 5))

	item, err := tx.ApplyReturn("prod-1", 2, returnDate, "good", testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(2), item.QuantityReturned)
	assert.Equal(t, int64(3), item.Pending())
	assert.Equal(t, entity.StatusActive, tx.Status,
		"con unidades pendientes el alquiler sigue ACTIVE")

	// Segunda devolución con el resto cierra la transacción.
	_, err = tx.ApplyReturn("prod-1", 3, returnDate, "good", testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReturned, tx.Status)
}

func TestApplyReturn_VentaNoAdmiteDevolucion(t *testing.T) {
	tx := rentalTx(line("prod-1", 1))
	tx.Type = entity.TransactionSold
	tx.Status = ""

	_, err := tx.ApplyReturn("prod-1", 1, returnDate, "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"una venta es terminal: no hay transición de devolución")
}

func TestApplyReturn_DobleDevolucion(t *testing.T) {
	tx := rentalTx(line("prod-1", 1))
	_, err := tx.ApplyReturn("prod-1", 1, returnDate, "good", testNow)
	require.NoError(t, err)

	_, err = tx.ApplyReturn("prod-1", 1, returnDate, "good", testNow)
	assert.ErrorIs(t, err, domain.ErrAlreadyReturned,
		"RETURNED es terminal: la segunda devolución debe rechazarse")
}

func TestApplyReturn_FechaAnteriorALaTransaccion(t *testing.T) {
	tx := rentalTx(line("prod-1", 1))
	antes := txDate.AddDate(0, 0, -1)

	_, err := tx.ApplyReturn("prod-1", 1, antes, "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Equal(t, entity.StatusActive, tx.Status, "un rechazo no debe mutar el estado")
}

func TestApplyReturn_CantidadFueraDeRango(t *testing.T) {
	tx := rentalTx(line("prod-1", 2))

	_, err := tx.ApplyReturn("prod-1", 3, returnDate, "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "no se puede devolver más de lo pendiente")

	_, err = tx.ApplyReturn("prod-1", 0, returnDate, "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyReturn_UnaLineaSinProductID(t *testing.T) {
	tx := rentalTx(line("prod-1", 2))

	// Con una sola línea el product_id puede omitirse.
	item, err := tx.ApplyReturn("", 2, returnDate, "good", testNow)
	require.NoError(t, err)
	assert.Equal(t, "prod-1", item.ProductID)
	assert.Equal(t, entity.StatusReturned, tx.Status)
}

func TestApplyReturn_VariasLineasExigeProductID(t *testing.T) {
	tx := rentalTx(line("prod-1", 1), line("prod-2", 1))

	_, err := tx.ApplyReturn("", 1, returnDate, "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"con varias líneas hay que indicar qué producto se devuelve")
}

func TestApplyReturn_ProductoAjenoALaTransaccion(t *testing.T) {
	tx := rentalTx(line("prod-1", 1))

	_, err := tx.ApplyReturn("prod-99", 1, returnDate, "", testNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyReturn_MultilineaCierraSoloAlCompletarTodas(t *testing.T) {
	tx := rentalTx(line("prod-1", 1), line("prod-2", 2))

	_, err := tx.ApplyReturn("prod-1", 1, returnDate, "good", testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, tx.Status, "queda prod-2 pendiente")

	_, err = tx.ApplyReturn("prod-2", 2, returnDate, "good", testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReturned, tx.Status)
	assert.True(t, tx.FullyReturned())
}
