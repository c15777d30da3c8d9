package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// seedTransactions registra n ventas consecutivas del producto dado, con
// fechas decrecientes para un orden estable.
func seedTransactions(t *testing.T, uc *appstock.UseCase, s *memStore, n int) {
	t.Helper()
	seedQuantityProduct(s, "p1", int64(n)*10)
	base := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
			Type:            entity.TransactionSold,
			CustomerName:    "Comprador Serie",
			Items:           []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 1}},
			TransactionDate: base.AddDate(0, 0, -i),
		})
		require.NoError(t, err)
	}
}

func newQueryFixture() (*memStore, *appstock.UseCase, *appstock.QueryUseCase) {
	s := newMemStore()
	uc := appstock.NewUseCase(&fakeTxRunner{s}, &fakeProductRepo{s}, &fakeCustomerRepo{s}, nil)
	q := appstock.NewQueryUseCase(&fakeTransactionRepo{s}, &fakeMovementRepo{s})
	return s, uc, q
}

// ──────────────────────────────────────────────────────────────────────────────
// List — filtro por tipo y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryList_FiltroPorTipo(t *testing.T) {
	s, uc, q := newQueryFixture()
	seedQuantityProduct(s, "p1", 100)

	_, err := uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
		Type:         entity.TransactionSold,
		CustomerName: "María",
		Items:        []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
		Type:               entity.TransactionRented,
		CustomerName:       "Pedro",
		Items:              []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 2}},
		ExpectedReturnDate: futureDate(3),
	})
	require.NoError(t, err)

	out, err := q.List(dto.ListTransactionsRequest{Type: entity.TransactionRented})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.TransactionRented, out.Items[0].Type)
	assert.Equal(t, 1, out.Total)

	// ALL y vacío no filtran.
	all, err := q.List(dto.ListTransactionsRequest{Type: "ALL"})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	none, err := q.List(dto.ListTransactionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, none.Total)
}

func TestQueryList_TipoDesconocidoRechazado(t *testing.T) {
	_, _, q := newQueryFixture()
	_, err := q.List(dto.ListTransactionsRequest{Type: "PRESTADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryList_BusquedaSinTildesNiMayusculas(t *testing.T) {
	s, uc, q := newQueryFixture()
	s.addProduct(entity.Product{ID: "p1", Name: "Compresor Eléctrico", Type: entity.ProductTypeQuantity})
	s.setStock("p1", 10)

	_, err := uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
		Type:         entity.TransactionSold,
		CustomerName: "José García",
		Items:        []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// Por producto, con mayúsculas y tilde distintas a las originales.
	out, err := q.List(dto.ListTransactionsRequest{Search: "ELECTRICO"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total, "la búsqueda no distingue mayúsculas ni tildes")

	// Por cliente.
	out, err = q.List(dto.ListTransactionsRequest{Search: "garcia"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)

	// Sin coincidencia.
	out, err = q.List(dto.ListTransactionsRequest{Search: "martillo"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	assert.Empty(t, out.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// List — paginación
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryList_PaginasDisjuntasYTotalEstable(t *testing.T) {
	s, uc, q := newQueryFixture()
	seedTransactions(t, uc, s, 25)

	seen := make(map[string]bool)
	for page := 1; page <= 3; page++ {
		out, err := q.List(dto.ListTransactionsRequest{Page: page, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, out.Total, "el total no depende de la página")
		for _, tx := range out.Items {
			assert.False(t, seen[tx.ID], "la transacción %s no debe repetirse entre páginas", tx.ID)
			seen[tx.ID] = true
		}
	}
	assert.Len(t, seen, 25, "las tres páginas cubren todas las filas")
}

func TestQueryList_PaginaFueraDeRango(t *testing.T) {
	s, uc, q := newQueryFixture()
	seedTransactions(t, uc, s, 5)

	out, err := q.List(dto.ListTransactionsRequest{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Items, "página más allá del final: sin filas")
	assert.Equal(t, 5, out.Total, "pero con el total correcto")
}

func TestQueryList_OrdenPorFechaDescendente(t *testing.T) {
	s, uc, q := newQueryFixture()
	seedTransactions(t, uc, s, 5)

	out, err := q.List(dto.ListTransactionsRequest{Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, out.Items, 5)
	for i := 1; i < len(out.Items); i++ {
		assert.False(t, out.Items[i-1].TransactionDate.Before(out.Items[i].TransactionDate),
			"las filas deben venir de más reciente a más antigua")
	}
}

func TestQueryList_DefaultsDePagina(t *testing.T) {
	_, _, q := newQueryFixture()
	out, err := q.List(dto.ListTransactionsRequest{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.PageSize)

	out, err = q.List(dto.ListTransactionsRequest{PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 100, out.PageSize, "el tamaño de página se acota")
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / ListMovements
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryGetByID_NoExiste(t *testing.T) {
	_, _, q := newQueryFixture()
	_, err := q.GetByID("tx-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryListMovements_HistorialDelProducto(t *testing.T) {
	s, uc, q := newQueryFixture()
	seedQuantityProduct(s, "p1", 10)

	tx := rentOut(t, uc, "p1", 3)
	_, err := uc.MarkReturned(context.Background(), testUser, tx.ID, dto.ReturnRequest{Quantity: 3})
	require.NoError(t, err)

	movs, err := q.ListMovements("p1", nil, nil, 20, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "salida y devolución")
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, entity.MovementTypeRETURN, movs[1].Type)
	assert.Equal(t, tx.ID, movs[0].TransactionID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alquileres vencidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOverdue_ListaSoloActivosVencidos(t *testing.T) {
	s, uc, _ := newQueryFixture()
	seedQuantityProduct(s, "p1", 100)
	overdueUC := appstock.NewOverdueUseCase(&fakeTransactionRepo{s})

	past := time.Now().AddDate(0, 0, -10)
	// Alquiler vencido: expected_return_date en el pasado. La fecha de la
	// transacción va aún más atrás para pasar la validación.
	tx, err := uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
		Type:               entity.TransactionRented,
		CustomerName:       "Moroso",
		Items:              []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 1}},
		TransactionDate:    past.AddDate(0, 0, -5),
		ExpectedReturnDate: &past,
	})
	require.NoError(t, err)

	// Alquiler al día.
	_, err = uc.RecordStockOut(context.Background(), testUser, dto.RecordStockOutRequest{
		Type:               entity.TransactionRented,
		CustomerName:       "Puntual",
		Items:              []dto.StockOutItemRequest{{ProductID: "p1", Quantity: 1}},
		ExpectedReturnDate: futureDate(5),
	})
	require.NoError(t, err)

	out, err := overdueUC.ListOverdue(time.Now())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, tx.ID, out[0].TransactionID)
	assert.Equal(t, 10, out[0].DaysOverdue)

	// Devuelto el alquiler, desaparece del listado.
	_, err = uc.MarkReturned(context.Background(), testUser, tx.ID, dto.ReturnRequest{Quantity: 1})
	require.NoError(t, err)
	out, err = overdueUC.ListOverdue(time.Now())
	require.NoError(t, err)
	assert.Empty(t, out)
}
