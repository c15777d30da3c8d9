package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
)

// TransactionHandler maneja las salidas de stock, devoluciones y el listado
// del tablero (protegido).
type TransactionHandler struct {
	uc        *appstock.UseCase
	queryUC   *appstock.QueryUseCase
	overdueUC *appstock.OverdueUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *appstock.UseCase, queryUC *appstock.QueryUseCase, overdueUC *appstock.OverdueUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc, queryUC: queryUC, overdueUC: overdueUC}
}

// Create godoc
// @Summary      Registrar salida de stock (venta, alquiler o mantenimiento)
// @Description  Valida todas las líneas antes de mutar nada; la aplicación es
//
//	atómica: si una línea no tiene existencia, nada cambia.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordStockOutRequest  true  "type, customer_id o customer_name, items, expected_return_date (RENTED)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.RecordStockOut(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appstock.ToTransactionResponse(tx))
}

// Return godoc
// @Summary      Registrar devolución de un alquiler
// @Description  Solo transacciones RENTED aceptan devoluciones. Admite
//
//	devoluciones parciales; el estado pasa a RETURNED cuando todas
//	las líneas quedan devueltas. product_id puede omitirse si la
//	transacción tiene una sola línea.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transacción"
// @Param        body  body  dto.ReturnRequest  true  "product_id, quantity, return_date, condition"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/return [post]
func (h *TransactionHandler) Return(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.MarkReturned(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(appstock.ToTransactionResponse(tx))
}

// List godoc
// @Summary      Listar transacciones
// @Description  Filtro por tipo (SOLD|RENTED|MAINTAINED|NOT_MAINTAINED|ALL) y
//
//	búsqueda por producto, cliente o email sin distinguir
//	mayúsculas ni tildes. Página 1-indexada.
//
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type       query  string  false  "Tipo de transacción"  default(ALL)
// @Param        search     query  string  false  "Subcadena a buscar"
// @Param        page       query  int     false  "Página (1-indexada)"  default(1)
// @Param        page_size  query  int     false  "Tamaño de página"     default(20)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var in dto.ListTransactionsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.queryUC.List(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.queryUC.GetByID(id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListOverdue godoc
// @Summary      Listar alquileres vencidos
// @Description  Alquileres ACTIVE cuya fecha esperada de devolución ya pasó.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OverdueRentalResponse
// @Router       /api/transactions/overdue [get]
func (h *TransactionHandler) ListOverdue(c *fiber.Ctx) error {
	out, err := h.overdueUC.ListOverdue(time.Now())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
