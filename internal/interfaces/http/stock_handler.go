package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
)

// StockHandler maneja entradas de stock y el historial de movimientos (protegido).
type StockHandler struct {
	uc      *appstock.UseCase
	queryUC *appstock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *appstock.UseCase, queryUC *appstock.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc, queryUC: queryUC}
}

// StockIn godoc
// @Summary      Registrar entrada de stock (reposición)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "product_id, quantity, unit_cost"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	if err := h.uc.RecordStockIn(c.Context(), GetUserID(c), in); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "entrada registrada"})
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        from       query  string  false  "Fecha inicial (RFC3339)"
// @Param        to         query  string  false  "Fecha final (RFC3339)"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "to debe ser RFC3339"})
		}
		to = &t
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	out, err := h.queryUC.ListMovements(productID, from, to, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
