package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
	domstock "github.com/jhoicas/stock-rentals-api/internal/domain/stock"
	"github.com/jhoicas/stock-rentals-api/pkg/search"
)

// UseCase orquesta las operaciones de stock: salida (venta/alquiler/
// mantenimiento), entrada (reposición) y devolución de alquileres.
// Toda validación ocurre antes de mutar nada; la aplicación es atómica:
// ledger, movimientos y transacción se confirman o revierten juntos
// (fila de stock bloqueada con SELECT FOR UPDATE durante check-then-commit).
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	idempotency  IdempotencyStore // opcional; nil desactiva la deduplicación
}

// NewUseCase construye el orquestador. idempotency puede ser nil.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	idempotency IdempotencyStore,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		idempotency:  idempotency,
	}
}

// RecordStockOut valida y registra una salida de stock. Crea la transacción
// (ACTIVE si es alquiler), descuenta el on-hand de cada línea y deja un
// movimiento OUT por producto. Si cualquier línea no tiene existencia
// suficiente, la solicitud completa se aborta sin efectos.
func (uc *UseCase) RecordStockOut(ctx context.Context, userID string, in dto.RecordStockOutRequest) (*entity.Transaction, error) {
	if !entity.ValidTransactionType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, in.Type)
	}
	if (in.CustomerID == "") == (in.CustomerName == "") {
		return nil, fmt.Errorf("%w: indique exactamente uno de customer_id o customer_name", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la transacción requiere al menos una línea", domain.ErrInvalidInput)
	}

	now := time.Now()
	txDate := in.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}
	if in.Type == entity.TransactionRented {
		if in.ExpectedReturnDate == nil {
			return nil, fmt.Errorf("%w: un alquiler requiere expected_return_date", domain.ErrInvalidDate)
		}
		if in.ExpectedReturnDate.Before(txDate) {
			return nil, fmt.Errorf("%w: expected_return_date anterior a la fecha de la transacción", domain.ErrInvalidDate)
		}
	}

	// Resolver productos y validar cantidades antes de tocar nada.
	products := make(map[string]*entity.Product, len(in.Items))
	for _, item := range in.Items {
		if _, dup := products[item.ProductID]; dup {
			return nil, fmt.Errorf("%w: producto %s repetido en la solicitud", domain.ErrInvalidInput, item.ProductID)
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		if err := domstock.ValidateQuantity(product, item.Quantity); err != nil {
			return nil, err
		}
		products[item.ProductID] = product
	}

	// Si el cliente viene por ID debe existir (la creación implícita es solo por nombre).
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
	}

	// Deduplicación de reintentos (clave provista por el caller).
	if uc.idempotency != nil && in.IdempotencyKey != "" {
		ok, err := uc.idempotency.SetIdempotency(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("%w: verificación de idempotencia: %v", domain.ErrUnavailable, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: solicitud ya procesada (clave %s)", domain.ErrDuplicate, in.IdempotencyKey)
		}
	}

	tx := &entity.Transaction{
		ID:                 uuid.New().String(),
		Type:               in.Type,
		CustomerID:         in.CustomerID,
		CustomerName:       in.CustomerName,
		TransactionDate:    txDate,
		ExpectedReturnDate: in.ExpectedReturnDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if tx.IsRental() {
		tx.Status = entity.StatusActive
	}
	for _, item := range in.Items {
		tx.Items = append(tx.Items, entity.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: tx.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		customerRepo repository.CustomerRepository,
		_ repository.ProductRepository,
	) error {
		customer, err := uc.resolveCustomer(customerRepo, tx, now)
		if err != nil {
			return err
		}
		tx.SearchText = buildSearchText(tx, customer, products)
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		for _, item := range tx.Items {
			product := products[item.ProductID]
			// Bloquea la fila de stock (SELECT FOR UPDATE) para que dos
			// salidas concurrentes no pasen ambas el chequeo de existencia.
			stock, err := stockRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if err := domstock.Debit(stock, product, item.Quantity, now); err != nil {
				return err
			}
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				TransactionID: tx.ID,
				ProductID:     item.ProductID,
				Type:          entity.MovementTypeOUT,
				Quantity:      -item.Quantity,
				UnitCost:      product.CostPrice,
				TotalCost:     product.CostPrice.Mul(decimal.NewFromInt(item.Quantity)),
				Date:          txDate,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordStockIn registra una entrada de stock (reposición) y su movimiento IN.
func (uc *UseCase) RecordStockIn(ctx context.Context, userID string, in dto.StockInRequest) error {
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if err := domstock.ValidateQuantity(product, in.Quantity); err != nil {
		return err
	}
	unitCost := product.CostPrice
	if in.UnitCost != nil {
		if in.UnitCost.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: unit_cost negativo", domain.ErrInvalidInput)
		}
		unitCost = *in.UnitCost
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.TransactionRepository,
		_ repository.CustomerRepository,
		_ repository.ProductRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if err := domstock.Credit(stock, product, in.Quantity, now); err != nil {
			return err
		}
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ProductID: in.ProductID,
			Type:      entity.MovementTypeIN,
			Quantity:  in.Quantity,
			UnitCost:  unitCost,
			TotalCost: unitCost.Mul(decimal.NewFromInt(in.Quantity)),
			Date:      now,
			CreatedAt: now,
			CreatedBy: userID,
		}
		return movRepo.Create(mov)
	})
}

// MarkReturned aplica la devolución de un alquiler: la máquina de estados de
// la transacción acepta primero la transición y solo entonces se acredita el
// ledger; ambos cambios van en la misma transacción de BD.
func (uc *UseCase) MarkReturned(ctx context.Context, userID, transactionID string, in dto.ReturnRequest) (*entity.Transaction, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: la cantidad a devolver debe ser >= 1", domain.ErrInvalidQuantity)
	}
	now := time.Now()
	returnDate := in.ReturnDate
	if returnDate.IsZero() {
		returnDate = now
	}

	var result *entity.Transaction
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		_ repository.CustomerRepository,
		productRepo repository.ProductRepository,
	) error {
		tx, err := txRepo.GetByIDForUpdate(transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("%w: transacción %s", domain.ErrNotFound, transactionID)
		}
		item, err := tx.ApplyReturn(in.ProductID, in.Quantity, returnDate, in.Condition, now)
		if err != nil {
			return err
		}
		product, err := productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		stock, err := stockRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if err := domstock.Credit(stock, product, in.Quantity, now); err != nil {
			return err
		}
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			TransactionID: tx.ID,
			ProductID:     item.ProductID,
			Type:          entity.MovementTypeRETURN,
			Quantity:      in.Quantity,
			UnitCost:      product.CostPrice,
			TotalCost:     product.CostPrice.Mul(decimal.NewFromInt(in.Quantity)),
			Condition:     in.Condition,
			Date:          returnDate,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := txRepo.UpdateReturnState(tx); err != nil {
			return err
		}
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveCustomer resuelve el cliente de la salida. Con customer_name busca
// por nombre y, si no existe, lo crea implícitamente (solo con el nombre).
func (uc *UseCase) resolveCustomer(customerRepo repository.CustomerRepository, tx *entity.Transaction, now time.Time) (*entity.Customer, error) {
	if tx.CustomerID != "" {
		customer, err := customerRepo.GetByID(tx.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, tx.CustomerID)
		}
		return customer, nil
	}
	customer, err := customerRepo.GetByName(tx.CustomerName)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer = &entity.Customer{
			ID:        uuid.New().String(),
			Name:      tx.CustomerName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := customerRepo.Create(customer); err != nil {
			return nil, err
		}
	}
	tx.CustomerID = customer.ID
	return customer, nil
}

// buildSearchText arma el índice de búsqueda de la transacción (nombres de
// productos + nombre y email del cliente, normalizados sin tildes).
func buildSearchText(tx *entity.Transaction, customer *entity.Customer, products map[string]*entity.Product) string {
	parts := make([]string, 0, len(tx.Items)+2)
	for _, item := range tx.Items {
		if p := products[item.ProductID]; p != nil {
			parts = append(parts, p.Name)
		}
	}
	if customer != nil {
		parts = append(parts, customer.Name, customer.Email)
	}
	return search.Normalize(strings.Join(parts, " "))
}
