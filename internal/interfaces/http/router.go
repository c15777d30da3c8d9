package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-rentals-api/internal/application/auth"
	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/internal/application/usecase"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	CustomerUC *usecase.CustomerUseCase
	StockUC    *appstock.UseCase
	QueryUC    *appstock.QueryUseCase
	OverdueUC  *appstock.OverdueUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireRole(entity.RoleAdmin), categoryHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", RequireRole(entity.RoleAdmin), customerHandler.Delete)

	// Transacciones de salida y devoluciones (protegido)
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.StockUC, deps.QueryUC, deps.OverdueUC)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/overdue", transactionHandler.ListOverdue)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Post("/:id/return", transactionHandler.Return)

	// Stock: entradas y movimientos (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.QueryUC)
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Get("/:productId/movements", stockHandler.ListMovements)
}
