package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-rentals-api/internal/application/auth"
	appstock "github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/internal/application/usecase"
	"github.com/jhoicas/stock-rentals-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-rentals-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/stock-rentals-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stock-rentals-api/internal/interfaces/http"
	"github.com/jhoicas/stock-rentals-api/pkg/config"
	"github.com/jhoicas/stock-rentals-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin REDIS_ADDR no hay deduplicación de reintentos.
	var idempotency appstock.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb)
	}

	stockUC := appstock.NewUseCase(txRunner, productRepo, customerRepo, idempotency)
	queryUC := appstock.NewQueryUseCase(transactionRepo, movementRepo)
	overdueUC := appstock.NewOverdueUseCase(transactionRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, stockRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Escaneo programado de alquileres vencidos.
	if cfg.Jobs.OverdueScanCron != "" {
		sched := scheduler.New(cfg.Jobs.OverdueScanCron, overdueUC, log)
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("arranque del scheduler")
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Rentals API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		SupplierUC: supplierUC,
		CustomerUC: customerUC,
		StockUC:    stockUC,
		QueryUC:    queryUC,
		OverdueUC:  overdueUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
