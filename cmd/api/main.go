package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-pos/internal/application/inventory"
	"github.com/jhoicas/kardex-pos/internal/application/usecase"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
	"github.com/jhoicas/kardex-pos/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/kardex-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-pos/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/kardex-pos/internal/interfaces/http"
	"github.com/jhoicas/kardex-pos/pkg/config"
	"github.com/jhoicas/kardex-pos/pkg/logger"
)

// backend almacenamiento del kardex y del catálogo seleccionado por STORE_DRIVER.
type backend struct {
	tx       inventory.TxRunner
	products repository.ProductRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.Inventory.CostingMethod != config.CostingWeightedAverage {
		log.Warn().
			Str("costing_method", cfg.Inventory.CostingMethod).
			Msg("método de costeo no soportado; se usa promedio ponderado")
	}

	ctx := context.Background()
	store, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer store.close()

	kardexUC := inventory.NewKardexUseCase(
		store.tx,
		inventory.NewRepositoryCatalog(store.products),
		inventory.Options{AllowNegativeStock: cfg.Inventory.AllowNegativeStock},
		log.Zerolog(),
	)
	productUC := usecase.NewProductUseCase(store.products)
	stockReport := infrapdf.NewMarotoStockReport(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 << 20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Kardex:      kardexUC,
		ProductUC:   productUC,
		StockReport: stockReport,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
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

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &backend{
			tx:       postgres.NewTxRunner(pool),
			products: postgres.NewProductRepository(pool),
			close:    pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("abrir SQLite %s: %w", cfg.Store.SQLitePath, err)
		}
		return &backend{
			tx:       db,
			products: db.Products(),
			close:    func() { _ = db.Close() },
		}, nil
	case config.DriverMemory:
		mem := memory.New()
		return &backend{tx: mem, products: mem.Products(), close: func() {}}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Store.Driver)
	}
}
