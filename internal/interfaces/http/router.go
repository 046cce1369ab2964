package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-pos/internal/application/inventory"
	"github.com/jhoicas/kardex-pos/internal/application/usecase"
	"github.com/jhoicas/kardex-pos/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Kardex      *inventory.KardexUseCase
	ProductUC   *usecase.ProductUseCase
	StockReport inventory.StockReportGenerator
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo
	catalog := protected.Group("/catalog/products")
	productHandler := NewProductHandler(deps.ProductUC)
	catalog.Get("/", anyRole, productHandler.List)
	catalog.Get("/:code", anyRole, productHandler.GetByCode)
	catalog.Put("/", warehouse, productHandler.Upsert)

	// Kardex
	inv := protected.Group("/inventory")
	h := NewInventoryHandler(deps.Kardex, deps.StockReport)
	inv.Get("/stock", anyRole, h.GetStock)
	inv.Get("/stock/report.pdf", anyRole, h.GetStockReport)
	inv.Get("/movements", anyRole, h.ListMovements)

	inv.Post("/purchases", warehouse, h.ImportPurchases)
	inv.Post("/purchases/ubl", warehouse, h.ImportPurchasesUBL)
	inv.Post("/purchases/revert-last", adminOnly, h.RevertLastPurchaseImport)

	inv.Post("/sales", anyRole, h.ApplySales)
	inv.Post("/sales/validate", anyRole, h.ValidateSale)
	inv.Post("/sales/revert", adminOnly, h.RevertSales)
	inv.Delete("/sales/:docRef", adminOnly, h.RevertSalesByDocRef)

	inv.Post("/adjustments", warehouse, h.ApplyAdjustment)
	protected.Delete("/inventory", adminOnly, h.Clear)
}
