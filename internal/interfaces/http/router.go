package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/meli-sync-admin/internal/application/auth"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *usecase.StockUseCase
	SalesUC     *usecase.SalesUseCase
	DashboardUC *usecase.DashboardUseCase
	CatalogUC   *usecase.CatalogUseCase
	SearchUC    *usecase.SearchHistoryUseCase
	ReportUC    *usecase.ReportUseCase
	UserUC      *usecase.UserUseCase
	Metrics     http.Handler
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y sesión vigente)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	needConn := RequireConnection()

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/connections", authHandler.Connections)
	protected.Put("/session/connection", authHandler.SelectConnection)

	// Publicaciones
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", needConn, productHandler.List)
	products.Post("/sync", needConn, productHandler.Sync)
	products.Get("/:id", needConn, productHandler.GetByID)
	products.Put("/:id/stock", needConn, productHandler.UpdateStock)

	// Bodegas y movimientos
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/warehouses", needConn, stockHandler.Warehouses)
	stock.Get("/warehouses/:id", needConn, stockHandler.WarehouseStock)
	stock.Get("/receptions", needConn, stockHandler.Receptions)
	stock.Get("/despachos", needConn, stockHandler.Despachos)

	// Ventas, envíos y dashboard
	salesHandler := NewSalesHandler(deps.SalesUC)
	protected.Get("/sales", needConn, salesHandler.List)
	protected.Get("/sales/summary", needConn, salesHandler.Summary)
	protected.Get("/shipments", needConn, salesHandler.Shipments)
	protected.Get("/dashboard", needConn, NewDashboardHandler(deps.DashboardUC).GetSummary)

	// Catálogo público del marketplace
	categories := protected.Group("/categories")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories.Get("/", catalogHandler.Categories)
	categories.Get("/predict", catalogHandler.Predict)
	categories.Get("/:id", catalogHandler.Category)
	categories.Get("/:id/attributes", catalogHandler.Attributes)

	// Búsquedas recientes por vista
	history := protected.Group("/search-history")
	historyHandler := NewSearchHistoryHandler(deps.SearchUC)
	history.Get("/:scope", historyHandler.List)
	history.Post("/:scope", historyHandler.Record)
	history.Delete("/:scope", historyHandler.Clear)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/history", reportHandler.History)
	reports.Get("/:report", needConn, reportHandler.Export)

	// Administración (solo admin)
	adminOnly := RequireRole(entity.RoleAdmin)
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users", adminOnly, userHandler.List)
	protected.Post("/users", adminOnly, userHandler.Create)
	protected.Put("/users/:id", adminOnly, userHandler.Update)
	protected.Delete("/users/:id", adminOnly, userHandler.Delete)
	protected.Get("/roles", adminOnly, userHandler.Roles)
}
