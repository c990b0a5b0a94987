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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/time/rate"

	"github.com/jhoicas/meli-sync-admin/internal/application/auth"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/application/report"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/backend"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/cache"
	infracsv "github.com/jhoicas/meli-sync-admin/internal/infrastructure/csv"
	infraexcel "github.com/jhoicas/meli-sync-admin/internal/infrastructure/excel"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/meli"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/meli-sync-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/restclient"
	httpRouter "github.com/jhoicas/meli-sync-admin/internal/interfaces/http"
	"github.com/jhoicas/meli-sync-admin/pkg/config"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
	"github.com/jhoicas/meli-sync-admin/pkg/secret"
)

// sessionPurgeInterval frecuencia del borrado de sesiones vencidas.
const sessionPurgeInterval = 10 * time.Minute

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
		Str("backend", cfg.Backend.BaseURL).
		Str("cache", cfg.Cache.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}

	box, err := secret.NewBox(cfg.Session.SecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave de sesión")
	}

	m := metrics.New()

	// Clientes HTTP: backend proxy y API pública del marketplace (con límite de tasa)
	backendClient := backend.New(restclient.New(restclient.Config{
		Service: "backend",
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
	}, restclient.WithMetrics(m), restclient.WithLogger(log)))

	catalogClient := meli.NewCatalogClient(restclient.New(restclient.Config{
		Service: "meli",
		BaseURL: cfg.Meli.APIURL,
		Timeout: cfg.Backend.Timeout(),
	},
		restclient.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Meli.RPS), cfg.Meli.Burst)),
		restclient.WithMetrics(m),
		restclient.WithLogger(log),
	))

	// Caché de consultas
	var store query.Cache
	switch cfg.Cache.Driver {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rc.Close()
		store = rc
	default:
		store = cache.NewMemoryCache(cfg.Cache.Size, 24*time.Hour)
	}
	q := query.New(store, cfg.Cache.TTL(), query.WithMetrics(m), query.WithLogger(log.Component("query")))

	// Repositorios
	sessionRepo := postgres.NewSessionRepository(pool, box)
	historyRepo := postgres.NewSearchHistoryRepository(pool)
	exportLogRepo := postgres.NewExportLogRepository(pool)

	// Casos de uso
	authUC := auth.NewAuthUseCase(backendClient, sessionRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Session.TTL(), log)
	productUC := usecase.NewProductUseCase(backendClient, q, log)
	stockUC := usecase.NewStockUseCase(backendClient, q)
	salesUC := usecase.NewSalesUseCase(backendClient, q)
	dashboardUC := usecase.NewDashboardUseCase(salesUC, stockUC)
	catalogUC := usecase.NewCatalogUseCase(catalogClient, q, cfg.Meli.DefaultSite)
	searchUC := usecase.NewSearchHistoryUseCase(historyRepo, cfg.Session.SearchHistoryMax)
	userUC := usecase.NewUserUseCase(backendClient, q)

	// Exportaciones: PDF, Excel y CSV
	renderers := report.NewRegistry(
		infrapdf.NewMarotoRenderer(cfg.App.Name),
		infraexcel.NewExcelizeRenderer(),
		infracsv.NewRenderer(),
	)
	reportUC := usecase.NewReportUseCase(productUC, stockUC, salesUC, renderers, exportLogRepo, m, log)

	go purgeSessions(ctx, authUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(authUC, log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Meli Sync Admin API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		SalesUC:     salesUC,
		DashboardUC: dashboardUC,
		CatalogUC:   catalogUC,
		SearchUC:    searchUC,
		ReportUC:    reportUC,
		UserUC:      userUC,
		Metrics:     m.Handler(),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeSessions borra periódicamente las sesiones vencidas hasta que ctx se cancela.
func purgeSessions(ctx context.Context, authUC *auth.AuthUseCase, log *logger.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authUC.PurgeExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("purga de sesiones")
			}
		}
	}
}
