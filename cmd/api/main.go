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

	"github.com/jhoicas/fiskal-servis/internal/application/auth"
	"github.com/jhoicas/fiskal-servis/internal/application/catalog"
	"github.com/jhoicas/fiskal-servis/internal/application/documents"
	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/docx"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/excel"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/office"
	infrapdf "github.com/jhoicas/fiskal-servis/internal/infrastructure/pdf"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/postgres"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/vat"
	httpRouter "github.com/jhoicas/fiskal-servis/internal/interfaces/http"
	"github.com/jhoicas/fiskal-servis/pkg/config"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

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
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	deviceRepo := postgres.NewDeviceRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	repairRepo := postgres.NewRepairRepository(pool)
	certRepo := postgres.NewCertificateRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	service := entity.ServiceCompany(cfg.Service)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}

	registryUC := registry.NewRegistryUseCase(registry.Repositories{
		Clients:      clientRepo,
		Devices:      deviceRepo,
		Certificates: certRepo,
		Audit:        auditRepo,
		Repairs:      repairRepo,
	}, txRunner, excel.Reader{}, log)

	// LibreOffice para la conversión opcional a PDF de los documentos
	documentsUC := documents.NewDocumentsUseCase(documents.Config{
		TemplatesDir: cfg.Paths.TemplatesDir,
		OutputDir:    cfg.Paths.OutputDir,
		Templates:    documents.Templates(cfg.Templates),
		Service:      service,
	}, documents.Repositories{
		Clients:      clientRepo,
		Devices:      deviceRepo,
		Certificates: certRepo,
		Repairs:      repairRepo,
		Audit:        auditRepo,
	}, office.NewConverter(cfg.Paths.OfficeBinary), log)

	nraUC := nra.NewReportUseCase(nra.Config{
		Service:              service,
		OutputDir:            cfg.Paths.OutputDir,
		NomenclatureCSV:      cfg.Paths.NomenclatureCSV,
		NomenclatureEncoding: cfg.Paths.NomenclatureEncoding,
	}, deviceRepo, auditRepo, log)

	// Exportadores de справки y ценова листа
	exporters := reports.Exporters{
		XLSX: excel.NewExporter(),
		DOCX: docx.NewTableExporter(),
		PDF:  infrapdf.NewMarotoPDFGenerator(cfg.Paths.PDFFont, cfg.Service.Name),
	}
	expiringUC := reports.NewExpiringUseCase(clientRepo, exporters, log)
	catalogUC := catalog.NewProductUseCase(productRepo, auditRepo, exporters, log)
	dashboardUC := reports.NewDashboardUseCase(statsRepo)

	lookup := vat.NewService(cfg.Lookup.VIESURL, cfg.Lookup.RegistryURL, cfg.Lookup.Timeout, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60, // conversión a PDF con LibreOffice
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024, // libros Excel
		UnescapePath: true,             // nombres de archivo en cirílico
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fiskal Servis API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RegistryUC:  registryUC,
		DocumentsUC: documentsUC,
		ExpiringUC:  expiringUC,
		DashboardUC: dashboardUC,
		NRAUC:       nraUC,
		CatalogUC:   catalogUC,
		Lookup:      lookup,
		OutputDir:   cfg.Paths.OutputDir,
		JWTSecret:   cfg.JWT.Secret,
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
