package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/auth"
	"github.com/jhoicas/fiskal-servis/internal/application/catalog"
	"github.com/jhoicas/fiskal-servis/internal/application/documents"
	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	RegistryUC  *registry.RegistryUseCase
	DocumentsUC *documents.DocumentsUseCase
	ExpiringUC  *reports.ExpiringUseCase
	DashboardUC *reports.DashboardUseCase
	NRAUC       *nra.ReportUseCase
	CatalogUC   *catalog.ProductUseCase
	Lookup      eikLookup
	OutputDir   string
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Usuarios (solo admin)
	users := protected.Group("/users", adminOnly)
	users.Get("/", authHandler.ListUsers)
	users.Post("/", authHandler.CreateUser)
	users.Delete("/:id", authHandler.DeleteUser)

	clientHandler := NewClientHandler(deps.RegistryUC)
	documentHandler := NewDocumentHandler(deps.DocumentsUC)

	// Contratos
	contracts := protected.Group("/contracts")
	contracts.Get("/", clientHandler.ListContracts)
	contracts.Get("/next-number", clientHandler.NextNumber)
	contracts.Get("/:number", clientHandler.GetContract)
	contracts.Get("/:number/history", clientHandler.ContractHistory)
	contracts.Post("/:number/documents/service-contract", documentHandler.ServiceContract)

	// Clientes
	clients := protected.Group("/clients")
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)
	clients.Post("/:id/devices", clientHandler.AddDevice)

	// Dispositivos
	deviceHandler := NewDeviceHandler(deps.RegistryUC)
	devices := protected.Group("/devices")
	devices.Get("/", deviceHandler.Search)
	devices.Get("/:id", deviceHandler.GetByID)
	devices.Put("/:id", deviceHandler.Update)
	devices.Delete("/:id", deviceHandler.Delete)
	devices.Get("/:id/history", deviceHandler.History)
	devices.Get("/:id/repairs", deviceHandler.Repairs)
	devices.Post("/:id/documents/reg-cert", documentHandler.RegistrationCertificate)
	devices.Post("/:id/documents/dereg", documentHandler.DeregistrationProtocol)
	devices.Post("/:id/documents/repair", documentHandler.RepairProtocol)
	devices.Post("/:id/documents/nap-xml", documentHandler.NAPXML)

	// Certificados BIM e importación
	importHandler := NewImportHandler(deps.RegistryUC)
	certs := protected.Group("/certificates")
	certs.Get("/", importHandler.ListCertificates)
	certs.Post("/", importHandler.UpsertCertificate)
	certs.Post("/import", adminOnly, importHandler.ImportCertificates)
	certs.Delete("/:id", importHandler.DeleteCertificate)
	protected.Post("/import/workbook", adminOnly, importHandler.ImportWorkbook)

	// Productos y ценова листа
	productHandler := NewProductHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/price-list", productHandler.PriceList)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Справки
	reportHandler := NewReportHandler(deps.ExpiringUC, deps.NRAUC)
	protected.Get("/reports/expiring", reportHandler.Expiring)
	protected.Post("/reports/nra", reportHandler.NRAReport)
	protected.Get("/dashboard/summary", NewDashboardHandler(deps.DashboardUC).GetSummary)

	// ЕИК y archivos generados
	lookupHandler := NewLookupHandler(deps.Lookup, deps.OutputDir)
	protected.Get("/lookup/:eik", lookupHandler.LookupEIK)
	protected.Get("/files/:name", lookupHandler.Download)
}
