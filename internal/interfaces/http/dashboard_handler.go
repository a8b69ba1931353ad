package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/reports"
)

// DashboardHandler maneja el endpoint del panel principal.
type DashboardHandler struct {
	uc *reports.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reports.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del registro.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (active_contracts, expired_contracts,
// expiring_soon, monthly_revenue, total_devices, top_models[5]).
// No requiere parámetros; la ventana de 30 días se calcula en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
