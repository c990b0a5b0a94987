package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// DashboardHandler KPIs de la pantalla de inicio.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de ventas del mes en curso y las existencias por bodega.
// GET /api/dashboard
//
// Una bodega que no responde aparece con su campo error informado; el resto del
// dashboard se entrega igual. No requiere parámetros salvo refresh.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetSession(c), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
