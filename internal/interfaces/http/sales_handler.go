package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// SalesHandler órdenes, resumen y envíos.
type SalesHandler struct {
	uc *usecase.SalesUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// List godoc
// @Summary      Órdenes del período
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "AAAA-MM-DD"
// @Param        to      query  string  false  "AAAA-MM-DD"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {object}  dto.SalesListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var in dto.SalesListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de ventas: órdenes, unidades, ingresos por moneda y top de productos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "AAAA-MM-DD"
// @Param        to    query  string  false  "AAAA-MM-DD"
// @Success      200   {object}  dto.SalesSummaryDTO
// @Router       /api/sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	var in dto.PeriodRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Shipments godoc
// @Summary      Envíos del período
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "AAAA-MM-DD"
// @Param        to      query  string  false  "AAAA-MM-DD"
// @Param        status  query  string  false  "Estado del envío"
// @Success      200     {object}  dto.ShipmentListResponse
// @Router       /api/shipments [get]
func (h *SalesHandler) Shipments(c *fiber.Ctx) error {
	var in dto.ShipmentListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Shipments(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
