package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// StockHandler bodegas, existencias y movimientos.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Warehouses godoc
// @Summary      Listar bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/stock/warehouses [get]
func (h *StockHandler) Warehouses(c *fiber.Ctx) error {
	out, err := h.uc.Warehouses(c.UserContext(), GetSession(c), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// WarehouseStock godoc
// @Summary      Existencias de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        q       query  string  false  "Filtro por SKU o título"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {object}  dto.WarehouseStockResponse
// @Router       /api/stock/warehouses/{id} [get]
func (h *StockHandler) WarehouseStock(c *fiber.Ctx) error {
	var in dto.StockFilter
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.WarehouseStock(c.UserContext(), GetSession(c), c.Params("id"), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Receptions godoc
// @Summary      Recepciones del período
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "AAAA-MM-DD (por defecto, inicio de mes)"
// @Param        to    query  string  false  "AAAA-MM-DD (por defecto, hoy)"
// @Success      200   {object}  dto.MovementListResponse
// @Router       /api/stock/receptions [get]
func (h *StockHandler) Receptions(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Receptions(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Despachos godoc
// @Summary      Despachos del período
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "AAAA-MM-DD"
// @Param        to    query  string  false  "AAAA-MM-DD"
// @Success      200   {object}  dto.MovementListResponse
// @Router       /api/stock/despachos [get]
func (h *StockHandler) Despachos(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Despachos(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
