package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// SearchHistoryHandler búsquedas recientes por vista.
type SearchHistoryHandler struct {
	uc *usecase.SearchHistoryUseCase
}

// NewSearchHistoryHandler construye el handler.
func NewSearchHistoryHandler(uc *usecase.SearchHistoryUseCase) *SearchHistoryHandler {
	return &SearchHistoryHandler{uc: uc}
}

// List GET /api/search-history/:scope
func (h *SearchHistoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), c.Params("scope"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Record POST /api/search-history/:scope; devuelve el historial actualizado.
func (h *SearchHistoryHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordSearchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Record(c.UserContext(), GetSession(c), c.Params("scope"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Clear DELETE /api/search-history/:scope
func (h *SearchHistoryHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), GetSession(c), c.Params("scope")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
