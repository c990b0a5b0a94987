package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// CatalogHandler categorías de la API pública del marketplace.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Categories godoc
// @Summary      Categorías raíz del sitio de la conexión
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Category
// @Router       /api/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext(), GetSession(c), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Category godoc
// @Summary      Detalle de categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de categoría"
// @Success      200  {object}  entity.Category
// @Router       /api/categories/{id} [get]
func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	out, err := h.uc.Category(c.UserContext(), c.Params("id"), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Attributes godoc
// @Summary      Atributos de la categoría (obligatorios primero)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de categoría"
// @Success      200  {array}  entity.CategoryAttribute
// @Router       /api/categories/{id}/attributes [get]
func (h *CatalogHandler) Attributes(c *fiber.Ctx) error {
	out, err := h.uc.Attributes(c.UserContext(), c.Params("id"), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Predict godoc
// @Summary      Sugerir categoría para un título
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Título de la publicación"
// @Param        limit  query  int     false  "Máximo de sugerencias (1-10)"
// @Success      200    {array}  entity.CategoryPrediction
// @Router       /api/categories/predict [get]
func (h *CatalogHandler) Predict(c *fiber.Ctx) error {
	out, err := h.uc.Predict(c.UserContext(), GetSession(c), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
