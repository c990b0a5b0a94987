package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// ProductHandler publicaciones de la conexión activa.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar publicaciones
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "active | paused | closed | under_review"
// @Param        q        query  string  false  "Búsqueda por título o SKU"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Param        refresh  query  bool    false  "Ignorar caché"
// @Success      200      {object}  dto.ProductListResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ProductListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetSession(c), in, refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener publicación
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSession(c), c.Params("id"), refresh(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Actualizar stock disponible de una publicación
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la publicación"
// @Param        body  body  dto.UpdateStockRequest   true  "quantity"
// @Success      200   {object}  entity.Product
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [put]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStock(c.UserContext(), GetSession(c), c.Params("id"), *in.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar publicaciones con el marketplace
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  ports.SyncResult
// @Router       /api/products/sync [post]
func (h *ProductHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
