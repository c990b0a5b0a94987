package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
)

// ReportHandler exportación de listados a PDF, Excel o CSV.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar un reporte
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        report     path   string  true   "stock | receptions | despachos | sales | shipments | products"
// @Param        format     query  string  false  "pdf | xlsx | csv"  default(pdf)
// @Param        warehouse  query  string  false  "Bodega (obligatoria para stock)"
// @Param        from       query  string  false  "AAAA-MM-DD"
// @Param        to         query  string  false  "AAAA-MM-DD"
// @Param        status     query  string  false  "Estado (products, shipments)"
// @Param        q          query  string  false  "Filtro de texto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{report} [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Export(c.UserContext(), GetSession(c), c.Params("report"), in)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	c.Set("X-Report-Rows", strconv.Itoa(out.Rows))
	return c.Send(out.Data)
}

// History godoc
// @Summary      Exportaciones realizadas por el usuario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200     {array}  dto.ExportLogResponse
// @Router       /api/reports/history [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.History(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
