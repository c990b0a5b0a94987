package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/report"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// ExportRecorder registra exportaciones en métricas.
type ExportRecorder interface {
	Export(report, format string)
}

// ExportResult documento generado.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int // filas del documento (encabezado + registros + pie)
}

// ReportUseCase exporta los listados de las vistas a PDF, Excel o CSV.
type ReportUseCase struct {
	products  *ProductUseCase
	stock     *StockUseCase
	sales     *SalesUseCase
	renderers *report.Registry
	logs      repository.ExportLogRepository
	metrics   ExportRecorder
	log       *logger.Logger
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. logs y metrics son opcionales.
func NewReportUseCase(
	products *ProductUseCase,
	stock *StockUseCase,
	sales *SalesUseCase,
	renderers *report.Registry,
	logs repository.ExportLogRepository,
	metrics ExportRecorder,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		products:  products,
		stock:     stock,
		sales:     sales,
		renderers: renderers,
		logs:      logs,
		metrics:   metrics,
		log:       log.Component("reports"),
		now:       time.Now,
	}
}

// Export arma la tabla del reporte pedido y la renderiza en el formato indicado.
func (uc *ReportUseCase) Export(ctx context.Context, s *entity.Session, name string, in dto.ReportRequest) (*ExportResult, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := uc.renderers.Get(format)
	if err != nil {
		return nil, err
	}

	tbl, err := uc.BuildTable(ctx, s, name, in)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(ctx, tbl)
	if err != nil {
		return nil, fmt.Errorf("renderizar %s en %s: %w", name, format, err)
	}

	res := &ExportResult{
		Filename:    tbl.Filename(format),
		ContentType: format.ContentType(),
		Data:        data,
		Rows:        tbl.RowCount(),
	}
	uc.record(ctx, s, clientID, tbl, format)
	return res, nil
}

// BuildTable obtiene los datos del reporte (siempre frescos) y arma la tabla.
func (uc *ReportUseCase) BuildTable(ctx context.Context, s *entity.Session, name string, in dto.ReportRequest) (*report.Table, error) {
	now := uc.now()
	period := func() (report.Period, error) {
		r, err := parsePeriod(in.From, in.To, now)
		if err != nil {
			return report.Period{}, err
		}
		return report.Period{From: r.From, To: r.To}, nil
	}

	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case report.ReportStock:
		if strings.TrimSpace(in.Warehouse) == "" {
			return nil, fmt.Errorf("%w: el reporte de stock requiere una bodega", domain.ErrInvalidInput)
		}
		records, _, err := uc.stock.GetByWarehouse(ctx, s, in.Warehouse, true)
		if err != nil {
			return nil, err
		}
		return report.StockTable(in.Warehouse, FilterStock(records, in.Search), now), nil

	case report.ReportReceptions, report.ReportDespachos:
		p, err := period()
		if err != nil {
			return nil, err
		}
		kind := entity.MovementReception
		if name == report.ReportDespachos {
			kind = entity.MovementDespacho
		}
		list, _, err := uc.stock.Movements(ctx, s, kind, in.PeriodRequest, in.Search, true)
		if err != nil {
			return nil, err
		}
		return report.MovementsTable(kind, p, list, now), nil

	case report.ReportSales:
		p, err := period()
		if err != nil {
			return nil, err
		}
		sales, truncated, err := uc.sales.All(ctx, s, in.PeriodRequest, true)
		if err != nil {
			return nil, err
		}
		if truncated {
			uc.log.Warn().Str("client_id", s.ClientID()).Int("orders", len(sales)).Msg("reporte de ventas truncado")
		}
		return report.SalesTable(p, sales, now), nil

	case report.ReportShipments:
		p, err := period()
		if err != nil {
			return nil, err
		}
		res, err := uc.sales.Shipments(ctx, s, dto.ShipmentListRequest{PeriodRequest: in.PeriodRequest, Status: in.Status}, true)
		if err != nil {
			return nil, err
		}
		return report.ShipmentsTable(p, res.Items, now), nil

	case report.ReportProducts:
		list, err := uc.products.All(ctx, s, in.Status, in.Search)
		if err != nil {
			return nil, err
		}
		return report.ProductsTable(list, now), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReport, name)
}

// History exportaciones del usuario, más recientes primero.
func (uc *ReportUseCase) History(ctx context.Context, s *entity.Session, page dto.PageRequest) ([]dto.ExportLogResponse, error) {
	if uc.logs == nil {
		return []dto.ExportLogResponse{}, nil
	}
	page.DefaultPage()
	list, err := uc.logs.ListByUser(ctx, s.UserID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("historial de exportaciones: %w", err)
	}
	out := make([]dto.ExportLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ExportLogResponse{
			ID:          l.ID,
			ClientID:    l.ClientID,
			Report:      l.Report,
			Format:      l.Format,
			Rows:        l.Rows,
			TotalAmount: l.TotalAmount,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}

// record deja constancia de la exportación. Un fallo de la bitácora no invalida el documento.
func (uc *ReportUseCase) record(ctx context.Context, s *entity.Session, clientID string, tbl *report.Table, format report.Format) {
	if uc.metrics != nil {
		uc.metrics.Export(tbl.Name, string(format))
	}
	uc.log.Info().
		Str("client_id", clientID).
		Str("report", tbl.Name).
		Str("format", string(format)).
		Int("rows", len(tbl.Rows)).
		Msg("reporte exportado")

	if uc.logs == nil {
		return
	}
	entry := &entity.ExportLog{
		ID:          uuid.New().String(),
		UserID:      s.UserID,
		ClientID:    clientID,
		Report:      tbl.Name,
		Format:      string(format),
		Rows:        len(tbl.Rows),
		TotalAmount: tbl.Total,
		CreatedAt:   uc.now(),
	}
	if err := uc.logs.Create(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("report", tbl.Name).Msg("no se pudo registrar la exportación")
	}
}
