package usecase

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// maxParallelWarehouses bodegas consultadas en paralelo para el dashboard.
const maxParallelWarehouses = 4

// DashboardUseCase KPIs del mes en curso: resumen de ventas y existencias por bodega.
type DashboardUseCase struct {
	sales *SalesUseCase
	stock *StockUseCase
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(sales *SalesUseCase, stock *StockUseCase) *DashboardUseCase {
	return &DashboardUseCase{sales: sales, stock: stock}
}

// Summary lanza en paralelo el resumen de ventas y el recorrido de bodegas.
// Una bodega que falla no invalida el dashboard; queda marcada con su error.
func (uc *DashboardUseCase) Summary(ctx context.Context, s *entity.Session, refresh bool) (*dto.DashboardDTO, error) {
	if _, err := requireConnection(s); err != nil {
		return nil, err
	}

	var (
		sales      *dto.SalesSummaryDTO
		warehouses []dto.WarehouseSummaryDTO
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		sales, err = uc.sales.Summary(gctx, s, dto.PeriodRequest{}, refresh)
		return err
	})

	g.Go(func() error {
		res, err := uc.stock.warehouses(gctx, s, refresh)
		if err != nil {
			return err
		}
		warehouses = make([]dto.WarehouseSummaryDTO, len(res.Data))
		return uc.fillWarehouses(gctx, s, res.Data, warehouses, refresh)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		Sales:      *sales,
		Warehouses: warehouses,
		DateLabel:  monthLabel(uc.sales.now()),
	}
	for _, w := range warehouses {
		out.TotalUnits += w.Units
	}
	return out, nil
}

func (uc *DashboardUseCase) fillWarehouses(ctx context.Context, s *entity.Session, list []entity.Warehouse, out []dto.WarehouseSummaryDTO, refresh bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWarehouses)
	var mu sync.Mutex
	var expired error

	for i, w := range list {
		i, w := i, w
		g.Go(func() error {
			row := dto.WarehouseSummaryDTO{ID: w.ID, Name: w.Name}
			records, _, err := uc.stock.GetByWarehouse(gctx, s, w.ID, refresh)
			switch {
			case err == nil:
				row.SKUs = len(records)
				row.Units = totalStockUnits(records)
			case errors.Is(err, domain.ErrSessionExpired):
				mu.Lock()
				expired = err
				mu.Unlock()
			default:
				row.Error = domain.UserMessage(err)
			}
			out[i] = row
			return nil
		})
	}
	_ = g.Wait()
	return expired
}
