package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

const (
	defaultTopItems = 5
	// summaryPageSize y summaryMaxOrders acotan la lectura de órdenes para el resumen.
	summaryPageSize  = 50
	summaryMaxOrders = 2000
)

type salesPage struct {
	Items  []entity.Sale `json:"items"`
	Paging ports.Paging  `json:"paging"`
}

type salesSet struct {
	Items     []entity.Sale `json:"items"`
	Truncated bool          `json:"truncated"`
}

// SalesUseCase órdenes, resumen de ventas y envíos de la conexión activa.
type SalesUseCase struct {
	api ports.SalesAPI
	q   *query.Client
	now func() time.Time
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(api ports.SalesAPI, q *query.Client) *SalesUseCase {
	return &SalesUseCase{api: api, q: q, now: time.Now}
}

// List órdenes del período con la paginación del backend.
func (uc *SalesUseCase) List(ctx context.Context, s *entity.Session, in dto.SalesListRequest, refresh bool) (*dto.SalesListResponse, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	r, err := parsePeriod(in.From, in.To, uc.now())
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	params := rangeParams(r)
	params["offset"] = strconv.Itoa(in.Offset)
	params["limit"] = strconv.Itoa(in.Limit)
	key := query.Key{Scope: clientID, Resource: resSales, Params: params}

	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) (salesPage, error) {
		items, paging, err := uc.api.Sales(ctx, s.BackendToken, clientID, r, in.Offset, in.Limit)
		if err != nil {
			return salesPage{}, err
		}
		if items == nil {
			items = []entity.Sale{}
		}
		return salesPage{Items: items, Paging: paging}, nil
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	return &dto.SalesListResponse{
		Items:     res.Data.Items,
		Page:      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: res.Data.Paging.Total},
		QueryMeta: metaOf(res),
	}, nil
}

// All todas las órdenes del período (recorre las páginas del backend hasta summaryMaxOrders).
func (uc *SalesUseCase) All(ctx context.Context, s *entity.Session, period dto.PeriodRequest, refresh bool) ([]entity.Sale, bool, error) {
	set, err := uc.all(ctx, s, period, refresh)
	if err != nil {
		return nil, false, err
	}
	return set.Data.Items, set.Data.Truncated, nil
}

func (uc *SalesUseCase) all(ctx context.Context, s *entity.Session, period dto.PeriodRequest, refresh bool) (query.Result[salesSet], error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return query.Result[salesSet]{}, err
	}
	r, err := parsePeriod(period.From, period.To, uc.now())
	if err != nil {
		return query.Result[salesSet]{}, err
	}
	params := rangeParams(r)
	params["all"] = "1"
	key := query.Key{Scope: clientID, Resource: resSales, Params: params}

	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) (salesSet, error) {
		out := salesSet{Items: []entity.Sale{}}
		for offset := 0; ; offset += summaryPageSize {
			items, paging, err := uc.api.Sales(ctx, s.BackendToken, clientID, r, offset, summaryPageSize)
			if err != nil {
				return salesSet{}, err
			}
			out.Items = append(out.Items, items...)
			if len(items) < summaryPageSize || (paging.Total > 0 && offset+len(items) >= paging.Total) {
				return out, nil
			}
			if len(out.Items) >= summaryMaxOrders {
				out.Truncated = true
				return out, nil
			}
		}
	}, fetchOpts(refresh)...)
	if err != nil {
		return res, fmt.Errorf("leer ventas del período: %w", err)
	}
	return res, nil
}

// Summary totales del período: órdenes, unidades, ingresos por moneda y publicaciones más vendidas.
func (uc *SalesUseCase) Summary(ctx context.Context, s *entity.Session, period dto.PeriodRequest, refresh bool) (*dto.SalesSummaryDTO, error) {
	r, err := parsePeriod(period.From, period.To, uc.now())
	if err != nil {
		return nil, err
	}
	set, err := uc.all(ctx, s, period, refresh)
	if err != nil {
		return nil, err
	}
	out := SummarizeSales(set.Data.Items, defaultTopItems)
	out.From = r.From.Format(dateLayout)
	out.To = r.To.Format(dateLayout)
	out.Truncated = set.Data.Truncated
	return &out, nil
}

// SummarizeSales agrega las órdenes. Las canceladas no suman.
func SummarizeSales(sales []entity.Sale, topN int) dto.SalesSummaryDTO {
	out := dto.SalesSummaryDTO{Revenue: map[string]decimal.Decimal{}, TopItems: []dto.TopItemDTO{}}
	byItem := map[string]*dto.TopItemDTO{}

	for _, sale := range sales {
		if sale.Status == "cancelled" {
			continue
		}
		out.Orders++
		out.Units += sale.Units()
		out.Revenue[sale.Currency] = out.Revenue[sale.Currency].Add(sale.TotalAmount)

		for _, it := range sale.Items {
			agg, ok := byItem[it.ItemID]
			if !ok {
				agg = &dto.TopItemDTO{ItemID: it.ItemID, SKU: it.SKU, Title: it.Title, Currency: sale.Currency}
				byItem[it.ItemID] = agg
			}
			agg.Units += it.Quantity
			agg.Revenue = agg.Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	for _, agg := range byItem {
		out.TopItems = append(out.TopItems, *agg)
	}
	sort.Slice(out.TopItems, func(i, j int) bool {
		a, b := out.TopItems[i], out.TopItems[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ItemID < b.ItemID
	})
	if topN > 0 && len(out.TopItems) > topN {
		out.TopItems = out.TopItems[:topN]
	}
	return out
}

// Shipments envíos del período, opcionalmente filtrados por estado.
func (uc *SalesUseCase) Shipments(ctx context.Context, s *entity.Session, in dto.ShipmentListRequest, refresh bool) (*dto.ShipmentListResponse, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	r, err := parsePeriod(in.From, in.To, uc.now())
	if err != nil {
		return nil, err
	}
	params := rangeParams(r)
	params["status"] = in.Status
	key := query.Key{Scope: clientID, Resource: resShipments, Params: params}

	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.Shipment, error) {
		list, err := uc.api.Shipments(ctx, s.BackendToken, clientID, r, in.Status)
		if list == nil && err == nil {
			list = []entity.Shipment{}
		}
		return list, err
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("listar envíos: %w", err)
	}

	byStatus := map[string]int{}
	for _, sh := range res.Data {
		byStatus[sh.Status]++
	}
	return &dto.ShipmentListResponse{Items: res.Data, ByStatus: byStatus, QueryMeta: metaOf(res)}, nil
}
