package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// StockUseCase bodegas, existencias por bodega y movimientos (recepciones / despachos).
type StockUseCase struct {
	api ports.StockAPI
	q   *query.Client
	now func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(api ports.StockAPI, q *query.Client) *StockUseCase {
	return &StockUseCase{api: api, q: q, now: time.Now}
}

// Warehouses lista las bodegas de la conexión activa.
func (uc *StockUseCase) Warehouses(ctx context.Context, s *entity.Session, refresh bool) (*dto.WarehouseListResponse, error) {
	res, err := uc.warehouses(ctx, s, refresh)
	if err != nil {
		return nil, err
	}
	return &dto.WarehouseListResponse{Items: res.Data, QueryMeta: metaOf(res)}, nil
}

func (uc *StockUseCase) warehouses(ctx context.Context, s *entity.Session, refresh bool) (query.Result[[]entity.Warehouse], error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return query.Result[[]entity.Warehouse]{}, err
	}
	key := query.Key{Scope: clientID, Resource: resWarehouses}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.Warehouse, error) {
		list, err := uc.api.Warehouses(ctx, s.BackendToken, clientID)
		if list == nil && err == nil {
			list = []entity.Warehouse{}
		}
		return list, err
	}, fetchOpts(refresh)...)
	if err != nil {
		return res, fmt.Errorf("listar bodegas: %w", err)
	}
	return res, nil
}

// GetByWarehouse devuelve el arreglo de stock de la bodega tal como lo entrega el backend.
// Una bodega inexistente (404) da lista vacía; cualquier otro error se propaga.
func (uc *StockUseCase) GetByWarehouse(ctx context.Context, s *entity.Session, warehouseID string, refresh bool) ([]entity.StockRecord, dto.QueryMeta, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, dto.QueryMeta{}, err
	}
	warehouseID = strings.TrimSpace(warehouseID)
	if warehouseID == "" {
		return nil, dto.QueryMeta{}, fmt.Errorf("%w: bodega vacía", domain.ErrInvalidInput)
	}
	key := query.Key{Scope: clientID, Resource: resStock, Params: map[string]string{"warehouse": warehouseID}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.StockRecord, error) {
		return uc.api.StockByWarehouse(ctx, s.BackendToken, warehouseID)
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, dto.QueryMeta{}, fmt.Errorf("stock de bodega %s: %w", warehouseID, err)
	}
	if res.Data == nil {
		return []entity.StockRecord{}, metaOf(res), nil
	}
	return res.Data, metaOf(res), nil
}

// WarehouseStock GetByWarehouse con filtro por SKU/título y paginación en memoria.
func (uc *StockUseCase) WarehouseStock(ctx context.Context, s *entity.Session, warehouseID string, f dto.StockFilter, refresh bool) (*dto.WarehouseStockResponse, error) {
	records, meta, err := uc.GetByWarehouse(ctx, s, warehouseID, refresh)
	if err != nil {
		return nil, err
	}
	filtered := FilterStock(records, f.Search)
	items, page := paginate(filtered, f.PageRequest)
	return &dto.WarehouseStockResponse{
		WarehouseID: warehouseID,
		Items:       items,
		Page:        page,
		TotalUnits:  totalStockUnits(filtered),
		QueryMeta:   meta,
	}, nil
}

// Receptions recepciones de inventario del período.
func (uc *StockUseCase) Receptions(ctx context.Context, s *entity.Session, in dto.MovementListRequest, refresh bool) (*dto.MovementListResponse, error) {
	return uc.movements(ctx, s, entity.MovementReception, in, refresh)
}

// Despachos despachos de inventario del período.
func (uc *StockUseCase) Despachos(ctx context.Context, s *entity.Session, in dto.MovementListRequest, refresh bool) (*dto.MovementListResponse, error) {
	return uc.movements(ctx, s, entity.MovementDespacho, in, refresh)
}

// Movements lista completa (sin paginar) de movimientos del tipo indicado.
func (uc *StockUseCase) Movements(ctx context.Context, s *entity.Session, kind string, period dto.PeriodRequest, search string, refresh bool) ([]entity.StockMovement, dto.QueryMeta, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, dto.QueryMeta{}, err
	}
	r, err := parsePeriod(period.From, period.To, uc.now())
	if err != nil {
		return nil, dto.QueryMeta{}, err
	}
	params := rangeParams(r)
	params["kind"] = kind
	key := query.Key{Scope: clientID, Resource: resMovements, Params: params}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.StockMovement, error) {
		list, err := uc.api.Movements(ctx, s.BackendToken, clientID, kind, r)
		if list == nil && err == nil {
			list = []entity.StockMovement{}
		}
		return list, err
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, dto.QueryMeta{}, fmt.Errorf("movimientos %s: %w", kind, err)
	}
	return FilterMovements(res.Data, search), metaOf(res), nil
}

func (uc *StockUseCase) movements(ctx context.Context, s *entity.Session, kind string, in dto.MovementListRequest, refresh bool) (*dto.MovementListResponse, error) {
	list, meta, err := uc.Movements(ctx, s, kind, in.PeriodRequest, in.Search, refresh)
	if err != nil {
		return nil, err
	}
	items, page := paginate(list, in.PageRequest)
	units := 0
	for _, m := range list {
		units += m.Quantity
	}
	return &dto.MovementListResponse{Kind: kind, Items: items, Page: page, TotalUnits: units, QueryMeta: meta}, nil
}

// FilterStock filtra existencias por SKU o título.
func FilterStock(records []entity.StockRecord, q string) []entity.StockRecord {
	return filterBy(records, q, func(r entity.StockRecord) []string { return []string{r.SKU, r.Title, r.ProductID} })
}

// FilterMovements filtra movimientos por SKU, título o referencia.
func FilterMovements(list []entity.StockMovement, q string) []entity.StockMovement {
	return filterBy(list, q, func(m entity.StockMovement) []string { return []string{m.SKU, m.Title, m.Reference} })
}

func totalStockUnits(records []entity.StockRecord) int {
	n := 0
	for _, r := range records {
		n += r.Quantity
	}
	return n
}
