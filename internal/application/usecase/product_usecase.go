package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

type productPage struct {
	Items  []entity.Product `json:"items"`
	Paging ports.Paging     `json:"paging"`
}

// ProductUseCase publicaciones del vendedor. Stock y sincronización se delegan al backend.
type ProductUseCase struct {
	api ports.ProductAPI
	q   *query.Client
	log *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(api ports.ProductAPI, q *query.Client, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{api: api, q: q, log: log.Component("products")}
}

// List lista publicaciones de la conexión activa con filtros y paginación del backend.
func (uc *ProductUseCase) List(ctx context.Context, s *entity.Session, in dto.ProductListRequest, refresh bool) (*dto.ProductListResponse, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	pq := ports.ProductQuery{
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		Offset: in.Offset,
		Limit:  in.Limit,
	}
	key := query.Key{Scope: clientID, Resource: resProducts, Params: map[string]string{
		"status": pq.Status,
		"q":      pq.Search,
		"offset": strconv.Itoa(pq.Offset),
		"limit":  strconv.Itoa(pq.Limit),
	}}

	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) (productPage, error) {
		items, paging, err := uc.api.Products(ctx, s.BackendToken, clientID, pq)
		if err != nil {
			return productPage{}, err
		}
		if items == nil {
			items = []entity.Product{}
		}
		return productPage{Items: items, Paging: paging}, nil
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return &dto.ProductListResponse{
		Items:     res.Data.Items,
		Page:      dto.PageResponse{Limit: pq.Limit, Offset: pq.Offset, Total: res.Data.Paging.Total},
		QueryMeta: metaOf(res),
	}, nil
}

// Get obtiene una publicación.
func (uc *ProductUseCase) Get(ctx context.Context, s *entity.Session, itemID string, refresh bool) (*entity.Product, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, fmt.Errorf("%w: id de publicación vacío", domain.ErrInvalidInput)
	}
	key := query.Key{Scope: clientID, Resource: resProduct, Params: map[string]string{"id": itemID}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) (*entity.Product, error) {
		return uc.api.Product(ctx, s.BackendToken, clientID, itemID)
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("obtener producto %s: %w", itemID, err)
	}
	return res.Data, nil
}

// UpdateStock fija la cantidad disponible de la publicación e invalida las consultas de productos y stock.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, s *entity.Session, itemID string, quantity int) (*entity.Product, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	p, err := uc.api.UpdateStock(ctx, s.BackendToken, clientID, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("actualizar stock de %s: %w", itemID, err)
	}
	uc.invalidate(ctx, clientID, resProducts, resProduct, resStock)
	uc.log.Info().Str("client_id", clientID).Str("item_id", itemID).Int("quantity", quantity).Msg("stock actualizado")
	return p, nil
}

// Sync dispara la sincronización de publicaciones en el backend e invalida el caché de la conexión.
func (uc *ProductUseCase) Sync(ctx context.Context, s *entity.Session) (*ports.SyncResult, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	res, err := uc.api.SyncProducts(ctx, s.BackendToken, clientID)
	if err != nil {
		return nil, fmt.Errorf("sincronizar productos: %w", err)
	}
	if err := uc.q.Invalidate(ctx, query.ScopePrefix(clientID)); err != nil {
		uc.log.Warn().Err(err).Str("client_id", clientID).Msg("no se pudo invalidar el caché")
	}
	uc.log.Info().Str("client_id", clientID).Int("synced", res.Synced).Int("failed", res.Failed).Msg("sincronización completada")
	return res, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, clientID string, resources ...string) {
	for _, r := range resources {
		prefix := query.Key{Scope: clientID, Resource: r}.Prefix()
		if err := uc.q.Invalidate(ctx, prefix); err != nil {
			uc.log.Warn().Err(err).Str("prefix", prefix).Msg("no se pudo invalidar el caché")
		}
	}
}

// maxExportProducts tope de publicaciones leídas para exportar.
const maxExportProducts = 2000

// All todas las publicaciones con el filtro indicado (recorre las páginas del backend).
func (uc *ProductUseCase) All(ctx context.Context, s *entity.Session, status, search string) ([]entity.Product, error) {
	clientID, err := requireConnection(s)
	if err != nil {
		return nil, err
	}
	const pageSize = 50
	out := []entity.Product{}
	for offset := 0; offset < maxExportProducts; offset += pageSize {
		items, paging, err := uc.api.Products(ctx, s.BackendToken, clientID, ports.ProductQuery{
			Status: status, Search: strings.TrimSpace(search), Offset: offset, Limit: pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("leer productos: %w", err)
		}
		out = append(out, items...)
		if len(items) < pageSize || (paging.Total > 0 && offset+len(items) >= paging.Total) {
			break
		}
	}
	return out, nil
}
