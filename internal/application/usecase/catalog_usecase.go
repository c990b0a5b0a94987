package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// catalogTTL las categorías del marketplace cambian muy poco.
const catalogTTL = 12 * time.Hour

const maxPredictions = 10

// CatalogUseCase categorías y atributos de la API pública del marketplace.
type CatalogUseCase struct {
	api         ports.CatalogAPI
	q           *query.Client
	defaultSite string
}

// NewCatalogUseCase construye el caso de uso. defaultSite se usa si la conexión no informa sitio.
func NewCatalogUseCase(api ports.CatalogAPI, q *query.Client, defaultSite string) *CatalogUseCase {
	return &CatalogUseCase{api: api, q: q, defaultSite: defaultSite}
}

func (uc *CatalogUseCase) site(s *entity.Session) string {
	if s == nil {
		return uc.defaultSite
	}
	return strings.ToUpper(s.Connection.Site(uc.defaultSite))
}

// Categories categorías raíz del sitio de la conexión.
func (uc *CatalogUseCase) Categories(ctx context.Context, s *entity.Session, refresh bool) ([]entity.Category, error) {
	site := uc.site(s)
	key := query.Key{Scope: scopePublic, Resource: resCategories, Params: map[string]string{"site": site}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.Category, error) {
		return uc.api.Categories(ctx, site)
	}, query.Refresh(refresh), query.TTL(catalogTTL))
	if err != nil {
		return nil, fmt.Errorf("categorías de %s: %w", site, err)
	}
	return res.Data, nil
}

// Category detalle de una categoría (ruta desde la raíz e hijas).
func (uc *CatalogUseCase) Category(ctx context.Context, id string, refresh bool) (*entity.Category, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: categoría vacía", domain.ErrInvalidInput)
	}
	key := query.Key{Scope: scopePublic, Resource: resCategories, Params: map[string]string{"id": id}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) (*entity.Category, error) {
		return uc.api.Category(ctx, id)
	}, query.Refresh(refresh), query.TTL(catalogTTL))
	if err != nil {
		return nil, fmt.Errorf("categoría %s: %w", id, err)
	}
	return res.Data, nil
}

// Attributes atributos de la categoría; los obligatorios primero.
func (uc *CatalogUseCase) Attributes(ctx context.Context, id string, refresh bool) ([]entity.CategoryAttribute, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: categoría vacía", domain.ErrInvalidInput)
	}
	key := query.Key{Scope: scopePublic, Resource: resCategories, Params: map[string]string{"id": id, "attributes": "1"}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.CategoryAttribute, error) {
		return uc.api.CategoryAttributes(ctx, id)
	}, query.Refresh(refresh), query.TTL(catalogTTL))
	if err != nil {
		return nil, fmt.Errorf("atributos de %s: %w", id, err)
	}
	return requiredFirst(res.Data), nil
}

// Predict sugiere categorías para un título libre. No se cachea.
func (uc *CatalogUseCase) Predict(ctx context.Context, s *entity.Session, title string, limit int) ([]entity.CategoryPrediction, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: el título es obligatorio", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > maxPredictions {
		limit = 3
	}
	site := uc.site(s)
	key := query.Key{Scope: scopePublic, Resource: "predict", Params: map[string]string{
		"site": site, "q": strings.ToLower(title), "limit": strconv.Itoa(limit),
	}}
	res, err := query.Fetch(ctx, uc.q, key, func(ctx context.Context) ([]entity.CategoryPrediction, error) {
		return uc.api.PredictCategory(ctx, site, title, limit)
	}, query.TTL(0))
	if err != nil {
		return nil, fmt.Errorf("predecir categoría: %w", err)
	}
	return res.Data, nil
}

func requiredFirst(attrs []entity.CategoryAttribute) []entity.CategoryAttribute {
	out := make([]entity.CategoryAttribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Required {
			out = append(out, a)
		}
	}
	for _, a := range attrs {
		if !a.Required {
			out = append(out, a)
		}
	}
	return out
}
