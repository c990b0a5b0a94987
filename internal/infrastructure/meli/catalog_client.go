// Package meli consume la API pública del marketplace para descubrir
// categorías y atributos. No requiere token; las llamadas pasan por un limitador de tasa.
package meli

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/restclient"
)

var _ ports.CatalogAPI = (*CatalogClient)(nil)

// CatalogClient adaptador de ports.CatalogAPI.
type CatalogClient struct {
	rest *restclient.Client
}

// NewCatalogClient construye el adaptador; rest debe apuntar a la API pública.
func NewCatalogClient(rest *restclient.Client) *CatalogClient {
	return &CatalogClient{rest: rest}
}

// Categories categorías raíz de un sitio.
func (c *CatalogClient) Categories(ctx context.Context, siteID string) ([]entity.Category, error) {
	out := []entity.Category{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "categories.site",
		Path:       "/sites/{site}/categories",
		PathParams: map[string]string{"site": strings.ToUpper(siteID)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Category detalle de una categoría con su ruta y subcategorías.
func (c *CatalogClient) Category(ctx context.Context, categoryID string) (*entity.Category, error) {
	var out entity.Category
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "categories.get",
		Path:       "/categories/{id}",
		PathParams: map[string]string{"id": categoryID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type rawAttribute struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	ValueType string                  `json:"value_type"`
	Tags      map[string]any          `json:"tags"`
	Values    []entity.AttributeValue `json:"values"`
}

// CategoryAttributes atributos de la categoría; Required sale del tag "required".
func (c *CatalogClient) CategoryAttributes(ctx context.Context, categoryID string) ([]entity.CategoryAttribute, error) {
	var raw []rawAttribute
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "categories.attributes",
		Path:       "/categories/{id}/attributes",
		PathParams: map[string]string{"id": categoryID},
	}, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CategoryAttribute, 0, len(raw))
	for _, a := range raw {
		required, _ := a.Tags["required"].(bool)
		out = append(out, entity.CategoryAttribute{
			ID:        a.ID,
			Name:      a.Name,
			ValueType: a.ValueType,
			Required:  required,
			Values:    a.Values,
		})
	}
	return out, nil
}

// PredictCategory sugiere categorías a partir de un título libre.
func (c *CatalogClient) PredictCategory(ctx context.Context, siteID, title string, limit int) ([]entity.CategoryPrediction, error) {
	if limit <= 0 {
		limit = 3
	}
	out := []entity.CategoryPrediction{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "categories.predict",
		Path:       "/sites/{site}/domain_discovery/search",
		PathParams: map[string]string{"site": strings.ToUpper(siteID)},
		Query:      url.Values{"q": {title}, "limit": {strconv.Itoa(limit)}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
