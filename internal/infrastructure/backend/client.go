// Package backend adapta el backend proxy del marketplace a los puertos de
// aplicación. Cada método conoce su ruta, sus parámetros y el subcampo del
// payload que interesa; el transporte y la clasificación de errores viven en restclient.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/restclient"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.ProductAPI = (*Client)(nil)
	_ ports.StockAPI   = (*Client)(nil)
	_ ports.SalesAPI   = (*Client)(nil)
	_ ports.UserAPI    = (*Client)(nil)
)

const dateLayout = "2006-01-02"

// Client adaptador del backend proxy.
type Client struct {
	rest *restclient.Client
}

// New construye el adaptador sobre un restclient ya configurado con la base URL del backend.
func New(rest *restclient.Client) *Client {
	return &Client{rest: rest}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login autentica contra el backend y devuelve su token.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var out ports.LoginResult
	_, err := c.rest.Do(ctx, restclient.Request{
		Name:   "auth.login",
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("backend: login sin token: %w", domain.ErrUnauthorized)
	}
	return &out, nil
}

// Connections lista las cuentas de vendedor registradas para el usuario.
func (c *Client) Connections(ctx context.Context, token string) ([]entity.Connection, error) {
	out := []entity.Connection{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:  "connections.list",
		Path:  "/mercadolibre/credentials",
		Token: token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

type productPage struct {
	Results []entity.Product `json:"results"`
	Paging  ports.Paging     `json:"paging"`
}

// Products lista publicaciones del vendedor con paginación del backend.
func (c *Client) Products(ctx context.Context, token, clientID string, q ports.ProductQuery) ([]entity.Product, ports.Paging, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	query.Set("offset", strconv.Itoa(q.Offset))
	query.Set("limit", strconv.Itoa(q.Limit))

	var out productPage
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "products.list",
		Path:       "/mercadolibre/products/{client_id}",
		PathParams: map[string]string{"client_id": clientID},
		Query:      query,
		Token:      token,
	}, &out)
	if err != nil {
		return nil, ports.Paging{}, err
	}
	if out.Results == nil {
		out.Results = []entity.Product{}
	}
	return out.Results, out.Paging, nil
}

// Product obtiene una publicación.
func (c *Client) Product(ctx context.Context, token, clientID, itemID string) (*entity.Product, error) {
	var out entity.Product
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "products.get",
		Path:       "/mercadolibre/products/{client_id}/{item_id}",
		PathParams: map[string]string{"client_id": clientID, "item_id": itemID},
		Token:      token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStock publica la cantidad disponible de un ítem en el marketplace.
func (c *Client) UpdateStock(ctx context.Context, token, clientID, itemID string, quantity int) (*entity.Product, error) {
	var out entity.Product
	_, err := c.rest.Do(ctx, restclient.Request{
		Name:       "products.update_stock",
		Method:     http.MethodPut,
		Path:       "/mercadolibre/products/{client_id}/{item_id}/stock",
		PathParams: map[string]string{"client_id": clientID, "item_id": itemID},
		Body:       map[string]int{"available_quantity": quantity},
		Token:      token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncProducts dispara la sincronización de publicaciones en el backend.
func (c *Client) SyncProducts(ctx context.Context, token, clientID string) (*ports.SyncResult, error) {
	var out ports.SyncResult
	_, err := c.rest.Do(ctx, restclient.Request{
		Name:       "products.sync",
		Method:     http.MethodPost,
		Path:       "/mercadolibre/products/{client_id}/sync",
		PathParams: map[string]string{"client_id": clientID},
		Token:      token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// Warehouses lista las bodegas del vendedor.
func (c *Client) Warehouses(ctx context.Context, token, clientID string) ([]entity.Warehouse, error) {
	out := []entity.Warehouse{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:  "stock.warehouses",
		Path:  "/stock/warehouses",
		Query: url.Values{"client_id": {clientID}},
		Token: token,
		Pluck: "warehouses",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StockByWarehouse devuelve el arreglo "stock" de la bodega sin transformar.
// 404 → lista vacía; cualquier otro error se propaga.
func (c *Client) StockByWarehouse(ctx context.Context, token, warehouseID string) ([]entity.StockRecord, error) {
	out := []entity.StockRecord{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:            "stock.by_warehouse",
		Path:            "/stock/warehouse/{id}",
		PathParams:      map[string]string{"id": warehouseID},
		Token:           token,
		Pluck:           "stock",
		NotFoundAsEmpty: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.StockRecord{}
	}
	return out, nil
}

// Movements lista recepciones o despachos del período.
func (c *Client) Movements(ctx context.Context, token, clientID, kind string, r ports.DateRange) ([]entity.StockMovement, error) {
	var path, field string
	switch kind {
	case entity.MovementReception:
		path, field = "/stock/receptions", "receptions"
	case entity.MovementDespacho:
		path, field = "/stock/despachos", "despachos"
	default:
		return nil, fmt.Errorf("backend: tipo de movimiento %q: %w", kind, domain.ErrInvalidInput)
	}

	query := rangeQuery(r)
	query.Set("client_id", clientID)

	out := []entity.StockMovement{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:  "stock." + field,
		Path:  path,
		Query: query,
		Token: token,
		Pluck: field,
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

// ── Sales / Shipments ─────────────────────────────────────────────────────────

type salesPage struct {
	Results []entity.Sale `json:"results"`
	Paging  ports.Paging  `json:"paging"`
}

// Sales lista órdenes del período.
func (c *Client) Sales(ctx context.Context, token, clientID string, r ports.DateRange, offset, limit int) ([]entity.Sale, ports.Paging, error) {
	query := rangeQuery(r)
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var out salesPage
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "sales.list",
		Path:       "/mercadolibre/sales/{client_id}",
		PathParams: map[string]string{"client_id": clientID},
		Query:      query,
		Token:      token,
	}, &out)
	if err != nil {
		return nil, ports.Paging{}, err
	}
	if out.Results == nil {
		out.Results = []entity.Sale{}
	}
	return out.Results, out.Paging, nil
}

// Shipments lista envíos del período, opcionalmente filtrados por estado.
func (c *Client) Shipments(ctx context.Context, token, clientID string, r ports.DateRange, status string) ([]entity.Shipment, error) {
	query := rangeQuery(r)
	if status != "" {
		query.Set("status", status)
	}
	out := []entity.Shipment{}
	_, err := c.rest.Get(ctx, restclient.Request{
		Name:       "shipments.list",
		Path:       "/mercadolibre/shipments/{client_id}",
		PathParams: map[string]string{"client_id": clientID},
		Query:      query,
		Token:      token,
		Pluck:      "results",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ── Users / Roles ─────────────────────────────────────────────────────────────

// Users lista usuarios administrativos.
func (c *Client) Users(ctx context.Context, token string) ([]entity.User, error) {
	out := []entity.User{}
	if _, err := c.rest.Get(ctx, restclient.Request{Name: "users.list", Path: "/users", Token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser crea un usuario.
func (c *Client) CreateUser(ctx context.Context, token string, in ports.UserInput) (*entity.User, error) {
	var out entity.User
	_, err := c.rest.Do(ctx, restclient.Request{
		Name: "users.create", Method: http.MethodPost, Path: "/users", Body: in, Token: token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser modifica un usuario.
func (c *Client) UpdateUser(ctx context.Context, token, id string, in ports.UserInput) (*entity.User, error) {
	var out entity.User
	_, err := c.rest.Do(ctx, restclient.Request{
		Name:       "users.update",
		Method:     http.MethodPut,
		Path:       "/users/{id}",
		PathParams: map[string]string{"id": id},
		Body:       in,
		Token:      token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser elimina un usuario.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	_, err := c.rest.Do(ctx, restclient.Request{
		Name:       "users.delete",
		Method:     http.MethodDelete,
		Path:       "/users/{id}",
		PathParams: map[string]string{"id": id},
		Token:      token,
	}, nil)
	return err
}

// Roles lista los roles disponibles.
func (c *Client) Roles(ctx context.Context, token string) ([]entity.Role, error) {
	out := []entity.Role{}
	if _, err := c.rest.Get(ctx, restclient.Request{Name: "roles.list", Path: "/roles", Token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func rangeQuery(r ports.DateRange) url.Values {
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("date_from", r.From.Format(dateLayout))
	}
	if !r.To.IsZero() {
		q.Set("date_to", r.To.Format(dateLayout))
	}
	return q
}
