// Package restclient es el envoltorio HTTP común para los servicios externos:
// base URL, token Bearer, configuración por petición, extracción de subcampos
// del payload y clasificación uniforme de errores en *domain.APIError.
//
// No reintenta: un fallo se devuelve tal cual y el usuario vuelve a disparar la acción.
package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/metrics"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

const userAgent = "meli-sync-admin/1.0"

// Config parámetros de construcción del cliente.
type Config struct {
	Service string // etiqueta para logs y métricas: backend, meli
	BaseURL string
	Timeout time.Duration
}

// Client cliente REST con clasificación de errores.
type Client struct {
	service string
	rc      *resty.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *logger.Logger
}

// Option configura dependencias opcionales.
type Option func(*Client)

// WithLimiter espera turno en el limitador antes de cada petición.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithMetrics instrumenta cada petición.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger asigna el logger (por defecto Nop).
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New construye el cliente.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		service: cfg.Service,
		rc: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Component(cfg.Service)
	return c
}

// Request configuración de una petición.
type Request struct {
	Name       string // operación lógica para métricas, ej. "stock.by_warehouse"
	Method     string
	Path       string // admite {param} resueltos con PathParams
	PathParams map[string]string
	Query      url.Values
	Body       any
	Token      string // Bearer; vacío = sin Authorization
	// Pluck ruta gjson del subcampo a decodificar (ej. "stock", "results").
	// Si el subcampo no existe, out queda sin modificar.
	Pluck string
	// NotFoundAsEmpty trata un 404 como respuesta vacía en lugar de error.
	NotFoundAsEmpty bool
	Timeout         time.Duration
}

// Response metadatos de la respuesta exitosa.
type Response struct {
	Status int
	Raw    []byte
}

// Get atajo para una petición GET.
func (c *Client) Get(ctx context.Context, req Request, out any) (*Response, error) {
	req.Method = http.MethodGet
	return c.Do(ctx, req, out)
}

// Do ejecuta la petición y decodifica el payload (o req.Pluck) en out.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.APIError{Kind: domain.KindNetwork, Message: domain.MsgNetwork, Err: err}
		}
	}

	r := c.rc.R().SetContext(ctx)
	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}
	if len(req.PathParams) > 0 {
		r.SetPathParams(req.PathParams)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstream(c.service, req.Name, 0, elapsed)
		c.log.Error().Err(err).Str("op", req.Name).Str("path", req.Path).Msg("llamada sin respuesta")
		return nil, &domain.APIError{Kind: domain.KindNetwork, Message: domain.MsgNetwork, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.metrics.ObserveUpstream(c.service, req.Name, status, elapsed)
	c.log.Debug().
		Str("op", req.Name).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("llamada externa")

	if status == http.StatusNotFound && req.NotFoundAsEmpty {
		return &Response{Status: status}, nil
	}
	if status < 200 || status > 299 {
		apiErr := Classify(status, body)
		if apiErr.Kind != domain.KindNotFound {
			c.log.Warn().Str("op", req.Name).Int("status", status).Str("message", apiErr.Message).Msg("error del servicio externo")
		}
		return nil, apiErr
	}

	if out != nil && len(body) > 0 {
		raw := body
		if req.Pluck != "" {
			res := gjson.GetBytes(body, req.Pluck)
			if !res.Exists() {
				return &Response{Status: status, Raw: body}, nil
			}
			raw = []byte(res.Raw)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("%s: decodificar respuesta de %s: %w", c.service, req.Name, err)
		}
	}
	return &Response{Status: status, Raw: body}, nil
}

// Classify convierte un estado HTTP no exitoso en *domain.APIError.
// El mensaje sale del campo "message" del cuerpo, luego "error", luego un texto fijo.
func Classify(status int, body []byte) *domain.APIError {
	msg := bodyMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = domain.ErrSessionExpired.Error()
		}
		return &domain.APIError{Kind: domain.KindSessionExpired, Status: status, Message: msg}
	case status == http.StatusNotFound:
		if msg == "" {
			msg = domain.ErrNotFound.Error()
		}
		return &domain.APIError{Kind: domain.KindNotFound, Status: status, Message: msg}
	default:
		if msg == "" {
			msg = domain.MsgFallback
		}
		return &domain.APIError{Kind: domain.KindUpstream, Status: status, Message: msg}
	}
}

func bodyMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error"} {
		if res := gjson.GetBytes(body, path); res.Type == gjson.String && res.Str != "" {
			return res.Str
		}
	}
	return ""
}

// IsKind indica si err es un *domain.APIError del tipo indicado.
func IsKind(err error, kind domain.APIErrorKind) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
