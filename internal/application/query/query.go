// Package query es la abstracción genérica de consultas tipadas:
// clave de petición → resultado cacheado, error o consulta en vuelo.
//
// Reemplaza los hooks de datos repetidos por vista: cada caso de uso declara su
// clave y su función de carga; el cliente resuelve caché, deduplicación de
// llamadas concurrentes y el indicador de carga. Los errores nunca se cachean.
package query

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

const keyPrefix = "q:"

// Cache almacenamiento de resultados serializados.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Recorder recibe aciertos y fallos del caché (lo implementa *metrics.Metrics).
type Recorder interface {
	CacheLookup(resource string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool) {}

// Key identifica una consulta. Scope suele ser el client_id de la conexión
// (o "public" para la API pública); Resource el tipo de dato.
type Key struct {
	Scope    string
	Resource string
	Params   map[string]string
}

// String forma canónica de la clave: parámetros ordenados y codificados.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Prefix())
	if len(k.Params) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(k.Params))
	for name, v := range k.Params {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for i, name := range names {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}
	return b.String()
}

// Prefix prefijo compartido por todas las variantes de parámetros del recurso.
func (k Key) Prefix() string {
	return ScopePrefix(k.Scope) + k.Resource
}

// ScopePrefix prefijo de todas las consultas de un scope.
func ScopePrefix(scope string) string {
	return keyPrefix + scope + ":"
}

// Result dato resuelto por Fetch. Loading indica que al responder había una carga
// de la misma clave en curso (p. ej. un dato cacheado mientras otro usuario recarga).
type Result[T any] struct {
	Data      T
	Cached    bool
	Loading   bool
	FetchedAt time.Time
}

type envelope[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Client coordina caché y deduplicación.
type Client struct {
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group
	metrics Recorder
	log     *logger.Logger

	mu       sync.Mutex
	inflight map[string]int
}

// Option configura el cliente.
type Option func(*Client)

// WithMetrics registra aciertos y fallos del caché.
func WithMetrics(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithLogger asigna el logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New construye el cliente con el TTL por defecto indicado.
func New(cache Cache, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		cache:    cache,
		ttl:      ttl,
		metrics:  nopRecorder{},
		log:      logger.Nop(),
		inflight: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Component("query")
	return c
}

type fetchOptions struct {
	refresh bool
	ttl     time.Duration
}

// FetchOption ajusta una consulta puntual.
type FetchOption func(*fetchOptions)

// Refresh ignora el valor cacheado y vuelve a cargar (acción "recargar" del usuario).
func Refresh(on bool) FetchOption {
	return func(o *fetchOptions) { o.refresh = on }
}

// TTL sobrescribe el TTL por defecto para esta consulta.
func TTL(d time.Duration) FetchOption {
	return func(o *fetchOptions) { o.ttl = d }
}

// Fetch resuelve key desde caché o ejecutando fn. Llamadas concurrentes con la
// misma clave comparten una sola ejecución de fn. Sólo los resultados exitosos se guardan.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error), opts ...FetchOption) (Result[T], error) {
	o := fetchOptions{ttl: c.ttl}
	for _, opt := range opts {
		opt(&o)
	}
	k := key.String()

	if !o.refresh {
		if res, ok := lookup[T](ctx, c, k); ok {
			c.metrics.CacheLookup(key.Resource, true)
			res.Loading = c.inFlight(k)
			return res, nil
		}
	}
	c.metrics.CacheLookup(key.Resource, false)

	ch := c.group.DoChan(k, func() (any, error) {
		c.begin(k)
		defer c.end(k)

		// La carga compartida no depende de la cancelación del primer solicitante.
		loadCtx := context.WithoutCancel(ctx)
		data, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		env := envelope[T]{Data: data, FetchedAt: time.Now()}
		c.store(loadCtx, k, env, o.ttl)
		return env, nil
	})

	select {
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result[T]{}, r.Err
		}
		env := r.Val.(envelope[T])
		return Result[T]{Data: env.Data, Loading: c.inFlight(k), FetchedAt: env.FetchedAt}, nil
	}
}

func lookup[T any](ctx context.Context, c *Client, k string) (Result[T], bool) {
	raw, ok, err := c.cache.Get(ctx, k)
	if err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("lectura de caché fallida")
		return Result[T]{}, false
	}
	if !ok {
		return Result[T]{}, false
	}
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("valor cacheado ilegible")
		return Result[T]{}, false
	}
	return Result[T]{Data: env.Data, Cached: true, FetchedAt: env.FetchedAt}, true
}

func (c *Client) store(ctx context.Context, k string, v any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("no se pudo serializar el resultado")
		return
	}
	if err := c.cache.Set(ctx, k, raw, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("escritura de caché fallida")
	}
}

func (c *Client) begin(k string) {
	c.mu.Lock()
	c.inflight[k]++
	c.mu.Unlock()
}

func (c *Client) end(k string) {
	c.mu.Lock()
	if c.inflight[k] <= 1 {
		delete(c.inflight, k)
	} else {
		c.inflight[k]--
	}
	c.mu.Unlock()
}

// InFlight indica si la consulta está cargándose en este momento.
func (c *Client) InFlight(key Key) bool {
	return c.inFlight(key.String())
}

func (c *Client) inFlight(k string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[k] > 0
}

// Invalidate elimina todas las consultas cuyo identificador empieza con prefix
// (usar Key.Prefix o ScopePrefix).
func (c *Client) Invalidate(ctx context.Context, prefix string) error {
	return c.cache.DeletePrefix(ctx, prefix)
}
