package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Recursos del caché de consultas (segmento de la clave).
const (
	resProducts   = "products"
	resProduct    = "product"
	resWarehouses = "warehouses"
	resStock      = "stock"
	resMovements  = "movements"
	resSales      = "sales"
	resShipments  = "shipments"
	resUsers      = "users"
	resRoles      = "roles"
	resCategories = "categories"
)

// Scopes que no dependen de una conexión.
const (
	scopePublic = "public"
	scopeAdmin  = "admin"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// metaOf estado de caché y carga de un resultado, para la respuesta.
func metaOf[T any](res query.Result[T]) dto.QueryMeta {
	return dto.QueryMeta{Cached: res.Cached, Loading: res.Loading}
}

// requireConnection devuelve el client_id de la sesión o ErrNoConnection.
func requireConnection(s *entity.Session) (string, error) {
	if s == nil || !s.HasConnection() {
		return "", domain.ErrNoConnection
	}
	return s.ClientID(), nil
}

// parsePeriod interpreta un rango YYYY-MM-DD. Sin inicio: primer día del mes de now.
// Sin fin: now. El fin es inclusivo hasta las 23:59:59.
func parsePeriod(startStr, endStr string, now time.Time) (ports.DateRange, error) {
	var start, end time.Time
	var err error

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, now.Location())
		if err != nil {
			return ports.DateRange{}, fmt.Errorf("%w: fecha final inválida %q", domain.ErrInvalidInput, endStr)
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, now.Location())
		if err != nil {
			return ports.DateRange{}, fmt.Errorf("%w: fecha inicial inválida %q", domain.ErrInvalidInput, startStr)
		}
	}

	if start.After(end) {
		return ports.DateRange{}, fmt.Errorf("%w: la fecha inicial no puede ser posterior a la final", domain.ErrInvalidInput)
	}
	return ports.DateRange{From: start, To: end}, nil
}

func rangeParams(r ports.DateRange) map[string]string {
	return map[string]string{
		"from": r.From.Format(dateLayout),
		"to":   r.To.Format(dateLayout),
	}
}

// monthLabel ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// paginate recorta items según limit/offset; un offset fuera de rango da lista vacía.
func paginate[T any](items []T, p dto.PageRequest) ([]T, dto.PageResponse) {
	p.DefaultPage()
	page := dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(items)}
	if p.Offset >= len(items) {
		return []T{}, page
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end], page
}

// filterBy devuelve los items para los que alguno de los campos contiene q (sin mayúsculas).
// q vacío devuelve items sin copiar.
func filterBy[T any](items []T, q string, fields func(T) []string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func fetchOpts(refresh bool) []query.FetchOption {
	return []query.FetchOption{query.Refresh(refresh)}
}
