package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// ── caché ─────────────────────────────────────────────────────────────────────

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func newQuery() *query.Client {
	return query.New(&mapCache{data: map[string][]byte{}}, time.Minute)
}

// ── sesión ────────────────────────────────────────────────────────────────────

func sessionWithConn() *entity.Session {
	return &entity.Session{
		ID: "s1", UserID: "7", BackendToken: "tok",
		Connection: &entity.Connection{ID: 1, ClientID: "111", SiteID: "MLC"},
	}
}

func sessionNoConn() *entity.Session {
	return &entity.Session{ID: "s2", UserID: "7", BackendToken: "tok"}
}

// fixedClock 19/10/2026 10:00 UTC.
func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
}

// ── backend ───────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu sync.Mutex

	products    []entity.Product
	warehouses  []entity.Warehouse
	stock       map[string][]entity.StockRecord
	stockErr    map[string]error
	movements   map[string][]entity.StockMovement
	sales       []entity.Sale
	shipments   []entity.Shipment
	users       []entity.User
	roles       []entity.Role
	err         error
	calls       map[string]int
	lastRange   ports.DateRange
	lastQuery   ports.ProductQuery
	updatedQty  int
	deletedUser string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stock:     map[string][]entity.StockRecord{},
		stockErr:  map[string]error{},
		movements: map[string][]entity.StockMovement{},
		calls:     map[string]int{},
	}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Products(_ context.Context, _, _ string, q ports.ProductQuery) ([]entity.Product, ports.Paging, error) {
	f.hit("products")
	f.lastQuery = q
	if f.err != nil {
		return nil, ports.Paging{}, f.err
	}
	total := len(f.products)
	if q.Offset >= total {
		return []entity.Product{}, ports.Paging{Total: total, Offset: q.Offset, Limit: q.Limit}, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return f.products[q.Offset:end], ports.Paging{Total: total, Offset: q.Offset, Limit: q.Limit}, nil
}

func (f *fakeBackend) Product(_ context.Context, _, _, itemID string) (*entity.Product, error) {
	f.hit("product")
	for _, p := range f.products {
		if p.ID == itemID {
			p := p
			return &p, nil
		}
	}
	return nil, &domain.APIError{Kind: domain.KindNotFound, Status: 404, Message: "no encontrado"}
}

func (f *fakeBackend) UpdateStock(_ context.Context, _, _, itemID string, quantity int) (*entity.Product, error) {
	f.hit("update_stock")
	f.updatedQty = quantity
	return &entity.Product{ID: itemID, AvailableQuantity: quantity}, f.err
}

func (f *fakeBackend) SyncProducts(_ context.Context, _, _ string) (*ports.SyncResult, error) {
	f.hit("sync")
	return &ports.SyncResult{Synced: len(f.products)}, f.err
}

func (f *fakeBackend) Warehouses(_ context.Context, _, _ string) ([]entity.Warehouse, error) {
	f.hit("warehouses")
	return f.warehouses, f.err
}

func (f *fakeBackend) StockByWarehouse(_ context.Context, _, warehouseID string) ([]entity.StockRecord, error) {
	f.hit("stock")
	if err := f.stockErr[warehouseID]; err != nil {
		return nil, err
	}
	if recs, ok := f.stock[warehouseID]; ok {
		return recs, nil
	}
	return []entity.StockRecord{}, nil
}

func (f *fakeBackend) Movements(_ context.Context, _, _, kind string, r ports.DateRange) ([]entity.StockMovement, error) {
	f.hit("movements")
	f.lastRange = r
	return f.movements[kind], f.err
}

func (f *fakeBackend) Sales(_ context.Context, _, _ string, r ports.DateRange, offset, limit int) ([]entity.Sale, ports.Paging, error) {
	f.hit("sales")
	f.lastRange = r
	if f.err != nil {
		return nil, ports.Paging{}, f.err
	}
	total := len(f.sales)
	if offset >= total {
		return []entity.Sale{}, ports.Paging{Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return f.sales[offset:end], ports.Paging{Total: total, Offset: offset, Limit: limit}, nil
}

func (f *fakeBackend) Shipments(_ context.Context, _, _ string, r ports.DateRange, status string) ([]entity.Shipment, error) {
	f.hit("shipments")
	var out []entity.Shipment
	for _, s := range f.shipments {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeBackend) Users(_ context.Context, _ string) ([]entity.User, error) {
	f.hit("users")
	return f.users, f.err
}

func (f *fakeBackend) CreateUser(_ context.Context, _ string, in ports.UserInput) (*entity.User, error) {
	f.hit("create_user")
	u := entity.User{ID: "new", Email: in.Email, Name: in.Name, Role: in.Role, Active: true}
	f.users = append(f.users, u)
	return &u, f.err
}

func (f *fakeBackend) UpdateUser(_ context.Context, _, id string, in ports.UserInput) (*entity.User, error) {
	f.hit("update_user")
	return &entity.User{ID: id, Name: in.Name, Role: in.Role}, f.err
}

func (f *fakeBackend) DeleteUser(_ context.Context, _, id string) error {
	f.hit("delete_user")
	f.deletedUser = id
	return f.err
}

func (f *fakeBackend) Roles(_ context.Context, _ string) ([]entity.Role, error) {
	f.hit("roles")
	return f.roles, f.err
}

// ── catálogo ──────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	calls    int
	lastSite string
}

func (f *fakeCatalog) Categories(_ context.Context, siteID string) ([]entity.Category, error) {
	f.calls++
	f.lastSite = siteID
	return []entity.Category{{ID: siteID + "1055", Name: "Celulares"}}, nil
}

func (f *fakeCatalog) Category(_ context.Context, id string) (*entity.Category, error) {
	f.calls++
	return &entity.Category{ID: id, Name: "Celulares"}, nil
}

func (f *fakeCatalog) CategoryAttributes(_ context.Context, id string) ([]entity.CategoryAttribute, error) {
	f.calls++
	return []entity.CategoryAttribute{
		{ID: "COLOR", Name: "Color"},
		{ID: "BRAND", Name: "Marca", Required: true},
	}, nil
}

func (f *fakeCatalog) PredictCategory(_ context.Context, siteID, title string, limit int) ([]entity.CategoryPrediction, error) {
	f.calls++
	f.lastSite = siteID
	return []entity.CategoryPrediction{{CategoryID: siteID + "1055"}}, nil
}

// ── repositorios ──────────────────────────────────────────────────────────────

// memHistory mantiene el lock durante toda la lectura-escritura, como el advisory lock de PostgreSQL.
// pushDelay alarga esa ventana para que las pruebas concurrentes se solapen.
type memHistory struct {
	mu        sync.Mutex
	data      map[string][]entity.SearchEntry
	pushDelay time.Duration
}

func newMemHistory() *memHistory { return &memHistory{data: map[string][]entity.SearchEntry{}} }

func (m *memHistory) List(_ context.Context, userID, scope string) ([]entity.SearchEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.SearchEntry(nil), m.data[userID+"/"+scope]...), nil
}

func (m *memHistory) Push(_ context.Context, userID, scope string, entry entity.SearchEntry, maxItems int) ([]entity.SearchEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.data[userID+"/"+scope]
	time.Sleep(m.pushDelay)
	next := entity.PushSearch(current, entry, maxItems)
	m.data[userID+"/"+scope] = next
	return append([]entity.SearchEntry(nil), next...), nil
}

func (m *memHistory) Clear(_ context.Context, userID, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID+"/"+scope)
	return nil
}

type memExportLogs struct {
	logs []*entity.ExportLog
}

func (m *memExportLogs) Create(_ context.Context, l *entity.ExportLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *memExportLogs) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.ExportLog, error) {
	var out []*entity.ExportLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type countingRecorder struct {
	exports map[string]int
}

func (c *countingRecorder) Export(report, format string) {
	c.exports[report+"/"+format]++
}
