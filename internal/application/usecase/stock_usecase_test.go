package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

func newStockUC(api *fakeBackend) *StockUseCase {
	uc := NewStockUseCase(api, newQuery())
	uc.now = fixedClock
	return uc
}

func TestGetByWarehouse_DevuelveArregloSinCambios(t *testing.T) {
	api := newFakeBackend()
	api.stock["1"] = []entity.StockRecord{
		{SKU: "A-1", Title: "Polera", Quantity: 10, Reserved: 2, WarehouseID: "1"},
		{SKU: "B-2", Title: "Pantalón", Quantity: 0, WarehouseID: "1"},
	}
	uc := newStockUC(api)

	got, meta, err := uc.GetByWarehouse(context.Background(), sessionWithConn(), "1", false)
	require.NoError(t, err)
	assert.False(t, meta.Cached)
	assert.False(t, meta.Loading)
	assert.Equal(t, api.stock["1"], got)
}

func TestGetByWarehouse_Inexistente(t *testing.T) {
	uc := newStockUC(newFakeBackend())

	got, _, err := uc.GetByWarehouse(context.Background(), sessionWithConn(), "999", false)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetByWarehouse_ErrorSePropaga(t *testing.T) {
	api := newFakeBackend()
	api.stockErr["1"] = &domain.APIError{Kind: domain.KindUpstream, Status: 500, Message: "falló"}
	uc := newStockUC(api)

	_, _, err := uc.GetByWarehouse(context.Background(), sessionWithConn(), "1", false)
	require.Error(t, err)
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.Status)
}

func TestGetByWarehouse_Cache(t *testing.T) {
	api := newFakeBackend()
	api.stock["1"] = []entity.StockRecord{{SKU: "A-1", Quantity: 1}}
	uc := newStockUC(api)
	s := sessionWithConn()

	_, _, err := uc.GetByWarehouse(context.Background(), s, "1", false)
	require.NoError(t, err)
	_, meta, err := uc.GetByWarehouse(context.Background(), s, "1", false)
	require.NoError(t, err)
	assert.True(t, meta.Cached)
	assert.Equal(t, 1, api.count("stock"))

	_, meta, err = uc.GetByWarehouse(context.Background(), s, "1", true)
	require.NoError(t, err)
	assert.False(t, meta.Cached)
	assert.Equal(t, 2, api.count("stock"))
}

func TestGetByWarehouse_SinConexion(t *testing.T) {
	uc := newStockUC(newFakeBackend())
	_, _, err := uc.GetByWarehouse(context.Background(), sessionNoConn(), "1", false)
	assert.ErrorIs(t, err, domain.ErrNoConnection)
}

func TestWarehouseStock_FiltroYPaginacion(t *testing.T) {
	api := newFakeBackend()
	api.stock["1"] = []entity.StockRecord{
		{SKU: "POL-1", Title: "Polera roja", Quantity: 3},
		{SKU: "POL-2", Title: "Polera azul", Quantity: 4},
		{SKU: "PAN-1", Title: "Pantalón", Quantity: 5},
	}
	uc := newStockUC(api)

	out, err := uc.WarehouseStock(context.Background(), sessionWithConn(), "1",
		dto.StockFilter{Search: "polera", PageRequest: dto.PageRequest{Limit: 1, Offset: 1}}, false)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "POL-2", out.Items[0].SKU)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, 7, out.TotalUnits)
}

func TestReceptions_PeriodoPorDefecto(t *testing.T) {
	api := newFakeBackend()
	api.movements[entity.MovementReception] = []entity.StockMovement{
		{SKU: "A-1", Quantity: 10, Reference: "OC-77"},
		{SKU: "B-2", Quantity: 5, Reference: "OC-78"},
	}
	uc := newStockUC(api)

	out, err := uc.Receptions(context.Background(), sessionWithConn(), dto.MovementListRequest{}, false)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementReception, out.Kind)
	assert.Equal(t, 15, out.TotalUnits)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), api.lastRange.From)

	out, err = uc.Receptions(context.Background(), sessionWithConn(), dto.MovementListRequest{
		StockFilter: dto.StockFilter{Search: "oc-78"},
	}, false)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "B-2", out.Items[0].SKU)
}

func TestDespachos_FechaInvalida(t *testing.T) {
	uc := newStockUC(newFakeBackend())
	_, err := uc.Despachos(context.Background(), sessionWithConn(), dto.MovementListRequest{
		PeriodRequest: dto.PeriodRequest{From: "19/10/2026"},
	}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
