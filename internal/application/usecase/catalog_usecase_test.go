package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/domain"
)

func TestCatalog_SitioDeLaConexion(t *testing.T) {
	api := &fakeCatalog{}
	uc := NewCatalogUseCase(api, newQuery(), "MLA")

	list, err := uc.Categories(context.Background(), sessionWithConn(), false)
	require.NoError(t, err)
	assert.Equal(t, "MLC", api.lastSite)
	assert.Equal(t, "MLC1055", list[0].ID)

	_, err = uc.Categories(context.Background(), sessionNoConn(), false)
	require.NoError(t, err)
	assert.Equal(t, "MLA", api.lastSite)
}

func TestCatalog_Cache(t *testing.T) {
	api := &fakeCatalog{}
	uc := NewCatalogUseCase(api, newQuery(), "MLC")
	s := sessionWithConn()

	_, _ = uc.Categories(context.Background(), s, false)
	_, _ = uc.Categories(context.Background(), s, false)
	assert.Equal(t, 1, api.calls)

	_, _ = uc.Categories(context.Background(), s, true)
	assert.Equal(t, 2, api.calls)
}

func TestCatalog_AtributosObligatoriosPrimero(t *testing.T) {
	uc := NewCatalogUseCase(&fakeCatalog{}, newQuery(), "MLC")
	attrs, err := uc.Attributes(context.Background(), "MLC1055", false)
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "BRAND", attrs[0].ID)
	assert.Equal(t, "COLOR", attrs[1].ID)
}

func TestCatalog_Predict(t *testing.T) {
	api := &fakeCatalog{}
	uc := NewCatalogUseCase(api, newQuery(), "MLC")
	s := sessionWithConn()

	_, err := uc.Predict(context.Background(), s, "  ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Predict(context.Background(), s, "iphone 15", 50)
	require.NoError(t, err)
	_, err = uc.Predict(context.Background(), s, "iphone 15", 50)
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)

	_, err = uc.Category(context.Background(), "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
