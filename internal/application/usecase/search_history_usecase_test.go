package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
)

func TestSearchHistory_OrdenDedupYTope(t *testing.T) {
	uc := NewSearchHistoryUseCase(newMemHistory(), 3)
	s := sessionWithConn()
	ctx := context.Background()

	for _, k := range []string{"polera", "pantalón", "gorro", "POLERA ", "zapatilla"} {
		_, err := uc.Record(ctx, s, "products", dto.RecordSearchRequest{Key: k})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, s, "products")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "zapatilla", list[0].Key)
	assert.Equal(t, "POLERA", list[1].Key)
	assert.Equal(t, "gorro", list[2].Key)
}

func TestSearchHistory_NuncaSuperaElMaximo(t *testing.T) {
	uc := NewSearchHistoryUseCase(newMemHistory(), 0)
	s := sessionWithConn()
	for i := 0; i < 25; i++ {
		list, err := uc.Record(context.Background(), s, "stock", dto.RecordSearchRequest{Key: fmt.Sprintf("sku-%d", i)})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), DefaultSearchHistoryMax)
		assert.Equal(t, fmt.Sprintf("sku-%d", i), list[0].Key)
	}
}

func TestSearchHistory_PorVista(t *testing.T) {
	uc := NewSearchHistoryUseCase(newMemHistory(), 5)
	s := sessionWithConn()
	ctx := context.Background()
	_, _ = uc.Record(ctx, s, "products", dto.RecordSearchRequest{Key: "a"})
	_, _ = uc.Record(ctx, s, "sales", dto.RecordSearchRequest{Key: "b"})

	list, _ := uc.List(ctx, s, "products")
	assert.Len(t, list, 1)

	require.NoError(t, uc.Clear(ctx, s, "products"))
	list, _ = uc.List(ctx, s, "products")
	assert.Empty(t, list)
	list, _ = uc.List(ctx, s, "sales")
	assert.Len(t, list, 1)
}

func TestSearchHistory_Validaciones(t *testing.T) {
	uc := NewSearchHistoryUseCase(newMemHistory(), 5)
	s := sessionWithConn()

	_, err := uc.Record(context.Background(), s, "products", dto.RecordSearchRequest{Key: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(context.Background(), s, "../otra")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchHistory_RegistrosConcurrentesNoSePierden(t *testing.T) {
	repo := newMemHistory()
	repo.pushDelay = 20 * time.Millisecond
	uc := NewSearchHistoryUseCase(repo, 10)
	s := sessionWithConn()
	ctx := context.Background()

	keys := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	errs := make(chan error, len(keys))
	for _, k := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, err := uc.Record(ctx, s, "products", dto.RecordSearchRequest{Key: key})
			errs <- err
		}(k)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, s, "products")
	require.NoError(t, err)
	require.Len(t, list, len(keys))
	got := make([]string, 0, len(list))
	for _, e := range list {
		got = append(got, e.Key)
	}
	assert.ElementsMatch(t, keys, got)
}
