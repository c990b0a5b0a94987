package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
)

func TestParsePeriod(t *testing.T) {
	now := fixedClock()

	r, err := parsePeriod("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, now, r.To)

	r, err = parsePeriod("2026-09-01", "2026-09-30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC), r.To)

	_, err = parsePeriod("2026-10-05", "2026-10-01", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = parsePeriod("ayer", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, page := paginate(items, dto.PageRequest{Limit: 2, Offset: 2})
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, 5, page.Total)

	got, _ = paginate(items, dto.PageRequest{Limit: 2, Offset: 10})
	assert.Empty(t, got)

	got, page = paginate(items, dto.PageRequest{})
	assert.Len(t, got, 5)
	assert.Equal(t, 20, page.Limit)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Octubre 2026", monthLabel(fixedClock()))
}
