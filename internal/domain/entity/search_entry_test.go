package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func keys(h []SearchEntry) []string {
	out := make([]string, len(h))
	for i, e := range h {
		out[i] = e.Key
	}
	return out
}

func TestPushSearch_MasRecientePrimero(t *testing.T) {
	var h []SearchEntry
	h = PushSearch(h, SearchEntry{Key: "a"}, 5)
	h = PushSearch(h, SearchEntry{Key: "b"}, 5)
	h = PushSearch(h, SearchEntry{Key: "c"}, 5)

	assert.Equal(t, []string{"c", "b", "a"}, keys(h))
}

func TestPushSearch_Deduplica(t *testing.T) {
	h := []SearchEntry{{Key: "zapatillas"}, {Key: "polera"}, {Key: "gorro"}}
	h = PushSearch(h, SearchEntry{Key: "  Polera "}, 5)

	assert.Equal(t, []string{"  Polera ", "zapatillas", "gorro"}, keys(h))
}

func TestPushSearch_RespetaMaximo(t *testing.T) {
	var h []SearchEntry
	for i := 0; i < 25; i++ {
		h = PushSearch(h, SearchEntry{Key: fmt.Sprintf("k%d", i%7), UsedAt: time.Unix(int64(i), 0)}, 4)
		assert.LessOrEqual(t, len(h), 4)

		seen := map[string]bool{}
		for _, e := range h {
			assert.False(t, seen[e.NormalizedKey()], "clave duplicada %s", e.Key)
			seen[e.NormalizedKey()] = true
		}
	}
	assert.Equal(t, []string{"k3", "k2", "k1", "k0"}, keys(h))
}

func TestPushSearch_NoModificaEntrada(t *testing.T) {
	h := []SearchEntry{{Key: "a"}, {Key: "b"}}
	_ = PushSearch(h, SearchEntry{Key: "c"}, 2)
	assert.Equal(t, []string{"a", "b"}, keys(h))
}

func TestPushSearch_MaximoCero(t *testing.T) {
	assert.Empty(t, PushSearch([]SearchEntry{{Key: "a"}}, SearchEntry{Key: "b"}, 0))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
	assert.False(t, (&Session{}).Expired(now))
}

func TestStockRecord_Available(t *testing.T) {
	assert.Equal(t, 7, StockRecord{Quantity: 10, Reserved: 3}.Available())
	assert.Equal(t, 0, StockRecord{Quantity: 1, Reserved: 3}.Available())
}
