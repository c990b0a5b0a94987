package entity

import (
	"strings"
	"time"
)

// SearchEntry búsqueda reciente de un usuario en una vista (scope).
type SearchEntry struct {
	Key    string    `json:"key"`
	Label  string    `json:"label"`
	UsedAt time.Time `json:"used_at"`
}

// NormalizedKey clave de deduplicación: sin espacios extremos y en minúsculas.
func (e SearchEntry) NormalizedKey() string {
	return strings.ToLower(strings.TrimSpace(e.Key))
}

// PushSearch agrega entry al frente del historial, elimina entradas con la misma clave
// y recorta a maxItems. No modifica el slice recibido.
func PushSearch(history []SearchEntry, entry SearchEntry, maxItems int) []SearchEntry {
	if maxItems <= 0 {
		return []SearchEntry{}
	}
	key := entry.NormalizedKey()
	out := make([]SearchEntry, 0, maxItems)
	out = append(out, entry)
	for _, h := range history {
		if len(out) == maxItems {
			break
		}
		if h.NormalizedKey() == key {
			continue
		}
		out = append(out, h)
	}
	return out
}
