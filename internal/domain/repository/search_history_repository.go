package repository

import (
	"context"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// SearchHistoryRepository guarda el historial de búsquedas por usuario y vista.
// Push lee, agrega y reescribe el historial de forma atómica: dos Push concurrentes
// sobre el mismo usuario y vista no se pisan. El orden guardado es el que devuelve List.
type SearchHistoryRepository interface {
	List(ctx context.Context, userID, scope string) ([]entity.SearchEntry, error)
	Push(ctx context.Context, userID, scope string, entry entity.SearchEntry, maxItems int) ([]entity.SearchEntry, error)
	Clear(ctx context.Context, userID, scope string) error
}
