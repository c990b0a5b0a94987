package repository

import (
	"context"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para Session (DIP).
// Las implementaciones reciben y devuelven secretos ya abiertos; el sellado es asunto del adaptador.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	UpdateConnection(ctx context.Context, id string, conn *entity.Connection) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
