package repository

import (
	"context"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// ExportLogRepository registro de reportes exportados.
type ExportLogRepository interface {
	Create(ctx context.Context, log *entity.ExportLog) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.ExportLog, error)
}
