package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
)

var _ repository.ExportLogRepository = (*ExportLogRepo)(nil)

// ExportLogRepo registro de exportaciones sobre PostgreSQL.
type ExportLogRepo struct {
	q Querier
}

// NewExportLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExportLogRepository(q Querier) *ExportLogRepo {
	return &ExportLogRepo{q: q}
}

// Create persiste una exportación.
func (r *ExportLogRepo) Create(ctx context.Context, l *entity.ExportLog) error {
	query := `
		INSERT INTO export_logs (id, user_id, client_id, report, format, rows, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.UserID, l.ClientID, l.Report, l.Format, l.Rows, l.TotalAmount, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert export_log: %w", err)
	}
	return nil
}

// ListByUser lista las exportaciones del usuario, más recientes primero.
func (r *ExportLogRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.ExportLog, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, client_id, report, format, rows, total_amount, created_at
		FROM export_logs WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list export_logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.ExportLog
	for rows.Next() {
		l, err := scanExportLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan export_log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanExportLog(row pgxScanner) (*entity.ExportLog, error) {
	var l entity.ExportLog
	err := row.Scan(&l.ID, &l.UserID, &l.ClientID, &l.Report, &l.Format, &l.Rows, &l.TotalAmount, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
