package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
)

var _ repository.SearchHistoryRepository = (*SearchHistoryRepo)(nil)

// SearchHistoryRepo historial de búsquedas sobre PostgreSQL. La posición conserva el orden.
type SearchHistoryRepo struct {
	pool *pgxpool.Pool
}

// NewSearchHistoryRepository construye el adaptador.
func NewSearchHistoryRepository(pool *pgxpool.Pool) *SearchHistoryRepo {
	return &SearchHistoryRepo{pool: pool}
}

// List devuelve el historial, más reciente primero.
func (r *SearchHistoryRepo) List(ctx context.Context, userID, scope string) ([]entity.SearchEntry, error) {
	return listSearches(ctx, r.pool, userID, scope)
}

// Push agrega entry al frente del historial dentro de una transacción. El advisory lock
// por usuario y vista serializa los Push concurrentes hasta el commit.
func (r *SearchHistoryRepo) Push(ctx context.Context, userID, scope string, entry entity.SearchEntry, maxItems int) ([]entity.SearchEntry, error) {
	var next []entity.SearchEntry
	err := runInTx(ctx, r.pool, func(q Querier) error {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, userID, scope); err != nil {
			return fmt.Errorf("lock search_history: %w", err)
		}
		current, err := listSearches(ctx, q, userID, scope)
		if err != nil {
			return err
		}
		next = entity.PushSearch(current, entry, maxItems)
		if err := clearSearches(ctx, q, userID, scope); err != nil {
			return err
		}
		query := `
			INSERT INTO search_history (user_id, scope, position, key, label, used_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		for i, e := range next {
			if _, err := q.Exec(ctx, query, userID, scope, i, e.Key, e.Label, e.UsedAt); err != nil {
				return fmt.Errorf("insert search_history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Clear borra el historial de la vista.
func (r *SearchHistoryRepo) Clear(ctx context.Context, userID, scope string) error {
	return clearSearches(ctx, r.pool, userID, scope)
}

func listSearches(ctx context.Context, q Querier, userID, scope string) ([]entity.SearchEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT key, label, used_at FROM search_history
		WHERE user_id = $1 AND scope = $2
		ORDER BY position`, userID, scope)
	if err != nil {
		return nil, fmt.Errorf("list search_history: %w", err)
	}
	defer rows.Close()

	out := []entity.SearchEntry{}
	for rows.Next() {
		var e entity.SearchEntry
		if err := rows.Scan(&e.Key, &e.Label, &e.UsedAt); err != nil {
			return nil, fmt.Errorf("scan search_history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func clearSearches(ctx context.Context, q Querier, userID, scope string) error {
	if _, err := q.Exec(ctx, `DELETE FROM search_history WHERE user_id = $1 AND scope = $2`, userID, scope); err != nil {
		return fmt.Errorf("clear search_history: %w", err)
	}
	return nil
}
