package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
	"github.com/jhoicas/meli-sync-admin/pkg/secret"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL.
// El token del backend y el client_secret se guardan sellados con secret.Box.
type SessionRepo struct {
	q   Querier
	box *secret.Box
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier, box *secret.Box) *SessionRepo {
	return &SessionRepo{q: q, box: box}
}

// Create persiste una sesión nueva.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	token, err := r.box.Seal(s.BackendToken)
	if err != nil {
		return fmt.Errorf("sellar token: %w", err)
	}
	conn, err := r.connectionColumns(s.Connection)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sessions (id, user_id, email, name, role, backend_token,
			connection_id, client_id, client_secret, connection_nickname, connection_site_id,
			created_at, expires_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Email, s.Name, s.Role, token,
		conn.id, conn.clientID, conn.secret, conn.nickname, conn.siteID,
		s.CreatedAt, s.ExpiresAt, s.LastSeenAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sesión duplicada", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID. domain.ErrNotFound si no existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, user_id, email, name, role, backend_token,
			connection_id, client_id, client_secret, connection_nickname, connection_site_id,
			created_at, expires_at, last_seen_at
		FROM sessions WHERE id = $1`
	s, err := r.scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// UpdateConnection guarda la conexión seleccionada (nil la quita).
func (r *SessionRepo) UpdateConnection(ctx context.Context, id string, c *entity.Connection) error {
	conn, err := r.connectionColumns(c)
	if err != nil {
		return err
	}
	query := `
		UPDATE sessions SET connection_id = $2, client_id = $3, client_secret = $4,
			connection_nickname = $5, connection_site_id = $6, last_seen_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, conn.id, conn.clientID, conn.secret, conn.nickname, conn.siteID)
	if err != nil {
		return fmt.Errorf("update session connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Touch actualiza last_seen_at.
func (r *SessionRepo) Touch(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE sessions SET last_seen_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete elimina la sesión; no falla si ya no existe.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purga las sesiones vencidas.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

type connectionCols struct {
	id       *int64
	clientID *string
	secret   *string
	nickname *string
	siteID   *string
}

func (r *SessionRepo) connectionColumns(c *entity.Connection) (connectionCols, error) {
	if c == nil {
		return connectionCols{}, nil
	}
	sealed, err := r.box.Seal(c.ClientSecret)
	if err != nil {
		return connectionCols{}, fmt.Errorf("sellar client_secret: %w", err)
	}
	id := c.ID
	return connectionCols{
		id:       &id,
		clientID: &c.ClientID,
		secret:   &sealed,
		nickname: &c.Nickname,
		siteID:   &c.SiteID,
	}, nil
}

func (r *SessionRepo) scanSession(row pgxScanner) (*entity.Session, error) {
	var (
		s     entity.Session
		token string
		cols  connectionCols
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.Email, &s.Name, &s.Role, &token,
		&cols.id, &cols.clientID, &cols.secret, &cols.nickname, &cols.siteID,
		&s.CreatedAt, &s.ExpiresAt, &s.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	if s.BackendToken, err = r.box.Open(token); err != nil {
		return nil, fmt.Errorf("abrir token: %w", err)
	}
	if cols.clientID != nil {
		c := &entity.Connection{ClientID: *cols.clientID}
		if cols.id != nil {
			c.ID = *cols.id
		}
		if cols.nickname != nil {
			c.Nickname = *cols.nickname
		}
		if cols.siteID != nil {
			c.SiteID = *cols.siteID
		}
		if cols.secret != nil {
			if c.ClientSecret, err = r.box.Open(*cols.secret); err != nil {
				return nil, fmt.Errorf("abrir client_secret: %w", err)
			}
		}
		s.Connection = c
	}
	return &s, nil
}
