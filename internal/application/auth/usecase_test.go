package auth

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/pkg/jwt"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeAuthAPI struct {
	loginErr    error
	connections []entity.Connection
	connErr     error
	lastToken   string
}

func (f *fakeAuthAPI) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &ports.LoginResult{
		Token: "backend-token",
		User:  entity.User{ID: "7", Email: email, Name: "Ana", Role: entity.RoleOperator},
	}, nil
}

func (f *fakeAuthAPI) Connections(_ context.Context, token string) ([]entity.Connection, error) {
	f.lastToken = token
	return f.connections, f.connErr
}

type memSessions struct {
	mu        sync.Mutex
	data      map[string]entity.Session
	deleteErr error
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]entity.Session{}} }

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) UpdateConnection(_ context.Context, id string, c *entity.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Connection = c
	m.data[id] = s
	return nil
}

func (m *memSessions) Touch(_ context.Context, id string) error { return nil }

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, id)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.data {
		if s.Expired(time.Now()) {
			delete(m.data, id)
			n++
		}
	}
	return n, nil
}

const testSecret = "test-secret-key-for-unit-tests"

func newUC(api *fakeAuthAPI, repo *memSessions) *AuthUseCase {
	return NewAuthUseCase(api, repo, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, 8*time.Hour, nil)
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestLogin_CreaSesionYToken(t *testing.T) {
	repo := newMemSessions()
	uc := newUC(&fakeAuthAPI{}, repo)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Session.ID, claims.SessionID)
	assert.Equal(t, entity.RoleOperator, claims.Role)

	stored, err := repo.GetByID(context.Background(), out.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", stored.BackendToken)
	assert.Nil(t, stored.Connection)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	api := &fakeAuthAPI{loginErr: &domain.APIError{Kind: domain.KindSessionExpired, Status: 401}}
	uc := newUC(api, newMemSessions())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_SinPassword(t *testing.T) {
	uc := newUC(&fakeAuthAPI{}, newMemSessions())
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrent_Expirada(t *testing.T) {
	repo := newMemSessions()
	uc := newUC(&fakeAuthAPI{}, repo)
	past := time.Now().Add(-time.Minute)
	_ = repo.Create(context.Background(), &entity.Session{ID: "s1", ExpiresAt: past})

	_, err := uc.Current(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	_, err = repo.GetByID(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "la sesión vencida se elimina")
}

func TestCurrent_ExpiradaFallaAlBorrarSeRegistra(t *testing.T) {
	repo := newMemSessions()
	repo.deleteErr = errors.New("conexión cerrada")
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Output: &buf})
	uc := NewAuthUseCase(&fakeAuthAPI{}, repo, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, 8*time.Hour, log)
	_ = repo.Create(context.Background(), &entity.Session{ID: "s2", ExpiresAt: time.Now().Add(-time.Minute)})

	_, err := uc.Current(context.Background(), "s2")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Contains(t, buf.String(), "no se pudo eliminar la sesión vencida")
	assert.Contains(t, buf.String(), "conexión cerrada")
	assert.Contains(t, buf.String(), `"session_id":"s2"`)
}

func TestCurrent_Inexistente(t *testing.T) {
	uc := newUC(&fakeAuthAPI{}, newMemSessions())
	_, err := uc.Current(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSelectConnection(t *testing.T) {
	repo := newMemSessions()
	api := &fakeAuthAPI{connections: []entity.Connection{
		{ID: 1, ClientID: "111", Nickname: "TIENDA-A"},
		{ID: 2, ClientID: "222", Nickname: "TIENDA-B"},
	}}
	uc := newUC(api, repo)
	s := &entity.Session{ID: "s1", BackendToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	_ = repo.Create(context.Background(), s)

	conn, err := uc.SelectConnection(context.Background(), s, "222")
	require.NoError(t, err)
	assert.Equal(t, "TIENDA-B", conn.Nickname)
	assert.Equal(t, "tok", api.lastToken)

	stored, _ := repo.GetByID(context.Background(), "s1")
	assert.Equal(t, "222", stored.ClientID())

	// Seleccionar otra reemplaza la anterior.
	_, err = uc.SelectConnection(context.Background(), s, "111")
	require.NoError(t, err)
	stored, _ = repo.GetByID(context.Background(), "s1")
	assert.Equal(t, "111", stored.ClientID())

	_, err = uc.SelectConnection(context.Background(), s, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnections_SesionExpiradaEnBackend(t *testing.T) {
	repo := newMemSessions()
	api := &fakeAuthAPI{connErr: &domain.APIError{Kind: domain.KindSessionExpired, Status: 401}}
	uc := newUC(api, repo)
	s := &entity.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	_ = repo.Create(context.Background(), s)

	_, err := uc.Connections(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	_, err = repo.GetByID(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurgeExpired(t *testing.T) {
	repo := newMemSessions()
	uc := newUC(&fakeAuthAPI{}, repo)
	_ = repo.Create(context.Background(), &entity.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Hour)})
	_ = repo.Create(context.Background(), &entity.Session{ID: "new", ExpiresAt: time.Now().Add(time.Hour)})

	n, err := uc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
