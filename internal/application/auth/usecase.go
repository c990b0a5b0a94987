// Package auth maneja la sesión del usuario: login contra el backend, conexión de
// marketplace seleccionada y expiración. La sesión se persiste y se inyecta
// explícitamente en cada caso de uso.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
	"github.com/jhoicas/meli-sync-admin/pkg/jwt"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// JWTConfig configuración para generación de tokens propios.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de sesión.
type AuthUseCase struct {
	api        ports.AuthAPI
	sessions   repository.SessionRepository
	jwtCfg     JWTConfig
	sessionTTL time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso. sessionTTL acota la vida de la sesión persistida.
func NewAuthUseCase(api ports.AuthAPI, sessions repository.SessionRepository, jwtCfg JWTConfig, sessionTTL time.Duration, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		api:        api,
		sessions:   sessions,
		jwtCfg:     jwtCfg,
		sessionTTL: sessionTTL,
		log:        log.Component("auth"),
		now:        time.Now,
	}
}

// Login autentica en el backend, persiste la sesión y emite un JWT propio que solo referencia la sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	res, err := uc.api.Login(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			// 401/403 en el login son credenciales inválidas, no una sesión vencida.
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login: el backend no devolvió token")
	}

	now := uc.now()
	userID := res.User.ID
	if userID == "" {
		userID = email
	}
	s := &entity.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Email:        firstNonEmpty(res.User.Email, email),
		Name:         res.User.Name,
		Role:         res.User.Role,
		BackendToken: res.Token,
		CreatedAt:    now,
		ExpiresAt:    now.Add(uc.sessionTTL),
		LastSeenAt:   now,
	}
	if err := uc.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}

	expMinutes := uc.jwtCfg.ExpMinutes
	if ttl := int(uc.sessionTTL / time.Minute); ttl > 0 && (expMinutes <= 0 || ttl < expMinutes) {
		expMinutes = ttl
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, s.UserID, s.ID, s.Role, uc.jwtCfg.Issuer, expMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}

	uc.log.Info().Str("session_id", s.ID).Str("user_id", s.UserID).Msg("sesión iniciada")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(expMinutes) * time.Minute),
		Session:   ToSessionResponse(s),
	}, nil
}

// Current carga la sesión y verifica que siga vigente.
func (uc *AuthUseCase) Current(ctx context.Context, sessionID string) (*entity.Session, error) {
	s, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}
	if s.Expired(uc.now()) {
		if err := uc.sessions.Delete(ctx, s.ID); err != nil {
			uc.log.Warn().Err(err).Str("session_id", s.ID).Msg("no se pudo eliminar la sesión vencida")
		}
		return nil, domain.ErrSessionExpired
	}
	if err := uc.sessions.Touch(ctx, s.ID); err != nil {
		uc.log.Warn().Err(err).Str("session_id", s.ID).Msg("no se pudo actualizar last_seen_at")
	}
	return s, nil
}

// Connections lista las conexiones de marketplace disponibles para el usuario.
func (uc *AuthUseCase) Connections(ctx context.Context, s *entity.Session) ([]entity.Connection, error) {
	list, err := uc.api.Connections(ctx, s.BackendToken)
	if err != nil {
		return nil, uc.checkExpired(ctx, s, err)
	}
	return list, nil
}

// SelectConnection fija la conexión activa de la sesión; reemplaza la anterior.
// El client_id debe estar entre las conexiones que el backend devuelve al usuario.
func (uc *AuthUseCase) SelectConnection(ctx context.Context, s *entity.Session, clientID string) (*entity.Connection, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id es obligatorio", domain.ErrInvalidInput)
	}
	list, err := uc.Connections(ctx, s)
	if err != nil {
		return nil, err
	}
	var selected *entity.Connection
	for i := range list {
		if list[i].ClientID == clientID {
			selected = &list[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("conexión %s: %w", clientID, domain.ErrNotFound)
	}
	if err := uc.sessions.UpdateConnection(ctx, s.ID, selected); err != nil {
		return nil, fmt.Errorf("guardar conexión: %w", err)
	}
	s.Connection = selected
	uc.log.Info().Str("session_id", s.ID).Str("client_id", clientID).Msg("conexión seleccionada")
	return selected, nil
}

// Logout elimina la sesión.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Expire elimina la sesión porque el backend la rechazó (401/403).
func (uc *AuthUseCase) Expire(ctx context.Context, sessionID string) error {
	uc.log.Info().Str("session_id", sessionID).Msg("sesión expirada por el backend")
	return uc.sessions.Delete(ctx, sessionID)
}

// PurgeExpired borra las sesiones vencidas.
func (uc *AuthUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := uc.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Debug().Int64("deleted", n).Msg("sesiones vencidas purgadas")
	}
	return n, nil
}

func (uc *AuthUseCase) checkExpired(ctx context.Context, s *entity.Session, err error) error {
	if errors.Is(err, domain.ErrSessionExpired) {
		if delErr := uc.Expire(ctx, s.ID); delErr != nil {
			uc.log.Warn().Err(delErr).Str("session_id", s.ID).Msg("no se pudo eliminar la sesión")
		}
	}
	return err
}

// ToSessionResponse vista pública de la sesión.
func ToSessionResponse(s *entity.Session) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
	if s.Connection != nil {
		conn := ToConnectionResponse(*s.Connection)
		out.Connection = &conn
	}
	return out
}

// ToConnectionResponse conexión sin el client_secret.
func ToConnectionResponse(c entity.Connection) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:       c.ID,
		ClientID: c.ClientID,
		Nickname: c.Nickname,
		SiteID:   c.SiteID,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
