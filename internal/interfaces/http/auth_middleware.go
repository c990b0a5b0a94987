package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/pkg/jwt"
)

// Locals keys para la sesión y sus datos en Fiber.
const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
	LocalRole      = "role"
	LocalSession   = "session"
)

// SessionLoader carga una sesión vigente por id. Lo implementa *auth.AuthUseCase.
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer Token JWT, carga la sesión persistida y la deja en c.Locals.
// El rol efectivo es el de la sesión; el del token solo se usa si la sesión no lo trae.
func AuthMiddleware(jwtSecret string, sessions SessionLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		s, err := sessions.Current(c.UserContext(), claims.SessionID)
		if err != nil {
			return err
		}
		role := s.Role
		if role == "" {
			role = claims.Role
		}
		c.Locals(LocalUserID, s.UserID)
		c.Locals(LocalSessionID, s.ID)
		c.Locals(LocalRole, role)
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol de la sesión está entre los indicados.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "la sesión no tiene rol asignado"})
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "su rol no tiene acceso a este recurso"})
	}
}

// RequireConnection exige una conexión de marketplace seleccionada en la sesión.
func RequireConnection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil || !s.HasConnection() {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_CONNECTION", Message: "seleccione una conexión de marketplace"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetSessionID devuelve el id de la sesión.
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetRole devuelve el rol efectivo de la sesión.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetSession devuelve la sesión cargada por AuthMiddleware, o nil.
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}
