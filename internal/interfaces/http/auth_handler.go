package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/auth"
	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
)

// AuthHandler maneja login, sesión y selección de conexión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión con las credenciales del backend
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetSessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(auth.ToSessionResponse(GetSession(c)))
}

// Connections godoc
// @Summary      Conexiones de marketplace del usuario
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ConnectionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/connections [get]
func (h *AuthHandler) Connections(c *fiber.Ctx) error {
	list, err := h.uc.Connections(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	out := make([]dto.ConnectionResponse, 0, len(list))
	for _, conn := range list {
		out = append(out, auth.ToConnectionResponse(conn))
	}
	return c.JSON(out)
}

// SelectConnection godoc
// @Summary      Seleccionar la conexión activa de la sesión
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectConnectionRequest  true  "client_id"
// @Success      200   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/session/connection [put]
func (h *AuthHandler) SelectConnection(c *fiber.Ctx) error {
	var in dto.SelectConnectionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	s := GetSession(c)
	if _, err := h.uc.SelectConnection(c.UserContext(), s, in.ClientID); err != nil {
		return err
	}
	return c.JSON(auth.ToSessionResponse(s))
}
