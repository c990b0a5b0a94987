package dto

import "time"

// LoginRequest credenciales del backend.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token propio del servicio + datos de la sesión.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}

// SessionResponse vista pública de la sesión (sin token del backend ni client_secret).
type SessionResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Email      string              `json:"email"`
	Name       string              `json:"name"`
	Role       string              `json:"role"`
	Connection *ConnectionResponse `json:"connection,omitempty"`
	ExpiresAt  time.Time           `json:"expires_at"`
}

// ConnectionResponse conexión de marketplace sin el secreto.
type ConnectionResponse struct {
	ID       int64  `json:"id"`
	ClientID string `json:"client_id"`
	Nickname string `json:"nickname"`
	SiteID   string `json:"site_id"`
}

// SelectConnectionRequest entrada de PUT /api/session/connection.
type SelectConnectionRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

// CreateUserRequest alta de usuario administrativo en el backend.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin operador lector"`
}

// UpdateUserRequest modificación parcial de usuario.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin operador lector"`
	Active   *bool   `json:"active"`
}
