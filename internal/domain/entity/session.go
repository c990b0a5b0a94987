package entity

import "time"

// Roles conocidos del backend.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
	RoleViewer   = "lector"
)

// Session estado de un usuario autenticado: token del backend y conexión seleccionada.
// Reemplaza el par token/conexión que antes vivía en el almacenamiento del navegador.
type Session struct {
	ID           string
	UserID       string
	Email        string
	Name         string
	Role         string
	BackendToken string
	Connection   *Connection
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastSeenAt   time.Time
}

// Expired indica si la sesión venció en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// HasConnection indica si hay una conexión seleccionada.
func (s *Session) HasConnection() bool {
	return s.Connection != nil && s.Connection.ClientID != ""
}

// ClientID devuelve el client_id de la conexión seleccionada o "".
func (s *Session) ClientID() string {
	if !s.HasConnection() {
		return ""
	}
	return s.Connection.ClientID
}
