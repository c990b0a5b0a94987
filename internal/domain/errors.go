package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrSessionExpired = errors.New("la sesión expiró, inicie sesión nuevamente")
	ErrNoConnection   = errors.New("no hay una conexión de marketplace seleccionada")
	ErrUnknownReport  = errors.New("reporte desconocido")
)

// APIErrorKind clasifica los fallos de un servicio externo.
type APIErrorKind string

const (
	KindNetwork        APIErrorKind = "network"         // sin respuesta: DNS, conexión, timeout
	KindSessionExpired APIErrorKind = "session_expired" // HTTP 401/403
	KindNotFound       APIErrorKind = "not_found"       // HTTP 404
	KindUpstream       APIErrorKind = "upstream"        // cualquier otro 4xx/5xx
)

// Mensajes por defecto cuando el servicio externo no entrega uno propio.
const (
	MsgNetwork  = "no se pudo conectar con el servidor"
	MsgFallback = "ocurrió un error inesperado, intente nuevamente"
)

// APIError error de un servicio externo (backend proxy o API pública del marketplace).
// Message es apto para mostrarse al usuario.
type APIError struct {
	Kind    APIErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrSessionExpired) / ErrNotFound sobre errores tipados.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.Kind == KindSessionExpired
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// AsAPIError extrae el *APIError de la cadena, si existe.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage devuelve un texto legible para el usuario a partir de cualquier error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNoConnection),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownReport),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized):
		return rootSentinel(err).Error()
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	}
	return MsgFallback
}

func rootSentinel(err error) error {
	for _, s := range []error{ErrSessionExpired, ErrNoConnection, ErrNotFound, ErrUnknownReport, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, s) {
			return s
		}
	}
	return err
}
