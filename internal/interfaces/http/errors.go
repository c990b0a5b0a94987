package http

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// SessionExpirer elimina una sesión que el backend rechazó. Lo implementa *auth.AuthUseCase.
type SessionExpirer interface {
	Expire(ctx context.Context, sessionID string) error
}

// requestError error de forma de la petición (cuerpo o query mal formados).
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

// ErrorHandler traduce los errores devueltos por los handlers a ErrorResponse.
// Si el backend dio la sesión por expirada, también la elimina.
func ErrorHandler(sessions SessionExpirer, log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)

		if body.Code == "SESSION_EXPIRED" && sessions != nil {
			if id := GetSessionID(c); id != "" {
				if delErr := sessions.Expire(c.UserContext(), id); delErr != nil {
					log.Warn().Err(delErr).Str("session_id", id).Msg("no se pudo eliminar la sesión expirada")
				}
			}
		}
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error atendiendo petición")
		}
		return c.Status(status).JSON(body)
	}
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		reqErr   *requestError
		fiberErr *fiber.Error
		verrs    validator.ValidationErrors
	)
	switch {
	case errors.As(err, &reqErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message}
	case errors.As(err, &verrs):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(verrs)}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: fiberCode(fiberErr.Code), Message: fiberErr.Message}
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: domain.ErrSessionExpired.Error()}
	case errors.Is(err, domain.ErrNoConnection):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "NO_CONNECTION", Message: domain.ErrNoConnection.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: domain.UserMessage(err)}
	case errors.Is(err, domain.ErrUnknownReport):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_REPORT", Message: domain.UserMessage(err)}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.UserMessage(err)}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: domain.UserMessage(err)}
	}

	if apiErr, ok := domain.AsAPIError(err); ok {
		if apiErr.Kind == domain.KindNetwork {
			return fiber.StatusBadGateway, dto.ErrorResponse{Code: "UPSTREAM_UNAVAILABLE", Message: domain.MsgNetwork}
		}
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "UPSTREAM_ERROR", Message: domain.UserMessage(apiErr)}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: domain.MsgFallback}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return strings.ToUpper(strings.ReplaceAll(utilsStatus(status), " ", "_"))
}

func utilsStatus(status int) string {
	if msg := fiber.NewError(status).Message; msg != "" {
		return msg
	}
	return "ERROR"
}
