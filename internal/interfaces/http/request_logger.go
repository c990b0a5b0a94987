package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// HTTPRecorder métricas de la API propia. Lo implementa *metrics.Metrics.
type HTTPRecorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// RequestLogger registra cada petición con zerolog y la contabiliza por ruta.
// Resuelve el error de la cadena con el ErrorHandler de la app para conocer el estado final.
func RequestLogger(log *logger.Logger, rec HTTPRecorder) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		d := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if rec != nil {
			rec.ObserveHTTP(c.Method(), route, status, d)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		reqID, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", d).
			Str("request_id", reqID).
			Str("user_id", GetUserID(c)).
			Msg("petición atendida")
		return nil
	}
}
