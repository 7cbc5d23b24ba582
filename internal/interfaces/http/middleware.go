package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

// localError clave de Locals donde writeError deja el error interno para el log de acceso.
const localError = "internal_error"

// RequestObserver recibe una observación por petición (métricas).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger log de acceso con zerolog: "incoming" en debug y "completed" al terminar.
// 5xx se registran como error con la causa.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		log.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("incoming")
		err := c.Next()
		if err != nil {
			// El error handler de la app escribe el status; se invoca aquí para registrarlo.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
			if cause, ok := c.Locals(localError).(error); ok {
				ev = ev.Err(cause)
			} else if err != nil {
				ev = ev.Err(err)
			}
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Interface("request_id", c.Locals("requestid")).
			Msg("completed")
		return nil
	}
}

// Metrics observa método, ruta (patrón) y status de cada petición.
func Metrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var ferr *fiber.Error
			if errors.As(err, &ferr) {
				status = ferr.Code
			}
		}
		obs.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
