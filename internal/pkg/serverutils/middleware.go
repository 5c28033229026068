// FILE: internal/pkg/serverutils/middleware.go
package serverutils

import (
	"errors"
	"log"
	"time"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into JSON
// responses. Sentinel errors from the service layer pick the status code;
// anything unrecognized becomes a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		switch {
		case errors.Is(err, constant.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, constant.ErrInvalidInput):
			code = fiber.StatusBadRequest
		case errors.Is(err, constant.ErrConflict):
			code = fiber.StatusConflict
		}

		if code == fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// RequestLoggerMiddleware emits one structured log line per request.
// Register it outside ErrorHandlerMiddleware so the status code it sees
// is the one the client got.
func RequestLoggerMiddleware(sysLogger logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		sysLogger.Info("http", "request completed", map[string]interface{}{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": ctx.Locals("requestid"),
		})
		return err
	}
}

// ApiKeyMiddleware guards the API with a static key carried in the
// X-Api-Key header or the api_key query parameter. An empty configured
// key disables the check.
func ApiKeyMiddleware(key string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if key == "" {
			return ctx.Next()
		}
		provided := ctx.Get("X-Api-Key")
		if provided == "" {
			provided = ctx.Query("api_key")
		}
		if provided != key {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid API key"))
		}
		return ctx.Next()
	}
}
