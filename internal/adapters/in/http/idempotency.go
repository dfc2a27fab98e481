package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader carries the client's key for a mutating request.
const IdempotencyKeyHeader = "Idempotency-Key"

// KeyClaimer remembers idempotency keys. Claim returns false when the key was
// already used within its lifetime.
type KeyClaimer interface {
	Claim(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Idempotency rejects a repeated Idempotency-Key on the same method and path
// with 409. Requests without the header pass through. A request that ends
// with a 4xx or 5xx status frees its key so the client may retry it.
func Idempotency(store KeyClaimer, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "idempotency")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
			if key == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			scope := c.Request().Method + " " + c.Request().URL.Path
			claimed, err := store.Claim(ctx, scope, key)
			if err != nil {
				logger.ErrorContext(ctx, "claim idempotency key", "scope", scope, "error", err)
				return c.JSON(http.StatusServiceUnavailable, Error{
					Code:    http.StatusServiceUnavailable,
					Message: "cannot verify Idempotency-Key right now, please retry",
				})
			}
			if !claimed {
				return c.JSON(http.StatusConflict, Error{
					Code:    http.StatusConflict,
					Message: "a request with this Idempotency-Key was already processed",
				})
			}

			err = next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				if relErr := store.Release(ctx, scope, key); relErr != nil {
					logger.WarnContext(ctx, "release idempotency key", "scope", scope, "error", relErr)
				}
			}
			return err
		}
	}
}
