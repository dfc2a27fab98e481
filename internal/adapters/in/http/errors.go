package http

import (
	"errors"
	"net/http"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	msgWindowClosed  = "ordering window closed"
	msgNoAgents      = "no agents available right now"
	msgTryAgain      = "someone else changed this at the same time, please try again"
	msgInternalError = "internal error"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorStatus maps a domain or application error to an HTTP status and the
// message shown to the caller. Unknown errors become 500 without details.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apartment.ErrWindowClosed):
		return http.StatusConflict, msgWindowClosed
	case errors.Is(err, apartment.ErrApartmentInactive):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrNoAgentsAvailable):
		return http.StatusServiceUnavailable, msgNoAgents
	case errors.Is(err, order.ErrCodConfirmationRequired):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, commands.ErrAgentNotBound):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict, msgTryAgain
	case errors.Is(err, order.ErrAlreadyAssigned),
		errors.Is(err, agent.ErrAgentNotEligible),
		errors.Is(err, bulkorder.ErrAlreadyJoined),
		errors.Is(err, bulkorder.ErrNotJoinable),
		errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// fail writes err as an Error body. Server errors are logged with the cause,
// which is never sent to the client.
func (s *Server) fail(c echo.Context, err error) error {
	code, msg := errorStatus(err)
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(code, Error{Code: code, Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: msg})
}
