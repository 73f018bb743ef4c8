package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/labstack/echo/v4"
)

const msgServerError = "Server error"

var statusByKind = []struct {
	kind   error
	status int
}{
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrConflict, http.StatusBadRequest},
	{common.ErrDecryption, http.StatusBadRequest},
	{common.ErrExportDisabled, http.StatusBadRequest},
	{common.ErrSessionExpired, http.StatusUnauthorized},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrForbidden, http.StatusForbidden},
	{common.ErrorNotFound, http.StatusNotFound},
}

// statusFor maps a service error to a status code and a client message.
// Unknown errors become a 500 with a generic message.
func statusFor(err error) (int, string) {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			var ce *common.Error
			if errors.As(err, &ce) {
				return m.status, ce.Message
			}
			return m.status, err.Error()
		}
	}
	return http.StatusInternalServerError, msgServerError
}

func (s *RESTServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var status int
	var message string

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = fmt.Sprint(he.Message)
		}
	} else {
		status, message = statusFor(err)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		message = msgServerError
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, messageResponse{Success: false, Message: message})
	}
	if writeErr != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", writeErr)
	}
}
