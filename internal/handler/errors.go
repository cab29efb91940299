package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"life-tasks/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// statusFor maps service errors to an HTTP status and the message shown to the client.
func statusFor(err error) (int, string) {
	var verr *service.ValidationError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.As(err, &herr):
		if msg, ok := bindMessage(herr.Internal); ok {
			return http.StatusBadRequest, msg
		}
		return herr.Code, fmt.Sprint(herr.Message)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// bindMessage rewrites request body decoding failures for the client.
func bindMessage(err error) (string, bool) {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	var parse *time.ParseError
	switch {
	case err == nil:
		return "", false
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return "invalid request body: malformed JSON", true
	case errors.As(err, &typ):
		if typ.Field == "" {
			return "invalid request body: unexpected " + typ.Value, true
		}
		return fmt.Sprintf("invalid request body: %s has the wrong type", typ.Field), true
	case errors.As(err, &parse):
		return "invalid request body: timestamps must be RFC 3339", true
	default:
		return "", false
	}
}

func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorBody{Error: msg})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
