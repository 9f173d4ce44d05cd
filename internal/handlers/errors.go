package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorHandler is installed as echo's HTTPErrorHandler and renders every
// error, including echo's own routing errors, as an ErrorResponse.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var httpErr *echo.HTTPError
	if appErr, ok := apperror.As(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
		if appErr.Kind == apperror.KindInternal {
			logInternal(c, appErr.Err)
		}
	} else if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	} else {
		logInternal(c, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Success: false, StatusCode: status, Message: message})
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}

func logInternal(c echo.Context, err error) {
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
}

// storageError translates repository sentinels into client errors.
// An empty message leaves the corresponding sentinel as an internal error.
func storageError(err error, notFound, duplicate string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound) && notFound != "":
		return apperror.NotFound(notFound)
	case errors.Is(err, repositories.ErrDuplicate) && duplicate != "":
		return apperror.Conflict(duplicate)
	default:
		return apperror.Internal(err)
	}
}
