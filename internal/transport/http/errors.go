package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

// writeError answers with the status and message of err's class. storageMsg
// names the failed operation when the error is a storage failure.
func writeError(c echo.Context, err error, storageMsg string) error {
	status, msg := classifyError(err, storageMsg)
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error("request failed",
			zap.String("route", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	return c.JSON(status, util.Error(msg))
}

func classifyError(err error, storageMsg string) (int, string) {
	detail := err
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		detail = genErr.Err
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, detail.Error()
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, "authentication failed, please sign in again"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, detail.Error()
	case errors.Is(err, domain.ErrGenerationInProgress):
		return http.StatusConflict, domain.ErrGenerationInProgress.Error()
	case errors.Is(err, domain.ErrDataFormat):
		return http.StatusUnprocessableEntity, "the trip plan came back in an unexpected format, please try again"
	case errors.Is(err, domain.ErrService):
		return http.StatusBadGateway, "failed to generate trip"
	case errors.Is(err, domain.ErrTripNotFound):
		return http.StatusNotFound, "trip not found"
	case errors.Is(err, domain.ErrPlacesNotConfigured):
		return http.StatusServiceUnavailable, domain.ErrPlacesNotConfigured.Error()
	case errors.Is(err, domain.ErrStorage):
		if storageMsg == "" {
			storageMsg = "storage operation failed"
		}
		return http.StatusInternalServerError, storageMsg
	default:
		return http.StatusInternalServerError, "unexpected error"
	}
}
