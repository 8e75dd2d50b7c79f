package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/places"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

type PlaceSearcher interface {
	Autocomplete(ctx context.Context, query string) ([]places.Suggestion, error)
}

var _ PlaceSearcher = (*places.Client)(nil)

func RegisterPlaces(e *echo.Echo, auth Authenticator, searcher PlaceSearcher) {
	e.GET("/api/v1/places/autocomplete", func(c echo.Context) error {
		suggestions, err := searcher.Autocomplete(c.Request().Context(), c.QueryParam("q"))
		if errors.Is(err, domain.ErrPlacesNotConfigured) {
			return writeError(c, err, "")
		}
		if err != nil {
			requestLogger(c).Error("place autocomplete failed", zap.Error(err))
			return c.JSON(http.StatusBadGateway, util.Error("place search is unavailable"))
		}
		if suggestions == nil {
			suggestions = []places.Suggestion{}
		}
		return c.JSON(http.StatusOK, echo.Map{"suggestions": suggestions})
	}, RequireAuth(auth))
}
