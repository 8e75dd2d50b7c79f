package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// RegisterOptions exposes the preset budgets and traveler groups the trip
// form offers, plus the featured destinations. It is public so clients can
// render the home screen and form before sign-in.
func RegisterOptions(e *echo.Echo) {
	e.GET("/api/v1/options", func(c echo.Context) error {
		return c.JSON(http.StatusOK, OptionsResponse{
			Budgets:             domain.BudgetOptions,
			Travelers:           domain.TravelerOptions,
			DefaultDays:         domain.DefaultTripDays,
			PopularDestinations: domain.PopularDestinations,
		})
	})
}
