package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/calendar"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

type TripGenerator interface {
	Generate(ctx context.Context, user *domain.User, req domain.TripRequest, observe service.GenerationObserver) (*service.GenerationResult, error)
}

type TripManager interface {
	List(ctx context.Context, user *domain.User) ([]domain.Trip, error)
	Get(ctx context.Context, user *domain.User, id string) (*domain.Trip, error)
	Delete(ctx context.Context, user *domain.User, id string, confirmed bool) error
	Share(ctx context.Context, user *domain.User, id string) (*service.ShareResult, error)
	Calendar(ctx context.Context, user *domain.User, id string) ([]byte, error)
}

var (
	_ TripGenerator = (*service.GenerationService)(nil)
	_ TripManager   = (*service.TripService)(nil)
)

type TripHandler struct {
	generator TripGenerator
	trips     TripManager
}

func RegisterTrips(e *echo.Echo, auth Authenticator, generator TripGenerator, trips TripManager) {
	h := &TripHandler{generator: generator, trips: trips}

	g := e.Group(service.TripsPath, RequireAuth(auth))
	g.POST("/generate", h.generate)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/share", h.share)
	g.GET("/:id/calendar.ics", h.calendar)
}

func (h *TripHandler) generate(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req GenerateTripRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	res, err := h.generator.Generate(c.Request().Context(), user, req.toDomain(), nil)
	if err != nil {
		return writeError(c, err, "failed to save trip")
	}
	return c.JSON(http.StatusCreated, GenerateTripResponse{Trip: *res.Trip, Next: res.Next})
}

func (h *TripHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	trips, err := h.trips.List(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err, "failed to load trips")
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return c.JSON(http.StatusOK, TripsListResponse{Trips: trips})
}

func (h *TripHandler) get(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	trip, err := h.trips.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to load trip")
	}
	return c.JSON(http.StatusOK, TripResponse{Trip: *trip})
}

// delete requires ?confirm=true. Deleting a trip that is already gone succeeds.
func (h *TripHandler) delete(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	if err := h.trips.Delete(c.Request().Context(), user, c.Param("id"), confirmed); err != nil {
		return writeError(c, err, "failed to delete trip")
	}
	return c.JSON(http.StatusOK, util.Success())
}

func (h *TripHandler) share(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.trips.Share(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to share trip")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TripHandler) calendar(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")
	ics, err := h.trips.Calendar(c.Request().Context(), user, id)
	if err != nil {
		return writeError(c, err, "failed to export trip")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "trip-"+id+".ics"))
	return c.Blob(http.StatusOK, calendar.ContentType, ics)
}
