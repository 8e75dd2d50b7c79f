package ports

import (
	"context"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// TripRepository stores generated trips keyed by trip id. DeleteTrip of an
// unknown id succeeds; GetTrip reports domain.ErrTripNotFound.
type TripRepository interface {
	SaveTrip(ctx context.Context, trip *domain.Trip) error
	ListTripsForUser(ctx context.Context, email string) ([]domain.Trip, error)
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}
