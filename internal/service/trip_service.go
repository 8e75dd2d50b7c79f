package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/calendar"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

type TripServiceConfig struct {
	ShareBucket string
}

type ShareResult struct {
	Message     string `json:"message"`
	CalendarURL string `json:"calendar_url,omitempty"`
}

type TripService struct {
	trips   ports.TripRepository
	storage ports.ObjectStorage
	bucket  string
	logger  *zap.Logger
	now     func() time.Time
}

// NewTripService builds the trip management service. storage may be nil, in
// which case shares carry only the text message.
func NewTripService(trips ports.TripRepository, storage ports.ObjectStorage, cfg TripServiceConfig, logger *zap.Logger) *TripService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripService{
		trips:   trips,
		storage: storage,
		bucket:  cfg.ShareBucket,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *TripService) List(ctx context.Context, user *domain.User) ([]domain.Trip, error) {
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("%w: sign in to view trips", domain.ErrAuth)
	}
	trips, err := s.trips.ListTripsForUser(ctx, user.Email)
	if err != nil {
		return nil, asStorageError("list trips", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Get returns a trip owned by user. Trips of other users are reported as not found.
func (s *TripService) Get(ctx context.Context, user *domain.User, id string) (*domain.Trip, error) {
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("%w: sign in to view trips", domain.ErrAuth)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: trip id is required", domain.ErrValidation)
	}
	trip, err := s.trips.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			return nil, err
		}
		return nil, asStorageError("get trip", err)
	}
	if !trip.OwnedBy(user.Email) {
		return nil, domain.ErrTripNotFound
	}
	return trip, nil
}

// Delete removes a trip after the caller confirmed. Deleting a missing trip,
// or one owned by someone else, changes nothing and succeeds.
func (s *TripService) Delete(ctx context.Context, user *domain.User, id string, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: deleting a trip must be confirmed", domain.ErrValidation)
	}
	trip, err := s.Get(ctx, user, id)
	if errors.Is(err, domain.ErrTripNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.trips.DeleteTrip(ctx, trip.ID); err != nil {
		return asStorageError("delete trip", err)
	}
	s.logger.Info("trip deleted", zap.String("trip_id", trip.ID), zap.String("email", user.Email))
	return nil
}

func (s *TripService) Share(ctx context.Context, user *domain.User, id string) (*ShareResult, error) {
	trip, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	result := &ShareResult{Message: domain.ShareMessage(trip)}
	if s.storage == nil || s.bucket == "" || len(trip.TripData.Itinerary) == 0 {
		return result, nil
	}

	ics := []byte(calendar.Export(trip, s.now()))
	objectName := fmt.Sprintf("trips/%s/%s.ics", trip.ID, uuid.NewString())
	url, err := s.storage.Upload(ctx, s.bucket, objectName, calendar.ContentType, bytes.NewReader(ics), int64(len(ics)))
	if err != nil {
		s.logger.Warn("share calendar upload failed", zap.String("trip_id", trip.ID), zap.Error(err))
		return result, nil
	}
	result.CalendarURL = url
	result.Message += "\n\nCalendar: " + url
	return result, nil
}

func (s *TripService) Calendar(ctx context.Context, user *domain.User, id string) ([]byte, error) {
	trip, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return []byte(calendar.Export(trip, s.now())), nil
}
