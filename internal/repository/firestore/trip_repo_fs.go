package firestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.TripRepository = (*TripRepository)(nil)

// tripDocument mirrors the stored layout. userSelection and tripData are read
// loosely so documents written by older clients still load.
type tripDocument struct {
	ID            string    `firestore:"id"`
	UserSelection any       `firestore:"userSelection"`
	TripData      any       `firestore:"tripData"`
	UserEmailID   string    `firestore:"userEmailID"`
	CreatedAt     time.Time `firestore:"createdAt,omitempty"`
}

type TripRepository struct {
	client     *firestore.Client
	collection string
}

func NewTripRepo(client *firestore.Client, collection string) *TripRepository {
	if collection == "" {
		collection = "Trips"
	}
	return &TripRepository{client: client, collection: collection}
}

func (r *TripRepository) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	createdAt := trip.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.client.Collection(r.collection).Doc(trip.ID).Set(ctx, map[string]any{
		"id":            trip.ID,
		"userSelection": trip.UserSelection,
		"tripData":      trip.TripData,
		"userEmailID":   trip.UserEmailID,
		"createdAt":     createdAt,
	})
	return domain.NewStorageError("save trip", err)
}

func (r *TripRepository) ListTripsForUser(ctx context.Context, email string) ([]domain.Trip, error) {
	iter := r.client.Collection(r.collection).Where("userEmailID", "==", email).Documents(ctx)
	defer iter.Stop()

	var trips []domain.Trip
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, domain.NewStorageError("list trips", err)
		}
		trip, err := decodeTrip(snap)
		if err != nil {
			return nil, domain.NewStorageError("list trips", err)
		}
		trips = append(trips, trip)
	}

	// Ids are creation timestamps; newest first without needing a composite index.
	sort.SliceStable(trips, func(i, j int) bool {
		if len(trips[i].ID) != len(trips[j].ID) {
			return len(trips[i].ID) > len(trips[j].ID)
		}
		return trips[i].ID > trips[j].ID
	})
	return trips, nil
}

func (r *TripRepository) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrTripNotFound
		}
		return nil, domain.NewStorageError("get trip", err)
	}
	trip, err := decodeTrip(snap)
	if err != nil {
		return nil, domain.NewStorageError("get trip", err)
	}
	return &trip, nil
}

func (r *TripRepository) DeleteTrip(ctx context.Context, id string) error {
	_, err := r.client.Collection(r.collection).Doc(id).Delete(ctx)
	if err != nil && isNotFound(err) {
		return nil
	}
	return domain.NewStorageError("delete trip", err)
}

func decodeTrip(snap *firestore.DocumentSnapshot) (domain.Trip, error) {
	var doc tripDocument
	if err := snap.DataTo(&doc); err != nil {
		return domain.Trip{}, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (d tripDocument) toDomain(docID string) domain.Trip {
	id := d.ID
	if id == "" {
		id = docID
	}
	plan, _ := domain.NormalizePlan(d.TripData)
	return domain.Trip{
		ID:            id,
		UserSelection: domain.SelectionFrom(d.UserSelection),
		TripData:      plan,
		UserEmailID:   d.UserEmailID,
		CreatedAt:     d.CreatedAt,
	}
}
