package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.TripRepository = (*TripRepository)(nil)

type TripRepository struct {
	db    *sqlx.DB
	table string
}

type tripRow struct {
	ID            string    `db:"id"`
	UserEmail     string    `db:"user_email"`
	UserSelection []byte    `db:"user_selection"`
	TripData      []byte    `db:"trip_data"`
	CreatedAt     time.Time `db:"created_at"`
}

func NewTripRepo(db *sqlx.DB, table string) *TripRepository {
	if table == "" {
		table = Tables{}.withDefaults().Trips
	}
	return &TripRepository{db: db, table: pq.QuoteIdentifier(table)}
}

func (r *TripRepository) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	selection, err := json.Marshal(trip.UserSelection)
	if err != nil {
		return domain.NewStorageError("save trip", err)
	}
	plan, err := json.Marshal(trip.TripData)
	if err != nil {
		return domain.NewStorageError("save trip", err)
	}
	createdAt := trip.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_email, user_selection, trip_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			user_email = EXCLUDED.user_email,
			user_selection = EXCLUDED.user_selection,
			trip_data = EXCLUDED.trip_data
	`, r.table)
	_, err = r.db.ExecContext(ctx, query, trip.ID, trip.UserEmailID, selection, plan, createdAt)
	return domain.NewStorageError("save trip", err)
}

func (r *TripRepository) ListTripsForUser(ctx context.Context, email string) ([]domain.Trip, error) {
	query := fmt.Sprintf(`
		SELECT id, user_email, user_selection, trip_data, created_at
		FROM %s
		WHERE user_email = $1
		ORDER BY created_at DESC, id DESC
	`, r.table)

	var rows []tripRow
	if err := r.db.SelectContext(ctx, &rows, query, email); err != nil {
		return nil, domain.NewStorageError("list trips", err)
	}
	trips := make([]domain.Trip, 0, len(rows))
	for _, row := range rows {
		trip, err := row.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("list trips", err)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func (r *TripRepository) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	query := fmt.Sprintf(`
		SELECT id, user_email, user_selection, trip_data, created_at
		FROM %s
		WHERE id = $1
	`, r.table)

	var row tripRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, domain.NewStorageError("get trip", err)
	}
	trip, err := row.toDomain()
	if err != nil {
		return nil, domain.NewStorageError("get trip", err)
	}
	return &trip, nil
}

func (r *TripRepository) DeleteTrip(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return domain.NewStorageError("delete trip", err)
}

func (row tripRow) toDomain() (domain.Trip, error) {
	trip := domain.Trip{
		ID:          row.ID,
		UserEmailID: row.UserEmail,
		CreatedAt:   row.CreatedAt,
	}
	if len(row.UserSelection) > 0 {
		var selection any
		if err := json.Unmarshal(row.UserSelection, &selection); err != nil {
			return domain.Trip{}, fmt.Errorf("decode user selection of trip %s: %w", row.ID, err)
		}
		trip.UserSelection = domain.SelectionFrom(selection)
	}
	var raw any
	if len(row.TripData) > 0 {
		if err := json.Unmarshal(row.TripData, &raw); err != nil {
			return domain.Trip{}, fmt.Errorf("decode trip data of trip %s: %w", row.ID, err)
		}
	}
	trip.TripData, _ = domain.NormalizePlan(raw)
	return trip, nil
}
