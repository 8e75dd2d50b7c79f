package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db    *sqlx.DB
	table string
}

func NewSessionRepo(db *sqlx.DB, table string) *SessionRepository {
	if table == "" {
		table = Tables{}.withDefaults().Sessions
	}
	return &SessionRepository{db: db, table: pq.QuoteIdentifier(table)}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session domain.Session) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (id, email, created_at, expires_at, is_active)
        VALUES ($1, $2, $3, $4, true)
    `, r.table)
	_, err := r.db.ExecContext(ctx, query, session.ID, session.Email, session.CreatedAt, session.ExpiresAt)
	return err
}

func (r *SessionRepository) DeactivateSession(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
        UPDATE %s SET is_active = false, expires_at = NOW()
        WHERE id = $1 AND is_active = true
    `, r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *SessionRepository) FindActiveSession(ctx context.Context, id string) (*domain.Session, error) {
	query := fmt.Sprintf(`
        SELECT id, email, created_at, expires_at
        FROM %s
        WHERE id = $1 AND is_active = true AND expires_at > NOW()
    `, r.table)
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}
