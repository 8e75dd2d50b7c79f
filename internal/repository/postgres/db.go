package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func New(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// Tables names the collection tables. Names come from configuration and are
// quoted before use.
type Tables struct {
	Trips    string
	Usage    string
	Sessions string
}

func (t Tables) withDefaults() Tables {
	if t.Trips == "" {
		t.Trips = "trips"
	}
	if t.Usage == "" {
		t.Usage = "user_daily_usage"
	}
	if t.Sessions == "" {
		t.Sessions = "sessions"
	}
	return t
}

// EnsureSchema creates the tables used by the repositories in this package.
func EnsureSchema(ctx context.Context, db *sqlx.DB, tables Tables) error {
	tables = tables.withDefaults()
	trips := pq.QuoteIdentifier(tables.Trips)
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			user_email TEXT NOT NULL,
			user_selection JSONB NOT NULL,
			trip_data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, trips),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (user_email)`,
			pq.QuoteIdentifier(tables.Trips+"_user_email_idx"), trips),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			email TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			count INTEGER NOT NULL
		)`, pq.QuoteIdentifier(tables.Usage)),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`, pq.QuoteIdentifier(tables.Sessions)),
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
