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

var _ ports.UsageRepository = (*UsageRepository)(nil)

type UsageRepository struct {
	db    *sqlx.DB
	table string
}

func NewUsageRepo(db *sqlx.DB, table string) *UsageRepository {
	if table == "" {
		table = Tables{}.withDefaults().Usage
	}
	return &UsageRepository{db: db, table: pq.QuoteIdentifier(table)}
}

func (r *UsageRepository) GetDailyUsage(ctx context.Context, email string) (*domain.DailyUsage, error) {
	query := fmt.Sprintf(`SELECT date, count FROM %s WHERE email = $1`, r.table)
	var usage domain.DailyUsage
	if err := r.db.GetContext(ctx, &usage, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get daily usage", err)
	}
	return &usage, nil
}

func (r *UsageRepository) SetDailyUsage(ctx context.Context, email string, usage domain.DailyUsage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, date, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET date = EXCLUDED.date, count = EXCLUDED.count
	`, r.table)
	_, err := r.db.ExecContext(ctx, query, email, usage.Date, usage.Count)
	return domain.NewStorageError("set daily usage", err)
}
