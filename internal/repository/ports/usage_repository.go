package ports

import (
	"context"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// UsageRepository keeps one DailyUsage record per email. GetDailyUsage returns
// nil, nil when the user has never generated a trip.
type UsageRepository interface {
	GetDailyUsage(ctx context.Context, email string) (*domain.DailyUsage, error)
	SetDailyUsage(ctx context.Context, email string, usage domain.DailyUsage) error
}
