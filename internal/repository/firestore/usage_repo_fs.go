package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.UsageRepository = (*UsageRepository)(nil)

type UsageRepository struct {
	client     *firestore.Client
	collection string
}

func NewUsageRepo(client *firestore.Client, collection string) *UsageRepository {
	if collection == "" {
		collection = "UserDailyUsage"
	}
	return &UsageRepository{client: client, collection: collection}
}

func (r *UsageRepository) GetDailyUsage(ctx context.Context, email string) (*domain.DailyUsage, error) {
	snap, err := r.client.Collection(r.collection).Doc(email).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get daily usage", err)
	}
	var usage domain.DailyUsage
	if err := snap.DataTo(&usage); err != nil {
		return nil, domain.NewStorageError("get daily usage", err)
	}
	return &usage, nil
}

func (r *UsageRepository) SetDailyUsage(ctx context.Context, email string, usage domain.DailyUsage) error {
	_, err := r.client.Collection(r.collection).Doc(email).Set(ctx, usage)
	return domain.NewStorageError("set daily usage", err)
}
