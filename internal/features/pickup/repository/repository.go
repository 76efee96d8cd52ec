package repository

import (
	"context"

	"recycle-rewards-backend/internal/features/pickup/models"
)

// PickupRepository persists pickup tasks and the per-role indexes used to
// answer "which pickups can this user see".
type PickupRepository interface {
	Create(ctx context.Context, pickup *models.PickupTask) error
	GetByID(ctx context.Context, id string) (*models.PickupTask, error)
	Update(ctx context.Context, pickup *models.PickupTask) error
	ListByUser(ctx context.Context, userID string) ([]*models.PickupTask, error)
	ListByCollector(ctx context.Context, collectorID string) ([]*models.PickupTask, error)
	ListAll(ctx context.Context) ([]*models.PickupTask, error)
}
