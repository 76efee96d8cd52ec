package repository

import (
	"context"

	"recycle-rewards-backend/internal/features/wallet/models"
)

// RedemptionRepository persists redemption requests. Create assigns the
// request's final ID and announces the submission to the review desk out of
// band.
type RedemptionRepository interface {
	Create(ctx context.Context, request *models.RedemptionRequest) error
	GetByID(ctx context.Context, id string) (*models.RedemptionRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*models.RedemptionRequest, error)
}
