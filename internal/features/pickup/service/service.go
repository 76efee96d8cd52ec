package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "recycle-rewards-backend/internal/common/errors"
	"recycle-rewards-backend/internal/common/logger"
	"recycle-rewards-backend/internal/features/pickup/models"
	"recycle-rewards-backend/internal/features/pickup/repository"
	pickupredis "recycle-rewards-backend/internal/features/pickup/repository/redis"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

// ZointCreditor credits earned reward points to a user; implemented by the
// user service.
type ZointCreditor interface {
	CreditZoints(ctx context.Context, id string, amount int64) error
}

// PickupService owns the pickup lifecycle and role-scoped listings.
type PickupService interface {
	Schedule(ctx context.Context, userID string, input models.PickupCreate) (*models.PickupTask, error)
	Assign(ctx context.Context, pickupID, collectorID string) (*models.PickupTask, error)
	Complete(ctx context.Context, pickupID, collectorID string, input models.PickupComplete) (*models.PickupTask, error)
	MarkMissed(ctx context.Context, pickupID, collectorID string) (*models.PickupTask, error)
	GetPickupsByRole(ctx context.Context, role usermodels.Role, userID string) ([]*models.PickupTask, error)
}

type pickupService struct {
	repo     repository.PickupRepository
	creditor ZointCreditor
}

func NewPickupService(repo repository.PickupRepository, creditor ZointCreditor) PickupService {
	return &pickupService{
		repo:     repo,
		creditor: creditor,
	}
}

func (s *pickupService) Schedule(ctx context.Context, userID string, input models.PickupCreate) (*models.PickupTask, error) {
	now := time.Now()
	pickup := &models.PickupTask{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          models.PickupStatusPending,
		Address:         input.Address,
		ItemDescription: input.ItemDescription,
		ScheduledAt:     input.ScheduledAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, pickup); err != nil {
		return nil, apperrors.NewStorageError("create pickup", err)
	}

	logger.Info().
		Str("pickup_id", pickup.ID).
		Str("user_id", userID).
		Msg("Pickup scheduled")
	return pickup, nil
}

func (s *pickupService) Assign(ctx context.Context, pickupID, collectorID string) (*models.PickupTask, error) {
	pickup, err := s.get(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if pickup.Status != models.PickupStatusPending {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Pickup is not pending assignment").
			WithDetail("status", pickup.Status)
	}

	pickup.CollectorID = collectorID
	pickup.Status = models.PickupStatusAssigned
	if err := s.repo.Update(ctx, pickup); err != nil {
		return nil, apperrors.NewStorageError("assign pickup", err)
	}

	logger.Info().
		Str("pickup_id", pickupID).
		Str("collector_id", collectorID).
		Msg("Pickup assigned")
	return pickup, nil
}

// Complete records the collector's weigh-in and credits the earned ZOINTs to
// the resident. The completion record is immutable afterwards.
func (s *pickupService) Complete(ctx context.Context, pickupID, collectorID string, input models.PickupComplete) (*models.PickupTask, error) {
	pickup, err := s.get(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if pickup.Status == models.PickupStatusCompleted {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Pickup already completed")
	}
	if pickup.CollectorID != collectorID {
		return nil, apperrors.NewForbiddenError("pickup is assigned to a different collector")
	}

	now := time.Now()
	pickup.Status = models.PickupStatusCompleted
	pickup.TotalWeightKg = input.TotalWeightKg
	pickup.Items = input.Items
	pickup.CompletedAt = &now

	if err := s.repo.Update(ctx, pickup); err != nil {
		return nil, apperrors.NewStorageError("complete pickup", err)
	}

	if earned := totalEarned(input.Items); earned > 0 {
		if err := s.creditor.CreditZoints(ctx, pickup.UserID, earned); err != nil {
			// The completion record stands; the credit is retried by ops
			// tooling from the log line below.
			logger.Error().
				Err(err).
				Str("pickup_id", pickupID).
				Str("user_id", pickup.UserID).
				Int64("earned", earned).
				Msg("Failed to credit earned zoints")
		}
	}

	logger.Info().
		Str("pickup_id", pickupID).
		Str("collector_id", collectorID).
		Float64("total_weight_kg", input.TotalWeightKg).
		Msg("Pickup completed")
	return pickup, nil
}

func (s *pickupService) MarkMissed(ctx context.Context, pickupID, collectorID string) (*models.PickupTask, error) {
	pickup, err := s.get(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if pickup.Status == models.PickupStatusCompleted {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Pickup already completed")
	}
	if pickup.CollectorID != collectorID {
		return nil, apperrors.NewForbiddenError("pickup is assigned to a different collector")
	}

	pickup.Status = models.PickupStatusMissed
	if err := s.repo.Update(ctx, pickup); err != nil {
		return nil, apperrors.NewStorageError("mark pickup missed", err)
	}

	return pickup, nil
}

// GetPickupsByRole returns every pickup visible to the role: residents see
// their own, collectors see their assignments, admins see everything.
// Callers filter by status themselves.
func (s *pickupService) GetPickupsByRole(ctx context.Context, role usermodels.Role, userID string) ([]*models.PickupTask, error) {
	var (
		pickups []*models.PickupTask
		err     error
	)

	switch role {
	case usermodels.RoleCollector:
		pickups, err = s.repo.ListByCollector(ctx, userID)
	case usermodels.RoleAdmin:
		pickups, err = s.repo.ListAll(ctx)
	default:
		pickups, err = s.repo.ListByUser(ctx, userID)
	}

	if err != nil {
		return nil, apperrors.NewStorageError("list pickups", err)
	}
	return pickups, nil
}

func (s *pickupService) get(ctx context.Context, pickupID string) (*models.PickupTask, error) {
	pickup, err := s.repo.GetByID(ctx, pickupID)
	if err != nil {
		if errors.Is(err, pickupredis.ErrNotFound) {
			return nil, apperrors.NewPickupNotFoundError(pickupID)
		}
		return nil, apperrors.NewStorageError("get pickup", err)
	}
	return pickup, nil
}

func totalEarned(items []models.CollectionItem) int64 {
	var sum int64
	for _, item := range items {
		if item.EarnedZoints > 0 {
			sum += item.EarnedZoints
		}
	}
	return sum
}
