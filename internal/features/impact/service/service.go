package service

import (
	"context"

	"recycle-rewards-backend/internal/features/impact/models"
	pickupmodels "recycle-rewards-backend/internal/features/pickup/models"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

// UserDirectory reads user records; implemented by the user service.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*usermodels.User, error)
}

// PickupLister returns the pickups visible to a role; implemented by the
// pickup service. The aggregator filters by status itself.
type PickupLister interface {
	GetPickupsByRole(ctx context.Context, role usermodels.Role, userID string) ([]*pickupmodels.PickupTask, error)
}

// ImpactService computes the dashboard's derived impact views.
type ImpactService interface {
	Summary(ctx context.Context, userID string) (*models.ImpactSummary, error)
}

type impactService struct {
	users   UserDirectory
	pickups PickupLister
	rates   models.WasteRates
}

func NewImpactService(users UserDirectory, pickups PickupLister, rates models.WasteRates) ImpactService {
	return &impactService{
		users:   users,
		pickups: pickups,
		rates:   rates,
	}
}

// Summary aggregates the user's lifetime record with the current session's
// completed pickups. Pure computation over a read-only snapshot; nothing is
// written back.
func (s *impactService) Summary(ctx context.Context, userID string) (*models.ImpactSummary, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pickups, err := s.pickups.GetPickupsByRole(ctx, user.Role, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.ImpactSummary{
		TotalRecycledKg: TotalRecycled(user, pickups),
		CO2SavedKg:      CO2Saved(user, pickups, s.rates),
		Breakdown:       CategoryBreakdown(user, pickups),
	}, nil
}
