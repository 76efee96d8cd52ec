package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/features/impact/models"
	pickupmodels "recycle-rewards-backend/internal/features/pickup/models"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) GetUser(ctx context.Context, id string) (*usermodels.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usermodels.User), args.Error(1)
}

type mockPickupLister struct {
	mock.Mock
}

func (m *mockPickupLister) GetPickupsByRole(ctx context.Context, role usermodels.Role, userID string) ([]*pickupmodels.PickupTask, error) {
	args := m.Called(ctx, role, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pickupmodels.PickupTask), args.Error(1)
}

func TestSummary_CombinesLifetimeAndSession(t *testing.T) {
	// ARRANGE
	user := &usermodels.User{
		ID:                 "user-1",
		Role:               usermodels.RoleResident,
		LifetimeRecycledKg: 20,
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Plastic", WeightKg: 20},
		},
	}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Glass jars", 2),
	}

	users := new(mockUserDirectory)
	users.On("GetUser", mock.Anything, "user-1").Return(user, nil)
	listers := new(mockPickupLister)
	listers.On("GetPickupsByRole", mock.Anything, usermodels.RoleResident, "user-1").Return(pickups, nil)

	svc := NewImpactService(users, listers, models.DefaultRates())

	// ACT
	summary, err := svc.Summary(context.Background(), "user-1")

	// ASSERT
	require.NoError(t, err)
	assert.InDelta(t, 22.0, summary.TotalRecycledKg, 1e-9)
	// lifetime 20*1.5 plastic, session 2*0.3 via the "Glass" key match
	assert.InDelta(t, 30.6, summary.CO2SavedKg, 1e-9)
	assert.Equal(t, []models.RecycledBreakdown{
		{Category: "Plastic", WeightKg: 20},
		{Category: "Glass jars", WeightKg: 2},
	}, summary.Breakdown)
}

func TestSummary_PropagatesDirectoryErrors(t *testing.T) {
	users := new(mockUserDirectory)
	users.On("GetUser", mock.Anything, "ghost").Return(nil, errors.New("user not found"))

	svc := NewImpactService(users, new(mockPickupLister), models.DefaultRates())

	_, err := svc.Summary(context.Background(), "ghost")

	assert.Error(t, err)
}
