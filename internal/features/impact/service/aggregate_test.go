package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recycle-rewards-backend/internal/features/impact/models"
	pickupmodels "recycle-rewards-backend/internal/features/pickup/models"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

func completedPickup(desc string, totalKg float64, items ...pickupmodels.CollectionItem) *pickupmodels.PickupTask {
	now := time.Now()
	return &pickupmodels.PickupTask{
		ID:              "pickup-1",
		UserID:          "user-1",
		Status:          pickupmodels.PickupStatusCompleted,
		ItemDescription: desc,
		TotalWeightKg:   totalKg,
		Items:           items,
		CompletedAt:     &now,
	}
}

func TestTotalRecycled_AddsCompletedPickupsOnTopOfLifetime(t *testing.T) {
	// ARRANGE
	user := &usermodels.User{LifetimeRecycledKg: 120.5}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Plastic bottles", 4.2),
		{Status: pickupmodels.PickupStatusPending, TotalWeightKg: 99},
		completedPickup("Glass jars", 1.8),
	}

	// ACT
	total := TotalRecycled(user, pickups)

	// ASSERT
	assert.InDelta(t, 126.5, total, 1e-9)
}

func TestTotalRecycled_ZeroesNegativeWeights(t *testing.T) {
	user := &usermodels.User{LifetimeRecycledKg: -5}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Metal scrap", -3),
	}

	assert.Equal(t, 0.0, TotalRecycled(user, pickups))
}

func TestTotalRecycled_PrefersItemWeightsOverStaleTotal(t *testing.T) {
	// A completed pickup whose total was recorded before the collector
	// itemized it. The item sum is authoritative.
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Mixed recyclables", 10,
			pickupmodels.CollectionItem{Category: "Plastic", WeightKg: 2},
			pickupmodels.CollectionItem{Category: "Paper", WeightKg: 3},
		),
	}

	assert.InDelta(t, 5.0, TotalRecycled(user, pickups), 1e-9)
}

func TestCO2Saved_BlendsLifetimeWithoutBreakdown(t *testing.T) {
	// ARRANGE
	user := &usermodels.User{LifetimeRecycledKg: 40}
	rates := models.DefaultRates()

	// ACT
	saved := CO2Saved(user, nil, rates)

	// ASSERT: 40 kg at the blended 1.0 rate
	assert.InDelta(t, 40.0, saved, 1e-9)
}

func TestCO2Saved_UsesCategoryRatesForLifetimeBreakdown(t *testing.T) {
	user := &usermodels.User{
		LifetimeRecycledKg: 30,
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Plastic", WeightKg: 10},
			{Category: "Metal", WeightKg: 20},
		},
	}
	rates := models.DefaultRates()

	saved := CO2Saved(user, nil, rates)

	// 10*1.5 + 20*4.5
	assert.InDelta(t, 105.0, saved, 1e-9)
}

func TestCO2Saved_FallsBackForUnknownCategory(t *testing.T) {
	user := &usermodels.User{
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Styrofoam", WeightKg: 8},
		},
	}

	saved := CO2Saved(user, nil, models.DefaultRates())

	assert.InDelta(t, 8*FallbackCategoryRate, saved, 1e-9)
}

func TestCO2Saved_ItemizedSessionPickup(t *testing.T) {
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("", 0,
			pickupmodels.CollectionItem{Category: "Glass", WeightKg: 6},
			pickupmodels.CollectionItem{Category: "E-Waste", WeightKg: 0.5},
		),
	}

	saved := CO2Saved(user, pickups, models.DefaultRates())

	// 6*0.3 + 0.5*9.0
	assert.InDelta(t, 6.3, saved, 1e-9)
}

func TestCO2Saved_LegacyPickupMatchesDescriptionToken(t *testing.T) {
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Plastic bottles, tin cans", 4),
	}

	saved := CO2Saved(user, pickups, models.DefaultRates())

	// "Plastic bottles" contains the "Plastic" rate key: 4*1.5
	assert.InDelta(t, 6.0, saved, 1e-9)
}

func TestCO2Saved_LegacyPickupUnmatchedTokenUsesFallback(t *testing.T) {
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Old furniture", 12),
	}

	saved := CO2Saved(user, pickups, models.DefaultRates())

	assert.InDelta(t, 12*FallbackCategoryRate, saved, 1e-9)
}

func TestCategoryBreakdown_SeedsLifetimeThenMergesPickups(t *testing.T) {
	// ARRANGE
	user := &usermodels.User{
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Plastic", WeightKg: 10},
			{Category: "Paper", WeightKg: 4},
		},
	}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("", 0,
			pickupmodels.CollectionItem{Category: "Plastic", WeightKg: 2},
			pickupmodels.CollectionItem{Category: "Glass", WeightKg: 1},
		),
	}

	// ACT
	breakdown := CategoryBreakdown(user, pickups)

	// ASSERT: lifetime categories first, in record order, then new ones
	assert.Equal(t, []models.RecycledBreakdown{
		{Category: "Plastic", WeightKg: 12},
		{Category: "Paper", WeightKg: 4},
		{Category: "Glass", WeightKg: 1},
	}, breakdown)
}

func TestCategoryBreakdown_DuplicateLifetimeCategoryLastWriteWins(t *testing.T) {
	user := &usermodels.User{
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Plastic", WeightKg: 3},
			{Category: "Plastic", WeightKg: 7},
		},
	}

	breakdown := CategoryBreakdown(user, nil)

	assert.Equal(t, []models.RecycledBreakdown{
		{Category: "Plastic", WeightKg: 7},
	}, breakdown)
}

func TestCategoryBreakdown_LegacyPickupAttributedByDescription(t *testing.T) {
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Glass jars, wine bottles", 2.5),
	}

	breakdown := CategoryBreakdown(user, pickups)

	assert.Equal(t, []models.RecycledBreakdown{
		{Category: "Glass jars", WeightKg: 2.5},
	}, breakdown)
}

func TestCategoryBreakdown_BlankDescriptionBucketsToOther(t *testing.T) {
	user := &usermodels.User{}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("   ", 3),
	}

	breakdown := CategoryBreakdown(user, pickups)

	assert.Equal(t, []models.RecycledBreakdown{
		{Category: FallbackCategory, WeightKg: 3},
	}, breakdown)
}

func TestCategoryBreakdown_SumMatchesTotalRecycled(t *testing.T) {
	user := &usermodels.User{
		LifetimeRecycledKg: 14,
		LifetimeBreakdown: []usermodels.CategoryWeight{
			{Category: "Plastic", WeightKg: 9},
			{Category: "Metal", WeightKg: 5},
		},
	}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("Paper, cardboard", 2),
		completedPickup("", 10,
			pickupmodels.CollectionItem{Category: "Glass", WeightKg: 1.5},
			pickupmodels.CollectionItem{Category: "Plastic", WeightKg: 0.5},
		),
		{Status: pickupmodels.PickupStatusAssigned, TotalWeightKg: 50},
	}

	breakdown := CategoryBreakdown(user, pickups)

	var sum float64
	for _, entry := range breakdown {
		sum += entry.WeightKg
	}
	assert.InDelta(t, TotalRecycled(user, pickups), sum, 1e-9)
}

func TestCO2Saved_UsesRateTableNotTheItemEarningRate(t *testing.T) {
	// RatePerKg is the ZOINT earning rate recorded by the collector; the
	// CO2 figure must come from the rate table instead.
	user := &usermodels.User{}
	rates := models.WasteRates{"Plastic": 0.8}
	pickups := []*pickupmodels.PickupTask{
		completedPickup("", 0,
			pickupmodels.CollectionItem{Category: "Plastic", WeightKg: 10, RatePerKg: 5, EarnedZoints: 50},
		),
	}

	assert.InDelta(t, 8.0, CO2Saved(user, pickups, rates), 1e-9)
	assert.InDelta(t, 10.0, TotalRecycled(user, pickups), 1e-9)
}

func TestTotalRecycled_NoPickupsEqualsLifetime(t *testing.T) {
	user := &usermodels.User{LifetimeRecycledKg: 77.7}

	assert.InDelta(t, 77.7, TotalRecycled(user, nil), 1e-9)
}

func TestTokenRate_MatchIsCaseInsensitiveBothDirections(t *testing.T) {
	rates := models.WasteRates{"Plastic": 1.5, "Glass": 0.3}

	// Token contains the key.
	assert.Equal(t, 1.5, tokenRate(rates, "plastic bottles"))
	// Key contains the token.
	assert.Equal(t, 0.3, tokenRate(rates, "glas"))
	// No overlap at all.
	assert.Equal(t, FallbackCategoryRate, tokenRate(rates, "wood"))
}

func TestTokenRate_DeterministicAcrossOverlappingKeys(t *testing.T) {
	rates := models.WasteRates{"Waste Paper": 0.8, "E-Waste": 9.0}

	// Both keys contain "waste"; sorted scan always lands on "E-Waste".
	for i := 0; i < 20; i++ {
		assert.Equal(t, 9.0, tokenRate(rates, "waste"))
	}
}
