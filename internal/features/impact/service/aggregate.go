package service

import (
	"sort"
	"strings"

	"recycle-rewards-backend/internal/features/impact/models"
	pickupmodels "recycle-rewards-backend/internal/features/pickup/models"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

const (
	// FallbackCategoryRate applies when a category has no entry in the
	// rate table.
	FallbackCategoryRate = 0.5

	// BlendedLifetimeRate applies to the lifetime total of users with no
	// per-category lifetime record.
	BlendedLifetimeRate = 1.0

	// FallbackCategory buckets weight that cannot be attributed to any
	// category.
	FallbackCategory = "Other"
)

// TotalRecycled returns the user's lifetime total plus the weight of every
// completed pickup. Session weight is added on top of the lifetime field,
// never folded into it. Negative or missing weights count as zero.
func TotalRecycled(user *usermodels.User, pickups []*pickupmodels.PickupTask) float64 {
	total := nonNegative(user.LifetimeRecycledKg)
	for _, pickup := range pickups {
		if !pickup.IsCompleted() {
			continue
		}
		total += pickupWeight(pickup)
	}
	return total
}

// CO2Saved derives the CO2 figure fresh from current inputs: a session
// component over completed pickups plus a historical component over the
// lifetime record. It is never read back from a stored running total.
func CO2Saved(user *usermodels.User, pickups []*pickupmodels.PickupTask, rates models.WasteRates) float64 {
	saved := historicalCO2(user, rates)
	for _, pickup := range pickups {
		if !pickup.IsCompleted() {
			continue
		}
		saved += sessionCO2(pickup, rates)
	}
	return saved
}

// CategoryBreakdown builds the per-category recycled-weight view: the
// lifetime record seeds the accumulator (last write wins on duplicate
// categories), then each completed pickup's weight is merged in. The sum of
// the returned weights equals TotalRecycled for the same inputs.
func CategoryBreakdown(user *usermodels.User, pickups []*pickupmodels.PickupTask) []models.RecycledBreakdown {
	acc := newBreakdownAccumulator()

	for _, entry := range user.LifetimeBreakdown {
		acc.Set(entry.Category, nonNegative(entry.WeightKg))
	}

	for _, pickup := range pickups {
		if !pickup.IsCompleted() {
			continue
		}

		if len(pickup.Items) > 0 {
			for _, item := range pickup.Items {
				acc.Add(item.Category, nonNegative(item.WeightKg))
			}
			continue
		}

		weight := nonNegative(pickup.TotalWeightKg)
		if weight == 0 {
			continue
		}

		category := primaryCategory(pickup.ItemDescription)
		if category == "" {
			category = FallbackCategory
		}
		acc.Add(category, weight)
	}

	return acc.Entries()
}

// sessionCO2 computes one completed pickup's contribution. Granular items
// use their own category against the rate table; legacy pickups with only a
// total weight fall back to matching the description's first token against
// the table.
func sessionCO2(pickup *pickupmodels.PickupTask, rates models.WasteRates) float64 {
	if len(pickup.Items) > 0 {
		var saved float64
		for _, item := range pickup.Items {
			saved += nonNegative(item.WeightKg) * categoryRate(rates, item.Category)
		}
		return saved
	}

	weight := nonNegative(pickup.TotalWeightKg)
	if weight == 0 {
		return 0
	}

	return weight * tokenRate(rates, primaryCategory(pickup.ItemDescription))
}

func historicalCO2(user *usermodels.User, rates models.WasteRates) float64 {
	if len(user.LifetimeBreakdown) == 0 {
		return nonNegative(user.LifetimeRecycledKg) * BlendedLifetimeRate
	}

	var saved float64
	for _, entry := range user.LifetimeBreakdown {
		saved += nonNegative(entry.WeightKg) * categoryRate(rates, entry.Category)
	}
	return saved
}

// categoryRate resolves a category by exact, case-sensitive match.
func categoryRate(rates models.WasteRates, category string) float64 {
	if rate, ok := rates.Rate(category); ok {
		return rate
	}
	return FallbackCategoryRate
}

// tokenRate resolves a free-text token by substring match against the rate
// table's keys. The match is heuristic and may mis-bucket unusual
// descriptions; keys are scanned in sorted order so the result is
// deterministic.
func tokenRate(rates models.WasteRates, token string) float64 {
	if token == "" {
		return FallbackCategoryRate
	}

	if rate, ok := rates.Rate(token); ok {
		return rate
	}

	keys := make([]string, 0, len(rates))
	for key := range rates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lowered := strings.ToLower(token)
	for _, key := range keys {
		k := strings.ToLower(key)
		if strings.Contains(k, lowered) || strings.Contains(lowered, k) {
			return rates[key]
		}
	}

	return FallbackCategoryRate
}

// primaryCategory extracts the first comma-separated token of a free-text
// item description, e.g. "Plastic bottles, cans" -> "Plastic bottles".
func primaryCategory(description string) string {
	first, _, _ := strings.Cut(description, ",")
	return strings.TrimSpace(first)
}

// pickupWeight prefers the granular item weights when present so the
// breakdown and the total stay consistent; legacy records use the bare
// total.
func pickupWeight(pickup *pickupmodels.PickupTask) float64 {
	if len(pickup.Items) > 0 {
		var sum float64
		for _, item := range pickup.Items {
			sum += nonNegative(item.WeightKg)
		}
		return sum
	}
	return nonNegative(pickup.TotalWeightKg)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
