package service

import "recycle-rewards-backend/internal/features/impact/models"

// breakdownAccumulator is an insertion-ordered category->weight store. Go
// map iteration order is randomized, so the accumulator keeps an explicit
// key order to make breakdown output deterministic.
type breakdownAccumulator struct {
	order   []string
	weights map[string]float64
}

func newBreakdownAccumulator() *breakdownAccumulator {
	return &breakdownAccumulator{
		weights: make(map[string]float64),
	}
}

// Set overwrites the category's weight, last write wins. Used when seeding
// from the lifetime record, which may carry duplicate category labels.
func (a *breakdownAccumulator) Set(category string, weightKg float64) {
	if _, ok := a.weights[category]; !ok {
		a.order = append(a.order, category)
	}
	a.weights[category] = weightKg
}

// Add accumulates into the category, creating it when absent.
func (a *breakdownAccumulator) Add(category string, weightKg float64) {
	if _, ok := a.weights[category]; !ok {
		a.order = append(a.order, category)
	}
	a.weights[category] += weightKg
}

// Entries returns the accumulated breakdown in insertion order.
func (a *breakdownAccumulator) Entries() []models.RecycledBreakdown {
	entries := make([]models.RecycledBreakdown, 0, len(a.order))
	for _, category := range a.order {
		entries = append(entries, models.RecycledBreakdown{
			Category: category,
			WeightKg: a.weights[category],
		})
	}
	return entries
}
