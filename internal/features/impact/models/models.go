package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// WasteRates maps a waste category to the kg of CO2 saved per kg recycled.
// The table is supplied at startup and read-only afterwards.
type WasteRates map[string]float64

// Rate returns the coefficient for an exact, case-sensitive category match.
func (r WasteRates) Rate(category string) (float64, bool) {
	rate, ok := r[category]
	return rate, ok
}

// DefaultRates is the built-in CO2 coefficient table used when no override
// file is configured.
func DefaultRates() WasteRates {
	return WasteRates{
		"Plastic": 1.5,
		"Paper":   0.9,
		"Glass":   0.3,
		"Metal":   4.5,
		"Organic": 0.2,
		"E-Waste": 9.0,
		"Textile": 3.4,
	}
}

// LoadRates reads a category->coefficient JSON object from path, falling
// back to the defaults when path is empty.
func LoadRates(path string) (WasteRates, error) {
	if path == "" {
		return DefaultRates(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}

	var rates WasteRates
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("parse rates file: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rates file %s is empty", path)
	}

	return rates, nil
}

// RecycledBreakdown is one per-category slice of the aggregated recycled
// weight shown on the impact detail view.
type RecycledBreakdown struct {
	Category string  `json:"category"`
	WeightKg float64 `json:"weight_kg"`
}

// ImpactSummary is the dashboard's derived view: total recycled weight, CO2
// saved and the per-category breakdown, all computed fresh from current
// inputs on every request.
type ImpactSummary struct {
	TotalRecycledKg float64             `json:"total_recycled_kg"`
	CO2SavedKg      float64             `json:"co2_saved_kg"`
	Breakdown       []RecycledBreakdown `json:"breakdown"`
}
