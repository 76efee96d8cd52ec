package models

import "time"

// PickupStatus represents the lifecycle of a collection event.
type PickupStatus string

const (
	PickupStatusPending   PickupStatus = "pending"
	PickupStatusAssigned  PickupStatus = "assigned"
	PickupStatusCompleted PickupStatus = "completed"
	PickupStatusMissed    PickupStatus = "missed"
)

// CollectionItem is a per-category weight/rate/earned record captured by the
// collector when a pickup is completed.
type CollectionItem struct {
	Category     string  `json:"category"`
	WeightKg     float64 `json:"weight_kg"`
	RatePerKg    float64 `json:"rate_per_kg"`
	EarnedZoints int64   `json:"earned_zoints"`
}

// PickupTask represents one waste-collection event tied to a resident.
// Records are immutable once fetched by the impact aggregator.
type PickupTask struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	CollectorID string       `json:"collector_id,omitempty"`
	Status      PickupStatus `json:"status"`
	Address     string       `json:"address"`

	// ItemDescription is the resident's free-text listing of what is set
	// out, e.g. "Plastic bottles, tin cans". Legacy completed pickups
	// carry only this plus a total weight, no per-category items.
	ItemDescription string `json:"item_description"`

	TotalWeightKg float64          `json:"total_weight_kg,omitempty"`
	Items         []CollectionItem `json:"items,omitempty"`

	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsCompleted reports whether the pickup counts toward impact aggregation.
func (p *PickupTask) IsCompleted() bool {
	return p.Status == PickupStatusCompleted
}

// PickupCreate carries a resident's pickup scheduling request.
type PickupCreate struct {
	Address         string    `json:"address" binding:"required,min=5,max=200"`
	ItemDescription string    `json:"item_description" binding:"required,min=3,max=500"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
}

// PickupComplete carries the collector's completion record.
type PickupComplete struct {
	TotalWeightKg float64          `json:"total_weight_kg" binding:"min=0"`
	Items         []CollectionItem `json:"items"`
}
