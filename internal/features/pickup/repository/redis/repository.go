package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"recycle-rewards-backend/internal/features/pickup/models"
	"recycle-rewards-backend/internal/features/pickup/repository"
)

var ErrNotFound = errors.New("pickup not found")

type pickupRepository struct {
	client *redis.Client
}

func NewPickupRepository(client *redis.Client) repository.PickupRepository {
	return &pickupRepository{
		client: client,
	}
}

func pickupKey(id string) string {
	return fmt.Sprintf("pickup:%s", id)
}

func userIndexKey(userID string) string {
	return fmt.Sprintf("user_pickups:%s", userID)
}

func collectorIndexKey(collectorID string) string {
	return fmt.Sprintf("collector_pickups:%s", collectorID)
}

func (r *pickupRepository) Create(ctx context.Context, pickup *models.PickupTask) error {
	data, err := json.Marshal(pickup)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, pickupKey(pickup.ID), data, 0)
	pipe.SAdd(ctx, userIndexKey(pickup.UserID), pickup.ID)
	if pickup.CollectorID != "" {
		pipe.SAdd(ctx, collectorIndexKey(pickup.CollectorID), pickup.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *pickupRepository) GetByID(ctx context.Context, id string) (*models.PickupTask, error) {
	data, err := r.client.Get(ctx, pickupKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var pickup models.PickupTask
	if err := json.Unmarshal(data, &pickup); err != nil {
		return nil, err
	}

	return &pickup, nil
}

func (r *pickupRepository) Update(ctx context.Context, pickup *models.PickupTask) error {
	pickup.UpdatedAt = time.Now()

	data, err := json.Marshal(pickup)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, pickupKey(pickup.ID), data, 0)
	if pickup.CollectorID != "" {
		pipe.SAdd(ctx, collectorIndexKey(pickup.CollectorID), pickup.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *pickupRepository) ListByUser(ctx context.Context, userID string) ([]*models.PickupTask, error) {
	return r.listByIndex(ctx, userIndexKey(userID))
}

func (r *pickupRepository) ListByCollector(ctx context.Context, collectorID string) ([]*models.PickupTask, error) {
	return r.listByIndex(ctx, collectorIndexKey(collectorID))
}

func (r *pickupRepository) ListAll(ctx context.Context) ([]*models.PickupTask, error) {
	var pickups []*models.PickupTask
	iter := r.client.Scan(ctx, 0, "pickup:*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var pickup models.PickupTask
		if err := json.Unmarshal(data, &pickup); err != nil {
			continue
		}

		pickups = append(pickups, &pickup)
	}

	return pickups, iter.Err()
}

func (r *pickupRepository) listByIndex(ctx context.Context, indexKey string) ([]*models.PickupTask, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	pickups := make([]*models.PickupTask, 0, len(ids))
	for _, id := range ids {
		pickup, err := r.GetByID(ctx, id)
		if err != nil {
			// Index entries may outlive deleted pickups.
			continue
		}
		pickups = append(pickups, pickup)
	}

	return pickups, nil
}
