package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"recycle-rewards-backend/internal/features/wallet/models"
	"recycle-rewards-backend/internal/features/wallet/repository"
)

var ErrNotFound = errors.New("redemption request not found")

type redemptionRepository struct {
	client *redis.Client
	stream string
}

// NewRedemptionRepository persists redemption requests and publishes every
// submission to the given stream for out-of-band admin review.
func NewRedemptionRepository(client *redis.Client, stream string) repository.RedemptionRepository {
	return &redemptionRepository{
		client: client,
		stream: stream,
	}
}

func redemptionKey(id string) string {
	return fmt.Sprintf("redemption:%s", id)
}

func userIndexKey(userID string) string {
	return fmt.Sprintf("user_redemptions:%s", userID)
}

func (r *redemptionRepository) Create(ctx context.Context, request *models.RedemptionRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	data, err := json.Marshal(request)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redemptionKey(request.ID), data, 0)
	pipe.LPush(ctx, userIndexKey(request.UserID), request.ID)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"type":    "redemption_created",
			"id":      request.ID,
			"user_id": request.UserID,
			"kind":    string(request.Kind),
			"amount":  request.Amount,
		},
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redemptionRepository) GetByID(ctx context.Context, id string) (*models.RedemptionRequest, error) {
	data, err := r.client.Get(ctx, redemptionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var request models.RedemptionRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID string) ([]*models.RedemptionRequest, error) {
	ids, err := r.client.LRange(ctx, userIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	requests := make([]*models.RedemptionRequest, 0, len(ids))
	for _, id := range ids {
		request, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		requests = append(requests, request)
	}

	return requests, nil
}
