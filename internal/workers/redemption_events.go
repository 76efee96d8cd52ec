package workers

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"recycle-rewards-backend/internal/common/logger"
	"recycle-rewards-backend/internal/platform/redis"
)

const (
	consumerGroup = "rewards_backend_consumers"
	consumerName  = "redemption_worker_1"
	adminInboxKey = "admin:redemption_inbox"

	readBlock    = 5 * time.Second
	errorBackoff = time.Second
)

// RedemptionEventWorker consumes redemption submissions from the wallet's
// event stream and files them into the admin review inbox. Review itself
// happens out of band; this worker only makes submissions visible to it.
type RedemptionEventWorker struct {
	rdb    *redis.Client
	stream string
}

func NewRedemptionEventWorker(rdb *redis.Client, stream string) *RedemptionEventWorker {
	return &RedemptionEventWorker{
		rdb:    rdb,
		stream: stream,
	}
}

// Start consumes the stream until ctx ends.
func (w *RedemptionEventWorker) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, consumerGroup, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		logger.Error().Err(err).Str("stream", w.stream).Msg("Failed to create consumer group")
	}

	logger.Info().Str("stream", w.stream).Msg("Redemption event worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Redemption event worker stopped")
			return
		default:
			entries, err := w.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
				Group:    consumerGroup,
				Consumer: consumerName,
				Streams:  []string{w.stream, ">"},
				Count:    10,
				Block:    readBlock,
			}).Result()

			if err != nil {
				if err != goredis.Nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("Failed to read redemption events")
					time.Sleep(errorBackoff)
				}
				continue
			}

			for _, stream := range entries {
				for _, msg := range stream.Messages {
					w.processMessage(ctx, msg.Values)
					w.rdb.XAck(ctx, w.stream, consumerGroup, msg.ID)
				}
			}
		}
	}
}

func (w *RedemptionEventWorker) processMessage(ctx context.Context, values map[string]interface{}) {
	eventType, ok := values["type"].(string)
	if !ok || eventType != "redemption_created" {
		return
	}

	id, _ := values["id"].(string)
	userID, _ := values["user_id"].(string)
	if id == "" {
		return
	}

	if err := w.rdb.LPush(ctx, adminInboxKey, id).Err(); err != nil {
		logger.Error().Err(err).Str("redemption_id", id).Msg("Failed to file redemption for review")
		return
	}

	logger.Info().
		Str("redemption_id", id).
		Str("user_id", userID).
		Msg("Redemption filed for admin review")
}
