package livestatus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkezy/internal/models"
)

// Publisher pushes session snapshots to external displays: the latest
// snapshot is cached in redis with a TTL, an event is published for
// subscribed services, and in-process websocket subscribers get the frame
// directly. All of it is fire-and-forget.
type Publisher struct {
	client *redis.Client
	hub    *Hub
	ttl    time.Duration
	logger *zap.Logger
}

// NewPublisher builds the publisher. Redis client and hub may each be nil,
// in which case that leg is skipped.
func NewPublisher(client *redis.Client, hub *Hub, ttl time.Duration, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		hub:    hub,
		ttl:    ttl,
		logger: logger,
	}
}

func snapshotKey(userID int64) string {
	return fmt.Sprintf("livestatus:session:%d", userID)
}

func eventsChannel(userID int64) string {
	return fmt.Sprintf("livestatus:events:%d", userID)
}

// Publish fans the snapshot out. Failures are logged and swallowed; the
// lifecycle engine must never block or fail on display plumbing.
func (p *Publisher) Publish(snapshot models.SessionSnapshot) {
	frame, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Warn("failed to encode snapshot", zap.Error(err))
		return
	}

	if p.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		userID := snapshot.Session.UserID
		if err := p.client.Set(ctx, snapshotKey(userID), frame, p.ttl).Err(); err != nil {
			p.logger.Warn("failed to cache snapshot", zap.Error(err))
		}
		if err := p.client.Publish(ctx, eventsChannel(userID), frame).Err(); err != nil {
			p.logger.Warn("failed to publish snapshot event", zap.Error(err))
		}
	}

	if p.hub != nil {
		p.hub.Broadcast(snapshot.Session.UserID, frame)
	}
}

// LatestSnapshot reads the cached snapshot for the user, if any.
func (p *Publisher) LatestSnapshot(ctx context.Context, userID int64) (*models.SessionSnapshot, error) {
	if p.client == nil {
		return nil, redis.Nil
	}
	result, err := p.client.Get(ctx, snapshotKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var snapshot models.SessionSnapshot
	if err := json.Unmarshal([]byte(result), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
