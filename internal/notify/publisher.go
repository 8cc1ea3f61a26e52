package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	smsQueueKey = "sms_events"
)

// Event - SMS-уведомление о состоявшемся назначении
type Event struct {
	IncidentID  uuid.UUID `json:"incident_id"`
	ResponderID uuid.UUID `json:"responder_id"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher - интерфейс постановки SMS-уведомлений в очередь
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher - реализация Publisher поверх очереди в Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish добавляет событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sms event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка, воркер читает справа
	if err := p.redisClient.LPush(ctx, smsQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish sms event to Redis: %w", err)
	}
	return nil
}
