package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/thikaresq/resqnet/internal/config"
	"github.com/thikaresq/resqnet/internal/metrics"
)

// smsPayload - тело запроса к SMS-шлюзу
type smsPayload struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// Worker читает очередь SMS-уведомлений и доставляет их во внешний шлюз.
// Вызовы шлюза идут через circuit breaker: при серии сбоев доставка
// приостанавливается, события возвращаются в очередь.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Metrics
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, m *metrics.Metrics) *Worker {
	w := &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.SMSTimeout,
		},
		metrics: m,
	}

	w.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "sms-gateway",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("SMS gateway circuit breaker state changed")
		},
	})
	return w
}

// Start запускает горутину обработки очереди SMS
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting SMS notification worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping SMS notification worker.")
				return
			default:
				// BRPop - блокирующее извлечение из правой части очереди,
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, smsQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop sms event from Redis")
					time.Sleep(w.cfg.SMSTimeout)
					continue
				}

				if depth, err := w.redisClient.LLen(ctx, smsQueueKey).Result(); err == nil {
					w.metrics.SMSQueueDepth.Set(float64(depth))
				}

				// result[0] - ключ, result[1] - значение
				var event Event
				if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal sms event from Redis")
					continue
				}

				w.deliver(ctx, event)
			}
		}
	}()
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	log := w.logger.WithFields(logrus.Fields{
		"incident_id":  event.IncidentID,
		"responder_id": event.ResponderID,
	})
	log.Debug("Delivering SMS notification...")

	if w.cfg.SMSGatewayURL == "" {
		log.Warn("SMS gateway URL is not configured. Skipping delivery.")
		return
	}

	payload, err := json.Marshal(smsPayload{
		To:      event.Phone,
		From:    w.cfg.SMSSenderName,
		Message: event.Message,
	})
	if err != nil {
		log.WithError(err).Error("Failed to marshal sms payload")
		return
	}

	maxRetries := w.cfg.SMSMaxRetries
	delay := w.cfg.SMSBaseDelay

	for i := 0; i < maxRetries; i++ {
		_, err := w.breaker.Execute(func() (interface{}, error) {
			return nil, w.send(ctx, payload)
		})
		if err == nil {
			w.metrics.SMSDelivered.Inc()
			log.Info("SMS notification delivered successfully.")
			return
		}

		log.WithError(err).Warnf("Failed to send SMS. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
		time.Sleep(delay)
		delay *= 2 // Экспоненциальная задержка
	}

	w.metrics.SMSFailed.Inc()
	log.Errorf("Failed to deliver SMS notification after %d retries.", maxRetries)
}

func (w *Worker) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.SMSGatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// HMAC подпись, если SMS_SECRET задан
	if w.cfg.SMSSecret != "" {
		req.Header.Set("X-Signature", generateHMACSHA256(payload, w.cfg.SMSSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
