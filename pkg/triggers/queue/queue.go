// Package queue provides the redis-list execution intake: producers push
// execution requests, the worker consumes them.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DefaultKey is the redis list holding pending execution requests.
const DefaultKey = "aiflow:executions"

// Request is one queued execution ask. Mode defaults to trigger on the
// consuming side; the scheduler stamps scheduled.
type Request struct {
	WorkflowID string         `json:"workflow_id"`
	UserID     string         `json:"user_id,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	Inputs     map[string]any `json:"inputs,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// Callback handles one dequeued request.
type Callback func(ctx context.Context, request Request) error

func newClient(ctx context.Context, redisURL string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Producer pushes execution requests onto the queue.
type Producer struct {
	key    string
	client redis.UniversalClient
	logger *slog.Logger
}

// NewProducer connects to redis and returns a producer for the given list
// key (DefaultKey when empty).
func NewProducer(ctx context.Context, redisURL, key string, logger *slog.Logger) (*Producer, error) {
	if key == "" {
		key = DefaultKey
	}

	client, err := newClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}

	return &Producer{
		key:    key,
		client: client,
		logger: logger.With("module", "queue_producer", "queue", key),
	}, nil
}

// Enqueue appends a request to the queue tail.
func (p *Producer) Enqueue(ctx context.Context, request Request) error {
	if request.WorkflowID == "" {
		return errors.New("request workflow_id is required")
	}

	if request.Timestamp == "" {
		request.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := p.client.RPush(ctx, p.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push request to queue: %w", err)
	}

	p.logger.InfoContext(ctx, "execution request enqueued", "workflow_id", request.WorkflowID)

	return nil
}

// Close releases the redis connection.
func (p *Producer) Close() error {
	return p.client.Close()
}

// Consumer blocks on the queue head and dispatches requests to a callback.
type Consumer struct {
	key      string
	client   redis.UniversalClient
	logger   *slog.Logger
	callback Callback
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewConsumer connects to redis and returns a consumer for the given list
// key (DefaultKey when empty).
func NewConsumer(ctx context.Context, redisURL, key string, logger *slog.Logger) (*Consumer, error) {
	if key == "" {
		key = DefaultKey
	}

	client, err := newClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		key:    key,
		client: client,
		logger: logger.With("module", "queue_consumer", "queue", key),
		stopCh: make(chan struct{}),
	}, nil
}

// Start launches the consume loop.
func (c *Consumer) Start(ctx context.Context, callback Callback) error {
	if callback == nil {
		return errors.New("queue consumer callback is required")
	}

	c.logger.InfoContext(ctx, "starting queue consumer")
	c.callback = callback

	c.wg.Add(1)

	go c.consume(ctx)

	return nil
}

func (c *Consumer) consume(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			c.logger.InfoContext(ctx, "queue consumer stopped")

			return
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "context cancelled, stopping queue consumer")

			return
		default:
			if err := c.processMessage(ctx); err != nil {
				c.logger.ErrorContext(ctx, "error processing queue message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context) error {
	result, err := c.client.BLPop(ctx, 1*time.Second, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	request, err := parseRequest([]byte(result[1]))
	if err != nil {
		// A malformed payload is dropped, not retried.
		c.logger.WarnContext(ctx, "discarding malformed queue message", "error", err)

		return nil
	}

	c.logger.InfoContext(ctx, "execution request dequeued", "workflow_id", request.WorkflowID)

	go func() {
		if err := c.callback(ctx, request); err != nil {
			c.logger.ErrorContext(ctx, "error executing queued workflow",
				"workflow_id", request.WorkflowID, "error", err)
		}
	}()

	return nil
}

// Stop drains the consume loop and closes the connection.
func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.InfoContext(ctx, "stopping queue consumer")

	close(c.stopCh)
	c.wg.Wait()

	if err := c.client.Close(); err != nil {
		c.logger.ErrorContext(ctx, "error closing redis client", "error", err)
	}

	return nil
}

func parseRequest(payload []byte) (Request, error) {
	var request Request

	if err := json.Unmarshal(payload, &request); err != nil {
		return Request{}, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	if request.WorkflowID == "" {
		return Request{}, errors.New("request workflow_id is required")
	}

	if request.Timestamp == "" {
		request.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return request, nil
}
