package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notification is one message for the counterpart role after a
// workflow transition. Delivery is handled by an external consumer;
// this package only enqueues.
type Notification struct {
	// Recipient is the author id (or user id hex) of the target person.
	Recipient string    `json:"recipient"`
	Role      string    `json:"role"`
	Event     string    `json:"event"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier is the abstraction over queue backends.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

// RedisNotifier enqueues notifications onto a Redis list using
// LPUSH semantics; a worker on the other side BRPOPs and delivers.
type RedisNotifier struct {
	client *redis.Client
	key    string
}

// NewRedisNotifier builds a queue-backed notifier.
func NewRedisNotifier(client *redis.Client, key string) *RedisNotifier {
	if key == "" {
		key = "taskmanagers:notifications"
	}
	return &RedisNotifier{client: client, key: key}
}

// Publish enqueues one notification.
func (n *RedisNotifier) Publish(ctx context.Context, msg Notification) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.client.LPush(ctx, n.key, payload).Err()
}

// InMemory is a minimal channel-backed notifier for dev/testing.
type InMemory struct {
	ch chan Notification
}

// NewInMemory creates a bounded in-memory notifier.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Notification, size)}
}

// Publish enqueues a notification, dropping when the buffer is full so
// a stalled consumer can never block a request.
func (q *InMemory) Publish(ctx context.Context, msg Notification) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return context.DeadlineExceeded
	}
}

// Drain returns the channel of queued notifications (testing hook).
func (q *InMemory) Drain() <-chan Notification {
	return q.ch
}

// Dispatch fires a notification after the authoritative state change
// has committed. It never blocks the caller and never fails the
// request: enqueue errors are logged and dropped.
func Dispatch(notifier Notifier, msg Notification) {
	if notifier == nil {
		return
	}
	msg.CreatedAt = time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notifier.Publish(ctx, msg); err != nil {
			log.Printf("WARN: notification enqueue failed (event=%s recipient=%s): %v", msg.Event, msg.Recipient, err)
		}
	}()
}
