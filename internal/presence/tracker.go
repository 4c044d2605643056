package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"realtyshare/internal/models"
)

// Tracker keeps a coarse last-write-wins presence record per user in Redis
// and fans out changes over pub/sub so watchers see updates with low latency.
type Tracker struct {
	client *redis.Client
}

// NewTracker connects to Redis and verifies the connection.
func NewTracker(addr, password string, db int) (*Tracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Tracker{client: client}, nil
}

// Close releases the Redis connection.
func (t *Tracker) Close() error {
	return t.client.Close()
}

func presenceKey(uid int) string {
	return fmt.Sprintf("presence:%d", uid)
}

// Set overwrites the user's presence record and notifies watchers.
func (t *Tracker) Set(ctx context.Context, uid int, state string) error {
	record := models.PresenceRecord{State: state, Timestamp: time.Now().UTC()}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := presenceKey(uid)
	if err := t.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return err
	}
	return t.client.Publish(ctx, key, payload).Err()
}

// Get returns the user's current presence. A missing key reads as offline.
func (t *Tracker) Get(ctx context.Context, uid int) (models.PresenceRecord, error) {
	payload, err := t.client.Get(ctx, presenceKey(uid)).Bytes()
	if err == redis.Nil {
		return models.PresenceRecord{State: models.PresenceOffline}, nil
	}
	if err != nil {
		return models.PresenceRecord{}, err
	}
	var record models.PresenceRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return models.PresenceRecord{}, err
	}
	return record, nil
}

// Watch streams the user's presence: the current record immediately, then
// every change, until ctx is cancelled. The returned channel is closed on
// teardown, so cancellation is explicit rather than implicit.
func (t *Tracker) Watch(ctx context.Context, uid int) (<-chan models.PresenceRecord, error) {
	sub := t.client.Subscribe(ctx, presenceKey(uid))
	// force the subscription to be established before the initial read
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan models.PresenceRecord, 8)
	current, err := t.Get(ctx, uid)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}
	out <- current

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var record models.PresenceRecord
				if err := json.Unmarshal([]byte(msg.Payload), &record); err != nil {
					log.Printf("presence: bad payload for uid %d: %v", uid, err)
					continue
				}
				select {
				case out <- record:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
