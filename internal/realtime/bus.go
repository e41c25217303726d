package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/redis"
)

// Bus carries events between server instances.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers deliver for every event published until ctx ends.
	// It returns once the subscription is active.
	Subscribe(ctx context.Context, deliver func(Event)) error
}

// LocalBus delivers events inside one process.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: map[int]func(Event){}}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, deliver := range b.subs {
		deliver(ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, deliver func(Event)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = deliver
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

// DefaultChannel is the Redis pub/sub channel events travel on.
const DefaultChannel = "hrportal:realtime"

// RedisBus fans events out to every instance subscribed to the channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBus(client *redis.Client, channel string, logger *slog.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBus{client: client, channel: channel, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload)
}

func (b *RedisBus) Subscribe(ctx context.Context, deliver func(Event)) error {
	sub, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return err
	}
	go func() {
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
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed realtime event", slog.String("error", err.Error()))
					continue
				}
				deliver(ev)
			}
		}
	}()
	return nil
}
