package realtime

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

const publishTimeout = 3 * time.Second

// RedisConfig holds the connection settings for the event relay
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Printf("Redis connected: %s", pong)
	return rdb, nil
}

// redisQueueSize bounds the events waiting to be published
const redisQueueSize = 256

type redisMessage struct {
	event string
	frame []byte
}

// RedisPublisher relays events to a Redis channel so other processes can subscribe.
// A single worker publishes in order; when the queue is full new events are dropped.
type RedisPublisher struct {
	channel string
	publish func(ctx context.Context, frame []byte) error
	queue   chan redisMessage
	done    chan struct{}
	dropped atomic.Int64
	once    sync.Once
}

// NewRedisPublisher creates a publisher for the given channel and starts its worker
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return newRedisPublisher(channel, redisQueueSize, func(ctx context.Context, frame []byte) error {
		return client.Publish(ctx, channel, frame).Err()
	})
}

func newRedisPublisher(channel string, size int, publish func(ctx context.Context, frame []byte) error) *RedisPublisher {
	p := &RedisPublisher{
		channel: channel,
		publish: publish,
		queue:   make(chan redisMessage, size),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *RedisPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.publish(ctx, msg.frame); err != nil {
			log.Printf("[WARNING] realtime: failed to publish %s to %s: %v", msg.event, p.channel, err)
		}
		cancel()
	}
}

// Broadcast queues the event without blocking; failures are logged and dropped
func (p *RedisPublisher) Broadcast(event string, payload any) {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("[WARNING] realtime: failed to encode %s event: %v", event, err)
		return
	}

	defer func() {
		// Broadcast after Close
		if recover() != nil {
			p.dropped.Add(1)
		}
	}()

	select {
	case p.queue <- redisMessage{event: event, frame: frame}:
	default:
		p.dropped.Add(1)
		log.Printf("[WARNING] realtime: redis queue full, dropped %s", event)
	}
}

// Dropped returns how many events were discarded
func (p *RedisPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be published
func (p *RedisPublisher) Close() {
	p.once.Do(func() { close(p.queue) })
	<-p.done
}
