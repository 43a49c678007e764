package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type panickingPublisher struct{}

func (panickingPublisher) Broadcast(string, any) { panic("boom") }

func TestFanout(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}

	fan := Fanout{first, panickingPublisher{}, nil, second}
	assert.NotPanics(t, func() {
		fan.Broadcast("settings_updated", map[string]any{"display_mode": "light"})
	})

	assert.Equal(t, []string{"settings_updated"}, first.events)
	assert.Equal(t, []string{"settings_updated"}, second.events)
}

func newUnreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestRedisPublisherBroadcastReturnsImmediately(t *testing.T) {
	client := newUnreachableRedis()
	defer client.Close()

	pub := NewRedisPublisher(client, "printshop:events")
	defer pub.Close()

	start := time.Now()
	pub.Broadcast("order_created", map[string]any{"orderId": "x"})
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRedisPublisherKeepsOrder(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	pub := newRedisPublisher("printshop:events", 64, func(_ context.Context, frame []byte) error {
		var ev Event
		if err := json.Unmarshal(frame, &ev); err != nil {
			return err
		}
		mu.Lock()
		events = append(events, ev.Event)
		mu.Unlock()
		return nil
	})

	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("event_%02d", i)
		want = append(want, name)
		pub.Broadcast(name, map[string]any{"n": i})
	}
	pub.Close()

	assert.Equal(t, want, events)
	assert.Equal(t, int64(0), pub.Dropped())
}

func TestRedisPublisherDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	pub := newRedisPublisher("printshop:events", 1, func(context.Context, []byte) error {
		<-release
		return nil
	})

	start := time.Now()
	for i := 0; i < 10; i++ {
		pub.Broadcast("order_updated", map[string]any{"n": i})
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.Greater(t, pub.Dropped(), int64(0))

	close(release)
	pub.Close()

	pub.Broadcast("order_deleted", nil)
	assert.GreaterOrEqual(t, pub.Dropped(), int64(9))
}
