package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/tinyurl-history/internal/analytics"
	"github.com/serroba/tinyurl-history/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer1 := &mockRunnable{}
		consumer2 := &mockRunnable{}

		group.Add(consumer1)
		group.Add(consumer2)

		err := group.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, group.Len())
		assert.True(t, consumer1.started)
		assert.True(t, consumer2.started)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer1 := &mockRunnable{}
		consumer2 := &mockRunnable{startErr: errors.New("start error")}

		group.Add(consumer1)
		group.Add(consumer2)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.True(t, consumer1.started)
		assert.True(t, consumer1.shutdown) // Should be rolled back
		assert.False(t, consumer2.started)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("shuts down all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer1 := &mockRunnable{}
		consumer2 := &mockRunnable{}

		group.Add(consumer1)
		group.Add(consumer2)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.NoError(t, err)
		assert.True(t, consumer1.shutdown)
		assert.True(t, consumer2.shutdown)
	})

	t.Run("joins errors but shuts down all", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer1 := &mockRunnable{shutdownErr: errors.New("shutdown error 1")}
		consumer2 := &mockRunnable{shutdownErr: errors.New("shutdown error 2")}

		group.Add(consumer1)
		group.Add(consumer2)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown error 1")
		assert.Contains(t, err.Error(), "shutdown error 2")
		assert.True(t, consumer1.shutdown)
		assert.True(t, consumer2.shutdown) // Still attempted
	})
}

// historySink collects every history event it is handed.
type historySink struct {
	mu        sync.Mutex
	shortened []analytics.URLShortenedEvent
	cleared   []analytics.HistoryClearedEvent
}

func (s *historySink) SaveURLShortened(_ context.Context, event *analytics.URLShortenedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shortened = append(s.shortened, *event)

	return nil
}

func (s *historySink) SaveHistoryCleared(_ context.Context, event *analytics.HistoryClearedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleared = append(s.cleared, *event)

	return nil
}

func (s *historySink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.shortened), len(s.cleared)
}

func TestConsumerGroup_HistoryEvents(t *testing.T) {
	logger := zap.NewNop()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLogger(logger))
	sink := &historySink{}

	group := messaging.NewConsumerGroup(pubSub, logger)
	group.Add(messaging.NewConsumer[analytics.URLShortenedEvent](
		pubSub, analytics.TopicURLShortened, sink.SaveURLShortened, logger,
	))
	group.Add(messaging.NewConsumer[analytics.HistoryClearedEvent](
		pubSub, analytics.TopicHistoryCleared, sink.SaveHistoryCleared, logger,
	))

	require.NoError(t, group.Start(context.Background()))

	t.Cleanup(func() { _ = group.Shutdown() })

	publishShortened := messaging.NewPublishFunc[analytics.URLShortenedEvent](pubSub, analytics.TopicURLShortened)
	publishCleared := messaging.NewPublishFunc[analytics.HistoryClearedEvent](pubSub, analytics.TopicHistoryCleared)

	createdAt := time.Date(2024, 4, 19, 10, 30, 15, 0, time.UTC)

	require.NoError(t, publishShortened(context.Background(), &analytics.URLShortenedEvent{
		CollectionKey: "shortenedUrls",
		LongURL:       "https://example.com/very/long/path",
		ShortURL:      "https://tinyurl.com/abc",
		CreatedAt:     createdAt,
		RequestID:     "req-1",
	}))
	require.NoError(t, publishCleared(context.Background(), &analytics.HistoryClearedEvent{
		CollectionKey: "shortenedUrls",
		Removed:       1,
		ClearedAt:     createdAt.Add(time.Minute),
	}))

	assert.Eventually(t, func() bool {
		shortened, cleared := sink.counts()

		return shortened == 1 && cleared == 1
	}, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()

	assert.Equal(t, "https://tinyurl.com/abc", sink.shortened[0].ShortURL)
	assert.True(t, createdAt.Equal(sink.shortened[0].CreatedAt))
	assert.Equal(t, "req-1", sink.shortened[0].RequestID)
	assert.Equal(t, 1, sink.cleared[0].Removed)
}
