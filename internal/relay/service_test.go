package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/brewery-api/internal/config"
	"github.com/tuanvumaihuynh/brewery-api/internal/event"
	"github.com/tuanvumaihuynh/brewery-api/internal/relay"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository/repotest"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/mq"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
)

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
	slowOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.slowOn {
		time.Sleep(50 * time.Millisecond)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func (p *fakeProducer) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, 0, len(p.produced))
	for _, m := range p.produced {
		topics = append(topics, m.Topic)
	}
	return topics
}

func seedOutbox(t *testing.T, store *repotest.OutboxStore, topics ...string) {
	t.Helper()
	seedOutboxWithKey(t, store, "1", topics...)
}

func seedOutboxWithKey(t *testing.T, store *repotest.OutboxStore, key string, topics ...string) {
	t.Helper()
	for _, topic := range topics {
		require.NoError(t, store.CreateOutboxMsg(context.Background(), repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      map[string]string{},
			Payload:      json.RawMessage(`{}`),
			PartitionKey: ptr.New(key),
		}))
	}
}

func TestService_RelayBatch(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("Should produce and mark every message", func(t *testing.T) {
		store := repotest.NewOutboxStore()
		seedOutbox(t, store, event.TopicCustomerCreated, event.TopicBeerCreated, event.TopicBeerDeleted)
		producer := &fakeProducer{}
		svc := relay.NewService(config.Relay{BatchSize: 10, Concurrency: 2}, logger, repotest.DB{}, store, producer)

		handled, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, handled)
		assert.ElementsMatch(t, []string{event.TopicCustomerCreated, event.TopicBeerCreated, event.TopicBeerDeleted}, producer.topics())

		for _, msg := range store.Msgs() {
			assert.True(t, msg.Processed)
			assert.Nil(t, msg.Error)
		}

		handled, err = svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, handled)
	})

	t.Run("Should keep order for the same partition key", func(t *testing.T) {
		store := repotest.NewOutboxStore()
		seedOutbox(t, store, event.TopicCustomerCreated, event.TopicCustomerDeleted)
		producer := &fakeProducer{slowOn: event.TopicCustomerCreated}
		svc := relay.NewService(config.Relay{BatchSize: 10, Concurrency: 8}, logger, repotest.DB{}, store, producer)

		handled, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, handled)
		assert.Equal(t, []string{event.TopicCustomerCreated, event.TopicCustomerDeleted}, producer.topics())
	})

	t.Run("Should not hold back other partition keys", func(t *testing.T) {
		store := repotest.NewOutboxStore()
		seedOutboxWithKey(t, store, "1", event.TopicCustomerCreated)
		seedOutboxWithKey(t, store, "2", event.TopicBeerCreated)
		producer := &fakeProducer{slowOn: event.TopicCustomerCreated}
		svc := relay.NewService(config.Relay{BatchSize: 10, Concurrency: 8}, logger, repotest.DB{}, store, producer)

		handled, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, handled)
		assert.Equal(t, []string{event.TopicBeerCreated, event.TopicCustomerCreated}, producer.topics())
	})

	t.Run("Should respect batch size", func(t *testing.T) {
		store := repotest.NewOutboxStore()
		seedOutbox(t, store, event.TopicCustomerCreated, event.TopicCustomerUpdated, event.TopicCustomerDeleted)
		svc := relay.NewService(config.Relay{BatchSize: 2}, logger, repotest.DB{}, store, &fakeProducer{})

		handled, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, handled)

		handled, err = svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, handled)
	})

	t.Run("Should record produce failures", func(t *testing.T) {
		store := repotest.NewOutboxStore()
		seedOutbox(t, store, event.TopicCustomerCreated, event.TopicBeerUpdated)
		producer := &fakeProducer{failOn: event.TopicBeerUpdated}
		svc := relay.NewService(config.Relay{BatchSize: 10}, logger, repotest.DB{}, store, producer)

		handled, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, handled)

		for _, msg := range store.Msgs() {
			assert.True(t, msg.Processed)
			if msg.Topic == event.TopicBeerUpdated {
				require.NotNil(t, msg.Error)
				assert.Contains(t, *msg.Error, "broker unavailable")
			} else {
				assert.Nil(t, msg.Error)
			}
		}
	})
}

func TestService_Run(t *testing.T) {
	store := repotest.NewOutboxStore()
	seedOutbox(t, store, event.TopicCustomerCreated)
	producer := &fakeProducer{}
	svc := relay.NewService(config.Relay{BatchSize: 10, Interval: 10 * time.Millisecond}, slog.New(slog.DiscardHandler), repotest.DB{}, store, producer)

	cleanup := svc.Run(context.Background())
	defer cleanup()

	assert.Eventually(t, func() bool {
		return len(producer.topics()) == 1
	}, time.Second, 10*time.Millisecond)
}
