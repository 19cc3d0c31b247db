package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/brewery-api/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for _, topic := range []string{TopicCustomerCreated, TopicCustomerUpdated, TopicCustomerDeleted} {
		if err := s.mqConsumer.RegisterHandler(topic, jsonHandler(s.handleCustomerChangedEvent)); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	for _, topic := range []string{TopicBeerCreated, TopicBeerUpdated, TopicBeerDeleted} {
		if err := s.mqConsumer.RegisterHandler(topic, jsonHandler(s.handleBeerChangedEvent)); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// jsonHandler decodes the payload into T before calling fn.
func jsonHandler[T any](fn func(ctx context.Context, topic string, ev T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, topic, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
