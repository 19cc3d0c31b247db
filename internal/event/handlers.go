package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleCustomerChangedEvent(ctx context.Context, topic string, ev CustomerChangedEvent) error {
	s.logger.InfoContext(ctx, "handling customer event",
		slog.String("topic", topic),
		slog.Any("event", ev),
	)
	return nil
}

func (s *Service) handleBeerChangedEvent(ctx context.Context, topic string, ev BeerChangedEvent) error {
	s.logger.InfoContext(ctx, "handling beer event",
		slog.String("topic", topic),
		slog.Any("event", ev),
	)
	return nil
}
