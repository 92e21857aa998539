package broker

import (
	"context"
	"errors"
	"log/slog"

	"mesaYaMenu/internal/modules/realtime/domain"
	"mesaYaMenu/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers starts one consumer per registered topic. It returns
// immediately; consumers stop when ctx is cancelled.
func StartKafkaConsumers(ctx context.Context, registry *infrastructure.HandlerRegistry, brokers []string, groupID string) {
	if len(brokers) == 0 {
		slog.Info("kafka disabled, no brokers configured")
		return
	}
	for _, topic := range registry.Topics() {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
			}
		}(topic)
	}
}
