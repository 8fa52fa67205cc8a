package service

import (
	"context"
	"encoding/json"

	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains in-process domain events into the system log.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	eventTypes []string
	logger     logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, log logger.ILogger, eventTypes ...string) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		eventTypes: eventTypes,
		logger:     log,
	}
}

// Consume subscribes to every configured event type and returns once the
// subscriptions are in place. Delivery stops when ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	for _, eventType := range cs.eventTypes {
		messages, err := cs.pubSub.Subscribe(ctx, events.Subject(eventType))
		if err != nil {
			return err
		}

		go func() {
			for msg := range messages {
				cs.processMessage(msg)
			}
		}()
	}
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // redelivery cannot fix a malformed payload
		return
	}

	cs.logger.Info("EVENTS", env.Type, map[string]interface{}{
		"message_id":  msg.UUID,
		"occurred_at": env.OccurredAt,
		"data":        env.Data,
	})
	msg.Ack()
}
