package service

import (
	"context"
	"encoding/json"
	"fmt"

	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	events.Publisher
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	external  events.Publisher
	logger    logger.ILogger
}

// NewPublisherService publishes on the in-process bus and, when external is
// not nil, mirrors every event there. External failures are logged only.
func NewPublisherService(topicName string, publisher message.Publisher, external events.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		external:  external,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(events.ToEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}

	if p.external != nil {
		if err := p.external.Publish(ctx, event); err != nil {
			p.logger.Warn("EVENTS", "Failed to mirror event to NATS", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
