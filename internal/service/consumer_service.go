package service

import (
	"context"
	"encoding/json"

	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/pkg/mailer"
	"cadastro-prestador-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventNotifier pushes events to the connected clients of a provider.
type EventNotifier interface {
	NotifyEvent(providerID uuid.UUID, eventType string, data map[string]interface{})
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	notifier     EventNotifier
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	notifier EventNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		notifier:     notifier,
		logger:       log,
	}
}

// Consume subscribes and handles messages until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, never retry
		return
	}

	cs.notify(env)

	email, _ := env.Data["email"].(string)
	nome, _ := env.Data["nome"].(string)
	if email == "" {
		msg.Ack()
		return
	}

	var err error
	switch env.Type {
	case events.ProviderRegistered:
		err = cs.emailService.SendWelcome(email, nome)
	case events.ProviderRegistrationCompleted:
		err = cs.emailService.SendRegistrationComplete(email, nome)
	case events.ProviderStatusChanged:
		status, _ := env.Data["status"].(string)
		err = cs.emailService.SendStatusUpdate(email, nome, status)
	default:
		msg.Ack()
		return
	}

	// mail is best effort; a Nack on the in-process bus would redeliver at once
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to send email", map[string]interface{}{
			"type":  env.Type,
			"email": email,
			"error": err.Error(),
		})
	} else {
		cs.logger.Info("CONSUMER", "Event processed", map[string]interface{}{"type": env.Type, "email": email})
	}
	msg.Ack()
}

func (cs *consumerService) notify(env events.Envelope) {
	if cs.notifier == nil {
		return
	}
	raw, _ := env.Data["provider_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return
	}
	cs.notifier.NotifyEvent(id, env.Type, env.Data)
}
