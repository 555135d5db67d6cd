package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message/subscriber"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	kind, to, nome, status string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) record(s sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, s)
	return nil
}

func (m *fakeMailer) SendWelcome(toEmail, nome string) error {
	return m.record(sentMail{kind: "welcome", to: toEmail, nome: nome})
}

func (m *fakeMailer) SendRegistrationComplete(toEmail, nome string) error {
	return m.record(sentMail{kind: "complete", to: toEmail, nome: nome})
}

func (m *fakeMailer) SendStatusUpdate(toEmail, nome, status string) error {
	return m.record(sentMail{kind: "status", to: toEmail, nome: nome, status: status})
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeNotifier struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (n *fakeNotifier) NotifyEvent(providerID uuid.UUID, eventType string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, providerID)
}

func (n *fakeNotifier) got() []uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uuid.UUID(nil), n.ids...)
}

func TestPublisherFeedsConsumer(t *testing.T) {
	const topic = "provider_events"
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mail := &fakeMailer{}
	notifier := &fakeNotifier{}
	require.NoError(t, NewConsumerService(pubSub, topic, mail, notifier, logger.NewNopLogger()).Consume(ctx))

	mirror := &recordingPublisher{}
	providerID := uuid.New()
	pub := NewPublisherService(topic, pubSub, mirror, logger.NewNopLogger())

	send := func(eventType string, data map[string]interface{}) {
		require.NoError(t, pub.Publish(ctx, events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}))
	}
	send(events.ProviderRegistered, map[string]interface{}{"email": "a@b.com", "nome": "Ana"})
	send(events.ProviderStatusChanged, map[string]interface{}{"provider_id": providerID.String(), "email": "a@b.com", "nome": "Ana", "status": "aprovado"})
	send("SOMETHING_ELSE", map[string]interface{}{"email": "a@b.com"})
	send(events.ProviderRegistrationCompleted, map[string]interface{}{"nome": "sem email"})

	require.Eventually(t, func() bool { return len(mail.all()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []sentMail{
		{kind: "welcome", to: "a@b.com", nome: "Ana"},
		{kind: "status", to: "a@b.com", nome: "Ana", status: "aprovado"},
	}, mail.all())
	assert.Len(t, mirror.types(), 4)
	require.Eventually(t, func() bool { return len(notifier.got()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, providerID, notifier.got()[0])
}

func TestPublisherEnvelope(t *testing.T) {
	const topic = "provider_events"
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()

	pub := NewPublisherService(topic, pubSub, nil, logger.NewNopLogger())
	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, pub.Publish(context.Background(), events.BaseEvent{
		Type:       events.ProviderRegistered,
		Data:       map[string]interface{}{"email": "a@b.com"},
		OccurredAt: occurred,
	}))

	messages, err := pubSub.Subscribe(context.Background(), topic)
	require.NoError(t, err)
	received, all := subscriber.BulkRead(messages, 1, time.Second)
	require.True(t, all)

	assert.JSONEq(t,
		`{"type":"PROVIDER_REGISTERED","data":{"email":"a@b.com"},"occurredAt":"2026-01-02T03:04:05Z"}`,
		string(received[0].Payload))
}
