package chat

import (
	"context"
	"sync"

	"github.com/wakelyai/webchat/internal/order"
)

// MockWebhook is a mock implementation of Webhook
type MockWebhook struct {
	mu       sync.Mutex
	SendFunc func(ctx context.Context, envelope Envelope) (*Reply, error)
	sent     []Envelope
}

func NewMockWebhook() *MockWebhook {
	return &MockWebhook{}
}

func (m *MockWebhook) Send(ctx context.Context, envelope Envelope) (*Reply, error) {
	m.mu.Lock()
	m.sent = append(m.sent, envelope)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, envelope)
	}
	return &Reply{BotReply: "ok"}, nil
}

func (m *MockWebhook) Sent() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.sent))
	copy(out, m.sent)
	return out
}

// MockReceiptRepo is a mock implementation of order.ReceiptRepo
type MockReceiptRepo struct {
	mu               sync.Mutex
	CreateFunc       func(ctx context.Context, receipt *order.Receipt) error
	GetBySessionFunc func(ctx context.Context, sessionID string) (*order.Receipt, error)
	created          []*order.Receipt
}

func NewMockReceiptRepo() *MockReceiptRepo {
	return &MockReceiptRepo{}
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *order.Receipt) error {
	m.mu.Lock()
	m.created = append(m.created, receipt)
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, receipt)
	}
	return nil
}

func (m *MockReceiptRepo) GetBySession(ctx context.Context, sessionID string) (*order.Receipt, error) {
	if m.GetBySessionFunc != nil {
		return m.GetBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockReceiptRepo) Created() []*order.Receipt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*order.Receipt, len(m.created))
	copy(out, m.created)
	return out
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	published   []PublishedMessage
}

type PublishedMessage struct {
	Topic   string
	Payload []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	m.published = append(m.published, PublishedMessage{Topic: topic, Payload: msg})
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}

func (m *MockPublisher) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.published))
	copy(out, m.published)
	return out
}
