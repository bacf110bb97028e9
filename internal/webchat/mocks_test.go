package webchat

import (
	"context"
	"sync"

	"github.com/wakelyai/webchat/internal/chat"
	"github.com/wakelyai/webchat/internal/menu"
	"github.com/wakelyai/webchat/internal/order"
	"github.com/wakelyai/webchat/internal/org"
)

// MockOrgClient is a mock implementation of org.Client
type MockOrgClient struct {
	FetchOrganizationFunc func(ctx context.Context, slug string) (*org.Organization, error)
	FetchMenuFunc         func(ctx context.Context, organizationID string) ([]menu.Item, error)
}

func NewMockOrgClient() *MockOrgClient {
	return &MockOrgClient{}
}

func (m *MockOrgClient) FetchOrganization(ctx context.Context, slug string) (*org.Organization, error) {
	if m.FetchOrganizationFunc != nil {
		return m.FetchOrganizationFunc(ctx, slug)
	}
	return nil, org.ErrNotFound
}

func (m *MockOrgClient) FetchMenu(ctx context.Context, organizationID string) ([]menu.Item, error) {
	if m.FetchMenuFunc != nil {
		return m.FetchMenuFunc(ctx, organizationID)
	}
	return nil, nil
}

// MockWebhook is a mock implementation of chat.Webhook
type MockWebhook struct {
	SendFunc func(ctx context.Context, envelope chat.Envelope) (*chat.Reply, error)
}

func NewMockWebhook() *MockWebhook {
	return &MockWebhook{}
}

func (m *MockWebhook) Send(ctx context.Context, envelope chat.Envelope) (*chat.Reply, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, envelope)
	}
	return &chat.Reply{BotReply: "ok"}, nil
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

func orderStateWith(name string, quantity int, price float64) *order.State {
	return &order.State{Items: []order.Item{{Name: name, Quantity: quantity, Price: price}}}
}

func testOrganization() *org.Organization {
	return &org.Organization{
		ID:             "org-1",
		Name:           "Karak House",
		WhatsappNumber: "+966500000000",
		BusinessType:   "restaurant",
		BrandAssets: &org.BrandAssets{
			LogoURL: "https://cdn.example.com/logo.png",
			Theme:   &org.Theme{BrandColor: "#e85d2a", BackgroundColor: "#fdf8f3", SurfaceColor: "#ffffff"},
		},
	}
}

func testDeps() SessionDeps {
	orgs := NewMockOrgClient()
	orgs.FetchOrganizationFunc = func(ctx context.Context, slug string) (*org.Organization, error) {
		if slug == "karak-house" {
			return testOrganization(), nil
		}
		return nil, org.ErrNotFound
	}
	orgs.FetchMenuFunc = func(ctx context.Context, organizationID string) ([]menu.Item, error) {
		return []menu.Item{
			{Name: "Karak Tea", NameAR: "شاي كرك", Category: "drinks", Price: 8},
			{Name: "Croissant", Category: "bakery", Price: 10},
		}, nil
	}

	return SessionDeps{
		Orgs:     orgs,
		Webhook:  NewMockWebhook(),
		Receipts: NewMockReceiptRepo(),
	}
}
