package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReceiptTTL is how long a confirmed-order receipt stays valid.
const ReceiptTTL = 24 * time.Hour

// Receipt records a confirmed order. It is written once when the backend
// confirms and read back on session reload until it expires.
type Receipt struct {
	ID             uuid.UUID `json:"id" bson:"_id"`
	SessionID      string    `json:"session_id" bson:"session_id"`
	OrganizationID string    `json:"organization_id" bson:"organization_id"`
	OrderReference string    `json:"order_reference" bson:"order_reference"`
	CustomerName   string    `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	TotalAmount    float64   `json:"total_amount" bson:"total_amount"`
	Language       string    `json:"language,omitempty" bson:"language,omitempty"`
	ConfirmedAt    time.Time `json:"confirmed_at" bson:"confirmed_at"`
	ExpiresAt      time.Time `json:"expires_at" bson:"expires_at"`
}

// EnsureID generates a new UUID if ID is nil
func (r *Receipt) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
}

// GetID returns the receipt ID
func (r *Receipt) GetID() uuid.UUID {
	return r.ID
}

// ResourceType returns the resource type for URL generation
func (r *Receipt) ResourceType() string {
	return "webchat/receipt"
}

// BeforeCreate sets up the receipt before persisting it.
func (r *Receipt) BeforeCreate() {
	r.EnsureID()
	if r.ConfirmedAt.IsZero() {
		r.ConfirmedAt = time.Now().UTC()
	}
	if r.ExpiresAt.IsZero() {
		r.ExpiresAt = r.ConfirmedAt.Add(ReceiptTTL)
	}
}

// Expired reports whether the receipt is past its validity window.
func (r *Receipt) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// ReceiptRepo is the durable store for confirmed-order receipts.
type ReceiptRepo interface {
	Create(ctx context.Context, receipt *Receipt) error
	GetBySession(ctx context.Context, sessionID string) (*Receipt, error)
}
