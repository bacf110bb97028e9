package event

import "time"

const (
	WebchatOrdersTopic     = "webchat.orders"
	WebchatOrderStateTopic = "webchat.orders.state"

	EventOrderConfirmed     = "webchat.order.confirmed"
	EventOrderStateReplaced = "webchat.order.state_replaced"
)

// OrderConfirmedEvent is published when the conversational backend confirms
// an order during a chat session. Downstream services (operations, kitchen)
// consume it for fulfilment; fields are denormalized for display.
type OrderConfirmedEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	SessionID      string    `json:"session_id"`
	OrganizationID string    `json:"organization_id"`
	OrderReference string    `json:"order_reference"`
	CustomerName   string    `json:"customer_name,omitempty"`
	TotalAmount    float64   `json:"total_amount"`
	Language       string    `json:"language,omitempty"`
}

// OrderStateEvent carries an out-of-band order snapshot push for a live
// session. The snapshot replaces the previous one wholesale; an empty item
// list clears the order.
type OrderStateEvent struct {
	EventType  string           `json:"event_type"`
	OccurredAt time.Time        `json:"occurred_at"`
	SessionID  string           `json:"session_id"`
	Items      []OrderItemState `json:"items"`
}

// OrderItemState is one line of a pushed order snapshot.
type OrderItemState struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Modifiers []string `json:"modifiers,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}
