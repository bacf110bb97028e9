package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wakelyai/webchat/internal/order"
)

// Role identifies the sender of a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// MessageTypeOrderConfirmation marks a webhook reply carrying a structured
// order confirmation instead of plain text.
const MessageTypeOrderConfirmation = "ORDER_CONFIRMATION"

// OrderData is the structured payload of an order confirmation message.
type OrderData struct {
	OrderReference string       `json:"orderReference"`
	CustomerName   string       `json:"customerName,omitempty"`
	TotalAmount    float64      `json:"totalAmount"`
	Items          []order.Item `json:"items,omitempty"`
	Language       string       `json:"language,omitempty"`
}

// Message is one transcript entry. Entries are append-only and never
// mutated; the only removal is the transient typing placeholder, deleted by
// id once a send settles.
type Message struct {
	ID        uuid.UUID  `json:"id"`
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Typing    bool       `json:"typing,omitempty"`
	OrderData *OrderData `json:"order_data,omitempty"`
	SentAt    time.Time  `json:"sent_at"`
}

// Transcript is the ordered message sequence of one session.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message and returns its id.
func (t *Transcript) Append(role Role, text string) uuid.UUID {
	return t.append(Message{Role: role, Text: text})
}

// AppendTyping adds the transient typing placeholder.
func (t *Transcript) AppendTyping(text string) uuid.UUID {
	return t.append(Message{Role: RoleBot, Text: text, Typing: true})
}

// AppendConfirmation adds a bot message carrying the structured order
// confirmation payload.
func (t *Transcript) AppendConfirmation(text string, data *OrderData) uuid.UUID {
	return t.append(Message{Role: RoleBot, Text: text, OrderData: data})
}

func (t *Transcript) append(msg Message) uuid.UUID {
	msg.ID = uuid.New()
	msg.SentAt = time.Now().UTC()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return msg.ID
}

// Remove deletes the message with the given id. Only typing placeholders are
// ever removed.
func (t *Transcript) Remove(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, msg := range t.messages {
		if msg.ID == id {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return
		}
	}
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of transcript entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
