package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/wakelyai/webchat/internal/i18n"
	"github.com/wakelyai/webchat/internal/order"
	"github.com/wakelyai/webchat/internal/storage"
	"github.com/wakelyai/webchat/pkg/event"
)

// SendTimeout is the fixed deadline for one chat turn against the webhook.
const SendTimeout = 30 * time.Second

// ErrSendInFlight is returned when a send is requested while another one is
// still pending. The request is a no-op: the transcript gains nothing.
var ErrSendInFlight = errors.New("a send is already in flight")

// Outcome classifies how a send settled.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeFailed   Outcome = "failed"
)

// SendResult summarizes one settled send.
type SendResult struct {
	Outcome        Outcome
	OrderReplaced  bool
	OrderConfirmed bool
}

// ControllerDeps carries the collaborators of a Controller.
type ControllerDeps struct {
	Transcript *Transcript
	OrderStore *order.Store
	Translator *i18n.Translator
	Webhook    Webhook
	Receipts   order.ReceiptRepo
	KV         storage.Store
	Publisher  events.Publisher
}

// Controller owns the send/receive cycle of one chat session. It enforces
// at-most-one-concurrent-send and guarantees cleanup (placeholder removed,
// send re-enabled) on every exit path.
type Controller struct {
	mu      sync.Mutex
	sending bool

	sessionID      string
	organizationID string
	whatsapp       string

	transcript *Transcript
	store      *order.Store
	tr         *i18n.Translator
	webhook    Webhook
	receipts   order.ReceiptRepo
	kv         storage.Store
	publisher  events.Publisher
	logger     apt.Logger

	now func() time.Time
}

// NewController creates a Controller for one session. SessionID is the
// user-correlation key for the backend; whatsapp is the organization's
// contact number, forwarded when known.
func NewController(sessionID, organizationID, whatsapp string, deps ControllerDeps, logger apt.Logger) *Controller {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	transcript := deps.Transcript
	if transcript == nil {
		transcript = NewTranscript()
	}
	store := deps.OrderStore
	if store == nil {
		store = order.NewStore()
	}
	return &Controller{
		sessionID:      sessionID,
		organizationID: organizationID,
		whatsapp:       whatsapp,
		transcript:     transcript,
		store:          store,
		tr:             deps.Translator,
		webhook:        deps.Webhook,
		receipts:       deps.Receipts,
		kv:             deps.KV,
		publisher:      deps.Publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// Transcript returns the session transcript.
func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

// OrderStore returns the session order store.
func (c *Controller) OrderStore() *order.Store {
	return c.store
}

// Sending reports whether a send is currently in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Send runs one chat turn: it appends the user message and a typing
// placeholder, posts the envelope to the webhook within the fixed deadline and
// interprets the reply. Exactly one bot message is appended per accepted
// send, whichever way the turn settles.
func (c *Controller) Send(ctx context.Context, text string) (*SendResult, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	c.sending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	c.transcript.Append(RoleUser, text)
	placeholderID := c.transcript.AppendTyping(c.tr.T("typing"))
	defer c.transcript.Remove(placeholderID)

	sendCtx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()

	reply, err := c.webhook.Send(sendCtx, Envelope{
		Message:        text,
		UserID:         c.sessionID,
		WhatsappNumber: c.whatsapp,
		Channel:        Channel,
	})
	if err != nil {
		if isTimeout(err) {
			c.logger.Infof("Send timed out for session %s", c.sessionID)
			c.transcript.Append(RoleBot, c.tr.T("errorTimeout"))
			return &SendResult{Outcome: OutcomeTimedOut}, nil
		}
		c.logger.Errorf("Send failed for session %s: %v", c.sessionID, err)
		c.transcript.Append(RoleBot, c.tr.T("errorGeneric"))
		return &SendResult{Outcome: OutcomeFailed}, nil
	}

	return c.applyReply(ctx, reply), nil
}

// applyReply interprets a webhook reply: order confirmation card, order
// snapshot replacement, plain bot text.
func (c *Controller) applyReply(ctx context.Context, reply *Reply) *SendResult {
	result := &SendResult{Outcome: OutcomeSuccess}

	if reply.MessageType == MessageTypeOrderConfirmation && reply.OrderData != nil {
		c.confirmOrder(ctx, reply)
		result.OrderConfirmed = true
	} else {
		text := reply.BotReply
		if text == "" {
			text = c.tr.T("errorGeneric")
		}
		c.transcript.Append(RoleBot, text)
	}

	if reply.OrderState != nil {
		c.store.Replace(reply.OrderState)
		result.OrderReplaced = true
	}

	return result
}

// confirmOrder renders the confirmation card and persists the receipt. The
// receipt lands in durable storage and in the session's last-order slot;
// fulfilment is notified over the event bus.
func (c *Controller) confirmOrder(ctx context.Context, reply *Reply) {
	data := reply.OrderData

	text := reply.BotReply
	if text == "" {
		text = c.tr.T("orderConfirmed")
	}
	c.transcript.AppendConfirmation(text, data)

	confirmedAt := c.now().UTC()
	receipt := &order.Receipt{
		SessionID:      c.sessionID,
		OrganizationID: c.organizationID,
		OrderReference: data.OrderReference,
		CustomerName:   data.CustomerName,
		TotalAmount:    data.TotalAmount,
		Language:       data.Language,
		ConfirmedAt:    confirmedAt,
		ExpiresAt:      confirmedAt.Add(order.ReceiptTTL),
	}

	if c.receipts != nil {
		if err := c.receipts.Create(ctx, receipt); err != nil {
			c.logger.Errorf("Cannot persist receipt for session %s: %v", c.sessionID, err)
		}
	}

	if c.kv != nil {
		if raw, err := json.Marshal(receipt); err == nil {
			c.kv.Set(storage.KeyLastOrder, string(raw))
		}
	}

	c.publishConfirmed(ctx, receipt)
}

func (c *Controller) publishConfirmed(ctx context.Context, receipt *order.Receipt) {
	if c.publisher == nil {
		return
	}

	evt := event.OrderConfirmedEvent{
		EventType:      event.EventOrderConfirmed,
		OccurredAt:     receipt.ConfirmedAt,
		SessionID:      receipt.SessionID,
		OrganizationID: receipt.OrganizationID,
		OrderReference: receipt.OrderReference,
		CustomerName:   receipt.CustomerName,
		TotalAmount:    receipt.TotalAmount,
		Language:       receipt.Language,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		c.logger.Errorf("Cannot encode order confirmed event: %v", err)
		return
	}
	if err := c.publisher.Publish(ctx, event.WebchatOrdersTopic, payload); err != nil {
		c.logger.Errorf("Cannot publish order confirmed event: %v", err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
