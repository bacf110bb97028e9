package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wakelyai/webchat/internal/order"
)

// Channel is the fixed channel tag stamped on every outbound envelope.
const Channel = "web"

// Envelope is the outbound chat turn sent to the conversational backend.
// Correlation is solely via UserID, the session identifier.
type Envelope struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
	Channel        string `json:"channel"`
}

// Reply is the webhook response for one chat turn. Every field is optional;
// OrderState, when present, replaces the session's order snapshot wholesale.
type Reply struct {
	BotReply    string       `json:"BotReply,omitempty"`
	OrderState  *order.State `json:"orderState,omitempty"`
	MessageType string       `json:"messageType,omitempty"`
	OrderData   *OrderData   `json:"orderData,omitempty"`
}

// Webhook delivers a chat turn to the conversational backend.
type Webhook interface {
	Send(ctx context.Context, envelope Envelope) (*Reply, error)
}

// HTTPWebhook implements Webhook over plain HTTP POST. The request deadline
// comes from the caller's context; the controller bounds every send.
type HTTPWebhook struct {
	url        string
	httpClient *http.Client
}

func NewHTTPWebhook(url string) *HTTPWebhook {
	return &HTTPWebhook{
		url:        url,
		httpClient: &http.Client{},
	}
}

// Send posts the envelope and decodes the reply.
func (w *HTTPWebhook) Send(ctx context.Context, envelope Envelope) (*Reply, error) {
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("cannot encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode webhook reply: %w", err)
	}

	return &reply, nil
}
