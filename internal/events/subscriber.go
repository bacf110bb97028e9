package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/wakelyai/webchat/internal/order"
	"github.com/wakelyai/webchat/internal/webchat"
	"github.com/wakelyai/webchat/pkg/event"
)

// OrderStateSubscriber applies out-of-band order snapshot pushes to live
// sessions. The backend uses it to update an order between chat turns, for
// example after a kitchen-side change; the snapshot replaces the session's
// previous one wholesale, exactly like an in-reply orderState.
type OrderStateSubscriber struct {
	subscriber events.Subscriber
	registry   *webchat.Registry
	logger     apt.Logger
}

func NewOrderStateSubscriber(subscriber events.Subscriber, registry *webchat.Registry, logger apt.Logger) *OrderStateSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &OrderStateSubscriber{
		subscriber: subscriber,
		registry:   registry,
		logger:     logger,
	}
}

func (s *OrderStateSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting OrderStateSubscriber for topic: " + event.WebchatOrderStateTopic)

	if err := s.subscriber.Subscribe(ctx, event.WebchatOrderStateTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.WebchatOrderStateTopic, err)
	}

	return nil
}

func (s *OrderStateSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderStateEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal order state event: %v", err)
		return nil
	}

	if evt.EventType != event.EventOrderStateReplaced {
		s.logger.Infof("Unknown event type: %s", evt.EventType)
		return nil
	}

	session, ok := s.registry.Lookup(evt.SessionID)
	if !ok {
		// The session may live on another gateway instance or be gone.
		return nil
	}

	session.Controller.OrderStore().Replace(toState(&evt))
	s.logger.Infof("Replaced order state for session %s (%d items)", evt.SessionID, len(evt.Items))
	return nil
}

func toState(evt *event.OrderStateEvent) *order.State {
	if len(evt.Items) == 0 {
		return nil
	}
	state := &order.State{Items: make([]order.Item, 0, len(evt.Items))}
	for _, item := range evt.Items {
		modifiers := make([]order.Modifier, 0, len(item.Modifiers))
		for _, name := range item.Modifiers {
			modifiers = append(modifiers, order.Modifier{Name: name})
		}
		state.Items = append(state.Items, order.Item{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Modifiers: modifiers,
			Notes:     item.Notes,
		})
	}
	return state
}
