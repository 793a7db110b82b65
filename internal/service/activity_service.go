package service

import (
	"context"
	"fmt"
	"strings"

	"ai-knowledge-base-be/internal/pkg/logger"
	"ai-knowledge-base-be/pkg/events"
	pktNats "ai-knowledge-base-be/pkg/nats"
)

// ActivityDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type ActivityDelivery interface {
	Broadcast(activityType string, payload map[string]interface{})
}

// ActivityService relays domain events from the event bus to connected
// websocket clients so dashboards can watch ingests, deletes and index
// rebuilds as they happen.
type ActivityService struct {
	subscriber *pktNats.Subscriber
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewActivityService(sub *pktNats.Subscriber, delivery ActivityDelivery, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ActivityService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "activity-stream-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started, listening to events.>", nil)
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	// The NATS subject carries the stream prefix, clients only care about
	// the bare event type.
	activityType := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("ActivityService", fmt.Sprintf("Relaying event: %s", activityType), map[string]interface{}{"type": activityType})

	if s.delivery != nil {
		s.delivery.Broadcast(activityType, event.Payload())
	}
	return nil
}
