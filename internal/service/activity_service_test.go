package service

import (
	"context"
	"testing"
	"time"

	"ai-knowledge-base-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	types    []string
	payloads []map[string]interface{}
}

func (f *fakeDelivery) Broadcast(activityType string, payload map[string]interface{}) {
	f.types = append(f.types, activityType)
	f.payloads = append(f.payloads, payload)
}

func TestHandleEventStripsSubjectPrefixAndBroadcasts(t *testing.T) {
	delivery := &fakeDelivery{}
	svc := NewActivityService(nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type:       "events.ITEM_INGESTED",
		Data:       map[string]interface{}{"item_id": "abc", "chunk_count": 3},
		OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	require.Len(t, delivery.types, 1)
	assert.Equal(t, "ITEM_INGESTED", delivery.types[0])
	assert.Equal(t, "abc", delivery.payloads[0]["item_id"])
}

func TestHandleEventWithoutDeliveryIsNoop(t *testing.T) {
	svc := NewActivityService(nil, nil, nopLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{Type: "ITEM_DELETED"})

	require.NoError(t, err)
}
