package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-knowledge-base-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	rebuildService IRebuildService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	rebuildService IRebuildService,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		rebuildService: rebuildService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Rebuilding vector index (reason: %s)", payload.Reason)

	indexed, err := cs.rebuildService.Rebuild(ctx)
	if err != nil {
		log.Printf("[ERROR] Vector index rebuild failed: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[SUCCESS] Vector index rebuilt with %d chunks (reason: %s)", indexed, payload.Reason)
	msg.Ack()
}
