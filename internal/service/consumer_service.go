package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/internal/websocket"
	"dhcp-admin-be/pkg/audit"
	"dhcp-admin-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the mutation topic: every record mutation is
// forwarded to the audit stream and the attached tabs get a refresh
// push. The save path itself never waits on either.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	auditTrail *audit.Publisher
	hub        *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditTrail *audit.Publisher,
	hub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		auditTrail: auditTrail,
		hub:        hub,
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
	var payload dto.PublishRecordMutationMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal mutation message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	evt := events.NewRecordEvent(payload.EventType, payload.WorkspaceId, payload.Endpoint, payload.RecordId)

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cs.auditTrail.Publish(pubCtx, evt); err != nil {
		log.Printf("[WARN] Failed to publish audit event %s: %v", payload.EventType, err)
	}

	if cs.hub != nil {
		cs.hub.BroadcastRefresh(payload.WorkspaceId, payload.EventType)
	}

	msg.Ack()
}
