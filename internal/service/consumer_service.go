package service

import (
	"context"
	"encoding/json"
	"log"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/internal/websocket"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/ingest"
	pktNats "studybuddy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	RequeueInterrupted(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	pipeline         *ingest.Pipeline
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	wsHub            *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	pipeline *ingest.Pipeline,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	wsHub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		pipeline:         pipeline,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		wsHub:            wsHub,
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

// RequeueInterrupted re-enqueues documents left in pending or processing
// state, typically after a crash mid-ingestion. The pipeline resets the
// chunk set on the rerun so nothing stale survives.
func (cs *consumerService) RequeueInterrupted(ctx context.Context) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	stuck, err := uow.DocumentRepository().FindAll(ctx, specification.ByProcessingStatus{
		Statuses: []string{constant.DocumentStatusPending, constant.DocumentStatusProcessing},
	})
	if err != nil {
		return err
	}

	for _, doc := range stuck {
		// Processing docs are stale leftovers; reset so the pipeline
		// doesn't skip them as concurrent runs.
		if doc.ProcessingStatus == constant.DocumentStatusProcessing {
			if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, constant.DocumentStatusPending, nil); err != nil {
				log.Printf("[ERROR] Failed to reset document %s: %v", doc.Id, err)
				continue
			}
		}

		msgJson, err := json.Marshal(dto.ProcessDocumentMessage{DocumentId: doc.Id})
		if err != nil {
			return err
		}
		if err := cs.publisherService.Publish(ctx, msgJson); err != nil {
			return err
		}
		log.Printf("[INFO] Requeued interrupted document %s", doc.Id)
	}

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing document: %s", payload.DocumentId)

	result, err := cs.pipeline.Process(ctx, payload.DocumentId)
	if err != nil {
		log.Printf("[ERROR] Pipeline error for document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	if !result.Skipped {
		cs.notify(ctx, result)
	}

	log.Printf("[INFO] Document %s finished with status %s (%d chunks)",
		payload.DocumentId, result.Status, result.ChunkCount)
	msg.Ack()
}

func (cs *consumerService) notify(ctx context.Context, result *ingest.Result) {
	if cs.wsHub != nil {
		cs.wsHub.SendStatus(result.UserId, websocket.StatusUpdate{
			DocumentId: result.DocumentId,
			SessionId:  result.SessionId,
			Status:     result.Status,
			ChunkCount: result.ChunkCount,
			Error:      result.ErrorMsg,
		})
	}

	if cs.eventPublisher == nil {
		return
	}

	eventType := constant.EventDocumentProcessed
	if result.Status == constant.DocumentStatusFailed {
		eventType = constant.EventDocumentFailed
	}

	evt := events.New(eventType, map[string]interface{}{
		"document_id": result.DocumentId,
		"session_id":  result.SessionId,
		"user_id":     result.UserId,
		"status":      result.Status,
		"chunk_count": result.ChunkCount,
		"error":       result.ErrorMsg,
	})
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}
