// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"

	"cognihub-be/internal/dto"
	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/embedding"
	"cognihub-be/pkg/events"
	pktNats "cognihub-be/pkg/nats"
	"cognihub-be/pkg/utils"
	"cognihub-be/pkg/vector"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	ingestChunkSize    = 1500
	ingestChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
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

// sectionChunk is one split piece awaiting embedding.
type sectionChunk struct {
	section *string
	text    string
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ingest for DocId: %d", payload.DocId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %d: %v", payload.DocId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %d", payload.DocId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	// 1. Split text. Pre-split sections keep their labels; otherwise the
	// whole body is split unlabeled.
	pieces := splitForIngest(payload)
	if len(pieces) == 0 {
		log.Printf("[WARN] Document %d has no text to ingest", payload.DocId)
		msg.Ack()
		return
	}
	log.Printf("[INFO] Document %d split into %d chunks", payload.DocId, len(pieces))

	// 2. Embed every chunk in one provider call.
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.text
	}
	vectors, err := cs.embeddingProvider.Embed(ctx, texts, payload.EmbedModel)
	if err != nil {
		log.Printf("[ERROR] Failed to embed %d chunks for document %d: %v", len(texts), payload.DocId, err)
		msg.Nack()
		return
	}
	if len(vectors) != len(pieces) {
		log.Printf("[ERROR] Embedding count mismatch for document %d: want %d got %d", payload.DocId, len(pieces), len(vectors))
		msg.Nack()
		return
	}

	newChunks := make([]*entity.Chunk, len(pieces))
	embedDim := 0
	for i, p := range pieces {
		sum := sha256.Sum256([]byte(p.text))
		newChunks[i] = &entity.Chunk{
			DocId:      payload.DocId,
			ChunkIndex: i,
			Section:    p.section,
			Text:       p.text,
			Embedding:  vectors[i],
			Norm:       vector.Norm(vectors[i]),
			ChunkSHA:   hex.EncodeToString(sum[:]),
		}
		if len(vectors[i]) > embedDim {
			embedDim = len(vectors[i])
		}
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	log.Printf("[INFO] Replacing chunks for document %d", payload.DocId)
	if err := uow.ChunkRepository().DeleteByDocID(ctx, payload.DocId); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.ChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to create chunks: %v", err)
		msg.Nack()
		return
	}

	if doc.EmbedDim != embedDim {
		doc.EmbedDim = embedDim
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			log.Printf("[ERROR] Failed to update embed_dim for document %d: %v", payload.DocId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for DocId: %d", len(newChunks), payload.DocId)
	msg.Ack()

	if err := cs.eventPublisher.Publish(ctx, events.NewDocumentIngested(payload.DocId, len(newChunks))); err != nil {
		log.Printf("[WARN] Failed to publish DOCUMENT_INGESTED event: %v", err)
	}
}

func splitForIngest(payload dto.IngestDocumentMessage) []sectionChunk {
	var pieces []sectionChunk

	if len(payload.Sections) > 0 {
		for _, sec := range payload.Sections {
			if sec.Text == "" {
				continue
			}
			var label *string
			if sec.Label != "" {
				l := sec.Label
				label = &l
			}
			for _, part := range utils.SplitText(sec.Text, ingestChunkSize, ingestChunkOverlap) {
				pieces = append(pieces, sectionChunk{section: label, text: part})
			}
		}
		return pieces
	}

	if payload.Text == "" {
		return nil
	}
	for _, part := range utils.SplitText(payload.Text, ingestChunkSize, ingestChunkOverlap) {
		pieces = append(pieces, sectionChunk{text: part})
	}
	return pieces
}
