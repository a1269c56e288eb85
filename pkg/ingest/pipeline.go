// Package ingest turns an uploaded document into embedded, searchable
// chunks: extract text, split, embed, replace the document's chunk set
// atomically, then mark the document completed.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/embedding"
	"studybuddy-be/pkg/extract"
	"studybuddy-be/pkg/textsplit"

	"github.com/google/uuid"
)

// embedBatchSize caps how many chunks go to the embedding backend per
// request.
const embedBatchSize = 100

// Result summarizes one pipeline run for the caller (event publishing,
// status push). A failed run is still a nil-error Result; the error
// return is reserved for lookups the pipeline could not even start.
type Result struct {
	DocumentId uuid.UUID
	SessionId  uuid.UUID
	UserId     uuid.UUID
	Status     string
	ChunkCount int
	ErrorMsg   string
	Skipped    bool
}

type Pipeline struct {
	uowFactory  unitofwork.RepositoryFactory
	splitter    *textsplit.Splitter
	embedder    embedding.Provider
	corpusCache *memory.CorpusCache
	logger      logger.ILogger
}

func NewPipeline(
	uowFactory unitofwork.RepositoryFactory,
	splitter *textsplit.Splitter,
	embedder embedding.Provider,
	corpusCache *memory.CorpusCache,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		uowFactory:  uowFactory,
		splitter:    splitter,
		embedder:    embedder,
		corpusCache: corpusCache,
		logger:      log,
	}
}

// Process runs the full ingestion for one document. Processing failures
// (bad file, embedding outage) are terminal for the document: it is
// marked failed with a human-readable reason and Process returns a
// failed Result with a nil error, so queue consumers ack instead of
// retrying forever.
func (p *Pipeline) Process(ctx context.Context, documentId uuid.UUID) (*Result, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		// Deleted between upload and pickup. Nothing to do.
		p.logger.Warn("ingest.pipeline", "document vanished before processing", map[string]interface{}{
			"document_id": documentId,
		})
		return &Result{DocumentId: documentId, Skipped: true}, nil
	}

	result := &Result{
		DocumentId: doc.Id,
		SessionId:  doc.SessionId,
		UserId:     doc.UserId,
	}

	if doc.ProcessingStatus == constant.DocumentStatusProcessing {
		p.logger.Warn("ingest.pipeline", "document already processing, skipping", map[string]interface{}{
			"document_id": doc.Id,
		})
		result.Skipped = true
		result.Status = doc.ProcessingStatus
		return result, nil
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, constant.DocumentStatusProcessing, nil); err != nil {
		return nil, err
	}

	p.logger.Info("ingest.pipeline", "processing started", map[string]interface{}{
		"document_id": doc.Id,
		"session_id":  doc.SessionId,
		"mime_type":   doc.MimeType,
	})

	chunks, failReason := p.buildChunks(ctx, doc)
	if failReason != "" {
		return p.fail(ctx, uow, result, failReason)
	}

	if err := p.storeChunks(ctx, doc, chunks); err != nil {
		return p.fail(ctx, uow, result, fmt.Sprintf("failed to store chunks: %v", err))
	}

	p.corpusCache.Invalidate(doc.SessionId)

	result.Status = constant.DocumentStatusCompleted
	result.ChunkCount = len(chunks)
	p.logger.Info("ingest.pipeline", "processing completed", map[string]interface{}{
		"document_id": doc.Id,
		"chunk_count": len(chunks),
	})
	return result, nil
}

// buildChunks does the read -> extract -> split -> embed part. On
// failure it returns an empty slice and a reason suitable for the
// document's processing_error column. No chunks with an empty reason
// means the document legitimately has no text.
func (p *Pipeline) buildChunks(ctx context.Context, doc *entity.Document) ([]*entity.DocumentChunk, string) {
	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return nil, fmt.Sprintf("failed to read stored file: %v", err)
	}

	text, err := extract.Extract(data, doc.MimeType)
	if err != nil {
		return nil, fmt.Sprintf("text extraction failed: %v", err)
	}

	// An empty document is valid: it completes with zero chunks rather
	// than failing.
	if strings.TrimSpace(text) == "" {
		return nil, ""
	}

	contents := p.splitter.Split(text)
	if len(contents) == 0 {
		return nil, ""
	}

	vectors, err := p.embedAll(ctx, contents)
	if err != nil {
		return nil, fmt.Sprintf("embedding failed: %v", err)
	}

	chunks := make([]*entity.DocumentChunk, len(contents))
	for i, content := range contents {
		chunks[i] = &entity.DocumentChunk{
			DocumentId: doc.Id,
			SessionId:  doc.SessionId,
			ChunkIndex: i,
			Content:    content,
			Embedding:  vectors[i],
			Metadata: map[string]interface{}{
				"source":      doc.OriginalFilename,
				"chunk_index": i,
			},
		}
	}
	return chunks, ""
}

func (p *Pipeline) embedAll(ctx context.Context, contents []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(contents))
	for start := 0; start < len(contents); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(contents) {
			end = len(contents)
		}
		batch, err := p.embedder.EmbedMany(ctx, contents[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// storeChunks replaces the document's chunk set and marks it completed
// in one transaction, so a reprocess never leaves a mix of old and new
// chunks visible.
func (p *Pipeline) storeChunks(ctx context.Context, doc *entity.Document, chunks []*entity.DocumentChunk) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		uow.Rollback()
		return err
	}
	if len(chunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			uow.Rollback()
			return err
		}
	}
	if err := uow.DocumentRepository().MarkCompleted(ctx, doc.Id, len(chunks)); err != nil {
		uow.Rollback()
		return err
	}

	return uow.Commit()
}

// fail records the terminal failed status. Zero chunks are kept so a
// half-processed document never serves stale context.
func (p *Pipeline) fail(ctx context.Context, uow unitofwork.UnitOfWork, result *Result, reason string) (*Result, error) {
	p.logger.Error("ingest.pipeline", "processing failed", map[string]interface{}{
		"document_id": result.DocumentId,
		"reason":      reason,
	})

	if err := uow.DocumentRepository().UpdateStatus(ctx, result.DocumentId, constant.DocumentStatusFailed, &reason); err != nil {
		p.logger.Error("ingest.pipeline", "failed to record failure status", map[string]interface{}{
			"document_id": result.DocumentId,
			"error":       err.Error(),
		})
	}

	result.Status = constant.DocumentStatusFailed
	result.ErrorMsg = reason
	return result, nil
}
