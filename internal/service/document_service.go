package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/extract"
	pktNats "studybuddy-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrAlreadyProcessing   = errors.New("document is already being processed")
)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, fileHeader *multipart.FileHeader) (*dto.UploadDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	ListBySession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, page, limit int) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Reprocess(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	corpusCache      *memory.CorpusCache
	uploadDir        string
	maxUploadBytes   int64
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	corpusCache *memory.CorpusCache,
	uploadDir string,
	maxUploadSizeMB int,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		corpusCache:      corpusCache,
		uploadDir:        uploadDir,
		maxUploadBytes:   int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, fileHeader *multipart.FileHeader) (*dto.UploadDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("study session not found")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !extract.IsSupported(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
	if fileHeader.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	// Stored name is unique; the original name only lives in the row.
	storedName := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	filePath := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	if err := saveMultipartFile(fileHeader, filePath); err != nil {
		return nil, err
	}

	document := &entity.Document{
		Id:               uuid.New(),
		SessionId:        sessionId,
		UserId:           userId,
		Filename:         storedName,
		OriginalFilename: fileHeader.Filename,
		FilePath:         filePath,
		FileSize:         fileHeader.Size,
		MimeType:         mimeType,
		ProcessingStatus: constant.DocumentStatusPending,
		CreatedAt:        time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	if err := s.enqueue(ctx, document.Id); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(constant.EventDocumentUploaded, map[string]interface{}{
			"document_id": document.Id,
			"session_id":  sessionId,
			"user_id":     userId,
			"filename":    document.OriginalFilename,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_UPLOADED event: %v", err)
		}
	}

	return &dto.UploadDocumentResponse{
		Id:               document.Id,
		OriginalFilename: document.OriginalFilename,
		ProcessingStatus: document.ProcessingStatus,
	}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	return toDocumentResponse(document), nil
}

func (s *documentService) ListBySession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, page, limit int) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit = clampPageSize(limit)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: pageOffset(page, limit)},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentResponse, len(documents))
	for i, document := range documents {
		res[i] = toDocumentResponse(document)
	}
	return res, nil
}

// Delete removes the document, its chunks, and the stored file. Chunk
// removal and row removal share a transaction; file removal is best
// effort afterwards.
func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.corpusCache.Invalidate(document.SessionId)

	if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to remove stored file %s: %v", document.FilePath, err)
	}

	return nil
}

// Reprocess re-runs ingestion for a completed or failed document. A
// document mid-flight is left alone.
func (s *documentService) Reprocess(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return errors.New("document not found")
	}
	if document.ProcessingStatus == constant.DocumentStatusProcessing {
		return ErrAlreadyProcessing
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, id, constant.DocumentStatusPending, nil); err != nil {
		return err
	}

	return s.enqueue(ctx, id)
}

func (s *documentService) enqueue(ctx context.Context, documentId uuid.UUID) error {
	msgJson, err := json.Marshal(dto.ProcessDocumentMessage{DocumentId: documentId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, msgJson)
}

func saveMultipartFile(fileHeader *multipart.FileHeader, dst string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		return err
	}
	return nil
}

func toDocumentResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:               document.Id,
		SessionId:        document.SessionId,
		OriginalFilename: document.OriginalFilename,
		MimeType:         document.MimeType,
		FileSize:         document.FileSize,
		ProcessingStatus: document.ProcessingStatus,
		ProcessingError:  document.ProcessingError,
		ChunkCount:       document.ChunkCount,
		CreatedAt:        document.CreatedAt,
	}
}
