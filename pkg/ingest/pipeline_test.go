package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/extract"
	"studybuddy-be/pkg/textsplit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeDocumentRepo holds one document and records lifecycle updates.
type fakeDocumentRepo struct {
	doc *entity.Document

	statusUpdates []string
	lastError     *string
	completedWith int
	markCompleted bool
}

func (f *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error { return nil }
func (f *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error { return nil }
func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return f.doc, nil
}

func (f *fakeDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	f.lastError = errorMessage
	return nil
}

func (f *fakeDocumentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, chunkCount int) error {
	f.markCompleted = true
	f.completedWith = chunkCount
	return nil
}

type fakeChunkRepo struct {
	created   []*entity.DocumentChunk
	deletedBy []uuid.UUID
	createErr error
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, chunks...)
	return nil
}

func (f *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	f.deletedBy = append(f.deletedBy, documentId)
	return nil
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int, threshold float64) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) HasEmbeddedChunks(ctx context.Context, sessionId uuid.UUID) (bool, error) {
	return len(f.created) > 0, nil
}

// fakeUow hands out the shared fakes; Begin/Commit/Rollback only count.
type fakeUow struct {
	docs    *fakeDocumentRepo
	chunks  *fakeChunkRepo
	commits int
	rolls   int
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error {
	f.commits++
	return nil
}
func (f *fakeUow) Rollback() error {
	f.rolls++
	return nil
}

func (f *fakeUow) UserRepository() contract.UserRepository                 { return nil }
func (f *fakeUow) StudySessionRepository() contract.StudySessionRepository { return nil }
func (f *fakeUow) NoteRepository() contract.NoteRepository                 { return nil }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository   { return nil }
func (f *fakeUow) DocumentRepository() contract.DocumentRepository         { return f.docs }
func (f *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return f.chunks
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeEmbedder struct {
	dim int
	err error
}

func (f *fakeEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dim), nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

func writeTempDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestPipeline(uow *fakeUow, embedder *fakeEmbedder) *Pipeline {
	return NewPipeline(
		&fakeFactory{uow: uow},
		textsplit.NewSplitter(100, 20),
		embedder,
		memory.NewCorpusCache(),
		nopLogger{},
	)
}

func pendingDoc(t *testing.T, filePath, mimeType string) *entity.Document {
	t.Helper()
	return &entity.Document{
		Id:               uuid.New(),
		SessionId:        uuid.New(),
		UserId:           uuid.New(),
		Filename:         filepath.Base(filePath),
		OriginalFilename: "lecture-notes.txt",
		FilePath:         filePath,
		MimeType:         mimeType,
		ProcessingStatus: constant.DocumentStatusPending,
	}
}

func TestProcessTextDocument(t *testing.T) {
	path := writeTempDoc(t, strings.Repeat("Osmosis moves water across membranes.\n\n", 20))
	doc := pendingDoc(t, path, extract.MimeTypePlain)

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, constant.DocumentStatusCompleted, result.Status)
	assert.False(t, result.Skipped)
	assert.Equal(t, doc.SessionId, result.SessionId)
	assert.Equal(t, doc.UserId, result.UserId)
	assert.Greater(t, result.ChunkCount, 1)
	assert.Len(t, uow.chunks.created, result.ChunkCount)

	// Old chunks purged before the new set lands, inside one commit.
	assert.Equal(t, []uuid.UUID{doc.Id}, uow.chunks.deletedBy)
	assert.Equal(t, 1, uow.commits)
	assert.Zero(t, uow.rolls)

	assert.True(t, uow.docs.markCompleted)
	assert.Equal(t, result.ChunkCount, uow.docs.completedWith)
	assert.Equal(t, []string{constant.DocumentStatusProcessing}, uow.docs.statusUpdates)

	for i, chunk := range uow.chunks.created {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, doc.Id, chunk.DocumentId)
		assert.Equal(t, doc.SessionId, chunk.SessionId)
		assert.Len(t, chunk.Embedding, 4)
		assert.Equal(t, "lecture-notes.txt", chunk.Metadata["source"])
		assert.Equal(t, i, chunk.Metadata["chunk_index"])
	}
}

func TestProcessUnsupportedMimeTypeFailsDocument(t *testing.T) {
	path := writeTempDoc(t, "binary-ish payload")
	doc := pendingDoc(t, path, "application/zip")

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err, "terminal document failures must not bubble as errors")
	require.NotNil(t, result)

	assert.Equal(t, constant.DocumentStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMsg, "extraction")
	assert.Zero(t, result.ChunkCount)
	assert.Empty(t, uow.chunks.created)

	require.NotNil(t, uow.docs.lastError)
	assert.Equal(t, []string{constant.DocumentStatusProcessing, constant.DocumentStatusFailed}, uow.docs.statusUpdates)
}

func TestProcessMissingFileFailsDocument(t *testing.T) {
	doc := pendingDoc(t, filepath.Join(t.TempDir(), "gone.txt"), extract.MimeTypePlain)

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMsg, "read stored file")
}

func TestProcessEmptyDocumentCompletesWithZeroChunks(t *testing.T) {
	path := writeTempDoc(t, "   \n\t  ")
	doc := pendingDoc(t, path, extract.MimeTypePlain)

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err)

	// An empty document is a valid document, not a failure.
	assert.Equal(t, constant.DocumentStatusCompleted, result.Status)
	assert.Zero(t, result.ChunkCount)
	assert.Empty(t, result.ErrorMsg)
	assert.Empty(t, uow.chunks.created)

	// Old chunks (if any) are still purged so a reprocess of a now-empty
	// document serves no stale context.
	assert.Equal(t, []uuid.UUID{doc.Id}, uow.chunks.deletedBy)
	assert.True(t, uow.docs.markCompleted)
	assert.Zero(t, uow.docs.completedWith)
	assert.Equal(t, 1, uow.commits)
	assert.Nil(t, uow.docs.lastError)
}

func TestProcessEmbeddingOutageFailsDocument(t *testing.T) {
	path := writeTempDoc(t, strings.Repeat("chunked content here. ", 30))
	doc := pendingDoc(t, path, extract.MimeTypePlain)

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{err: errors.New("quota exceeded")})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMsg, "embedding failed")
	assert.Empty(t, uow.chunks.created)
}

func TestProcessAlreadyProcessingSkips(t *testing.T) {
	path := writeTempDoc(t, "content")
	doc := pendingDoc(t, path, extract.MimeTypePlain)
	doc.ProcessingStatus = constant.DocumentStatusProcessing

	uow := &fakeUow{docs: &fakeDocumentRepo{doc: doc}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	result, err := p.Process(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, uow.docs.statusUpdates)
	assert.Empty(t, uow.chunks.created)
}

func TestProcessVanishedDocumentSkips(t *testing.T) {
	uow := &fakeUow{docs: &fakeDocumentRepo{doc: nil}, chunks: &fakeChunkRepo{}}
	p := newTestPipeline(uow, &fakeEmbedder{dim: 4})

	documentId := uuid.New()
	result, err := p.Process(context.Background(), documentId)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, documentId, result.DocumentId)
}
