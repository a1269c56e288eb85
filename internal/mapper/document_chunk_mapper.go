package mapper

import (
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(e *model.DocumentChunk) *entity.DocumentChunk {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var embedding []float32
	if e.Embedding != nil {
		embedding = e.Embedding.Slice()
	}

	return &entity.DocumentChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		SessionId:  e.SessionId,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		Embedding:  embedding,
		Metadata:   map[string]interface{}(e.Metadata),
		CreatedAt:  e.CreatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var embedding *pgvector.Vector
	if e.Embedding != nil {
		v := pgvector.NewVector(e.Embedding)
		embedding = &v
	}

	return &model.DocumentChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		SessionId:  e.SessionId,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		Embedding:  embedding,
		Metadata:   datatypes.JSONMap(e.Metadata),
		CreatedAt:  e.CreatedAt,
		DeletedAt:  deletedAt,
	}
}
