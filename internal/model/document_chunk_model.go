package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentChunk struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID         `gorm:"type:uuid;not null;index"`
	SessionId  uuid.UUID         `gorm:"type:uuid;not null;index"` // denormalized for session-scoped search
	ChunkIndex int               `gorm:"default:0"`                // 0-based index for ordering
	Content    string            `gorm:"type:text;not null"`
	Embedding  *pgvector.Vector  `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
