package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Filename         string         `gorm:"type:varchar(255);not null"`
	OriginalFilename string         `gorm:"type:varchar(255);not null"`
	FilePath         string         `gorm:"type:varchar(500);not null"`
	FileSize         int64          `gorm:"not null"`
	MimeType         string         `gorm:"type:varchar(100);not null"`
	ProcessingStatus string         `gorm:"type:varchar(50);default:'pending';index"` // pending, processing, completed, failed
	ProcessingError  *string        `gorm:"type:text"`
	ChunkCount       int            `gorm:"default:0"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
