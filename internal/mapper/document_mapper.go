package mapper

import (
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/model"

	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(e *model.Document) *entity.Document {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:               e.Id,
		SessionId:        e.SessionId,
		UserId:           e.UserId,
		Filename:         e.Filename,
		OriginalFilename: e.OriginalFilename,
		FilePath:         e.FilePath,
		FileSize:         e.FileSize,
		MimeType:         e.MimeType,
		ProcessingStatus: e.ProcessingStatus,
		ProcessingError:  e.ProcessingError,
		ChunkCount:       e.ChunkCount,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Document{
		Id:               e.Id,
		SessionId:        e.SessionId,
		UserId:           e.UserId,
		Filename:         e.Filename,
		OriginalFilename: e.OriginalFilename,
		FilePath:         e.FilePath,
		FileSize:         e.FileSize,
		MimeType:         e.MimeType,
		ProcessingStatus: e.ProcessingStatus,
		ProcessingError:  e.ProcessingError,
		ChunkCount:       e.ChunkCount,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}
