package mapper

import (
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/model"

	"gorm.io/gorm"
)

type StudySessionMapper struct{}

func NewStudySessionMapper() *StudySessionMapper {
	return &StudySessionMapper{}
}

func (m *StudySessionMapper) ToEntity(e *model.StudySession) *entity.StudySession {
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

	return &entity.StudySession{
		Id:          e.Id,
		UserId:      e.UserId,
		Title:       e.Title,
		Description: e.Description,
		Subject:     e.Subject,
		IsArchived:  e.IsArchived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *StudySessionMapper) ToModel(e *entity.StudySession) *model.StudySession {
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

	return &model.StudySession{
		Id:          e.Id,
		UserId:      e.UserId,
		Title:       e.Title,
		Description: e.Description,
		Subject:     e.Subject,
		IsArchived:  e.IsArchived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}
