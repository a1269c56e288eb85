package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateStudySessionRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

type CreateStudySessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateStudySessionRequest struct {
	Id          uuid.UUID
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	IsArchived  *bool  `json:"is_archived"`
}

type UpdateStudySessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type StudySessionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	IsArchived  bool       `json:"is_archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
