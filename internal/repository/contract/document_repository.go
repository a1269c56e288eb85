package contract

import (
	"context"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateStatus moves a document through its processing lifecycle.
	// errorMessage is only recorded for the failed status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
	// MarkCompleted sets status completed together with the final chunk count.
	MarkCompleted(ctx context.Context, id uuid.UUID, chunkCount int) error
}
