package service

import (
	"context"
	"time"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IStudySessionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateStudySessionRequest) (*dto.CreateStudySessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.StudySessionResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.StudySessionResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateStudySessionRequest) (*dto.UpdateStudySessionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type studySessionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStudySessionService(uowFactory unitofwork.RepositoryFactory) IStudySessionService {
	return &studySessionService{
		uowFactory: uowFactory,
	}
}

func (s *studySessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateStudySessionRequest) (*dto.CreateStudySessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := entity.StudySession{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		CreatedAt:   time.Now(),
	}

	if err := uow.StudySessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateStudySessionResponse{Id: session.Id}, nil
}

func (s *studySessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.StudySessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	return toStudySessionResponse(session), nil
}

func (s *studySessionService) List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.StudySessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit = clampPageSize(limit)
	sessions, err := uow.StudySessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: pageOffset(page, limit)},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.StudySessionResponse, len(sessions))
	for i, session := range sessions {
		res[i] = toStudySessionResponse(session)
	}
	return res, nil
}

func (s *studySessionService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateStudySessionRequest) (*dto.UpdateStudySessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	session.Title = req.Title
	session.Description = req.Description
	session.Subject = req.Subject
	if req.IsArchived != nil {
		session.IsArchived = *req.IsArchived
	}

	if err := uow.StudySessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.UpdateStudySessionResponse{Id: session.Id}, nil
}

func (s *studySessionService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	return uow.StudySessionRepository().Delete(ctx, id)
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func pageOffset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * limit
}

func toStudySessionResponse(session *entity.StudySession) *dto.StudySessionResponse {
	return &dto.StudySessionResponse{
		Id:          session.Id,
		Title:       session.Title,
		Description: session.Description,
		Subject:     session.Subject,
		IsArchived:  session.IsArchived,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}
