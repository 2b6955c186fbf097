package service

import (
	"context"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	reviewPageSize  = 12
	reviewAnonymous = "Anonymous"
	reviewProgram   = "Student"
)

type IReviewService interface {
	Latest(ctx context.Context) ([]*dto.ReviewResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReviewService(uowFactory unitofwork.RepositoryFactory) IReviewService {
	return &reviewService{uowFactory: uowFactory}
}

func (s *reviewService) Latest(ctx context.Context) ([]*dto.ReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ReviewRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: reviewPageSize},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ReviewResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReviewResponse(r))
	}
	return out, nil
}

func (s *reviewService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.BadRequest("review text is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.BadRequest("rating must be between 1 and 5")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = reviewAnonymous
	}
	program := strings.TrimSpace(req.Program)
	if program == "" {
		program = reviewProgram
	}

	review := &entity.Review{
		Id:        uuid.New(),
		UserId:    &userId,
		Name:      name,
		Program:   program,
		Rating:    req.Rating,
		Text:      text,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReviewRepository().Create(ctx, review); err != nil {
		return nil, err
	}
	return toReviewResponse(review), nil
}

func toReviewResponse(r *entity.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		Id:        r.Id,
		Name:      r.Name,
		Program:   r.Program,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}
