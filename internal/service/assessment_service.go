package service

import (
	"context"
	"errors"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/assessment"
	"mitr-be/pkg/catalog"
	"mitr-be/pkg/events"

	"github.com/google/uuid"
)

type IAssessmentService interface {
	Questions() *dto.AssessmentQuestionsResponse
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitAssessmentRequest) (*dto.AssessmentResponse, error)
	History(ctx context.Context, userId uuid.UUID) ([]*dto.AssessmentResponse, error)
	Trend(ctx context.Context, userId uuid.UUID) ([]dto.TrendPoint, error)
}

type assessmentService struct {
	uowFactory     unitofwork.RepositoryFactory
	catalog        *catalog.Catalog
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewAssessmentService(uowFactory unitofwork.RepositoryFactory, cat *catalog.Catalog, eventPublisher events.Publisher, log logger.ILogger) IAssessmentService {
	return &assessmentService{
		uowFactory:     uowFactory,
		catalog:        cat,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *assessmentService) Questions() *dto.AssessmentQuestionsResponse {
	return &dto.AssessmentQuestionsResponse{
		Type:      assessment.TypeGAD7,
		Questions: assessment.Questions(),
		Choices:   assessment.Choices(),
	}
}

func (s *assessmentService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitAssessmentRequest) (*dto.AssessmentResponse, error) {
	ctx, span := tracer.Start(ctx, "Assessment.Submit")
	defer span.End()

	kind := req.Type
	if kind == "" {
		kind = assessment.TypeGAD7
	}
	if kind != assessment.TypeGAD7 {
		return nil, apperror.BadRequest("unsupported assessment type")
	}

	result, err := assessment.Score(req.Answers)
	if err != nil {
		if errors.Is(err, assessment.ErrIncomplete) {
			return nil, apperror.BadRequest(err.Error())
		}
		return nil, recordError(span, err)
	}

	answers := make([]int, len(req.Answers))
	copy(answers, req.Answers)

	record := &entity.Assessment{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      kind,
		Score:     result.Score,
		Answers:   answers,
		Severity:  string(result.Severity),
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssessmentRepository().Create(ctx, record); err != nil {
		return nil, recordError(span, err)
	}

	metrics.RecordAssessment(kind, record.Severity)
	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.AssessmentCompleted, map[string]interface{}{
		"user_id":     userId.String(),
		"entity_type": "assessment",
		"entity_id":   record.Id.String(),
		"score":       record.Score,
		"severity":    record.Severity,
	}))

	resp := toAssessmentResponse(record)
	resp.Label = result.Label
	resp.Advice = result.Advice
	if result.Severity == assessment.SeveritySevere {
		resp.Helplines = s.catalog.Helplines
	}
	return resp, nil
}

func (s *assessmentService) History(ctx context.Context, userId uuid.UUID) ([]*dto.AssessmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AssessmentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.AssessmentResponse, 0, len(rows))
	for _, row := range rows {
		resp := toAssessmentResponse(row)
		resp.Label = assessment.Band(assessment.Severity(row.Severity)).Label
		out = append(out, resp)
	}
	return out, nil
}

func (s *assessmentService) Trend(ctx context.Context, userId uuid.UUID) ([]dto.TrendPoint, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AssessmentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	points := make([]dto.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.TrendPoint{
			Date:      row.CreatedAt.Format("2006-01-02"),
			Score:     row.Score,
			Sentiment: assessment.Sentiment(row.Score),
		})
	}
	return points, nil
}

func toAssessmentResponse(a *entity.Assessment) *dto.AssessmentResponse {
	return &dto.AssessmentResponse{
		Id:        a.Id,
		Type:      a.Type,
		Score:     a.Score,
		Answers:   a.Answers,
		Severity:  a.Severity,
		Sentiment: assessment.Sentiment(a.Score),
		CreatedAt: a.CreatedAt,
	}
}
