package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/events"
	"mitr-be/pkg/insight"
	"mitr-be/pkg/llm"
	"mitr-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	HealthRecordBucket = "health-records"
	analyzeFeature     = "health_analyze"
)

type IHealthRecordService interface {
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadHealthRecordRequest, file io.Reader) (*dto.HealthRecordResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.HealthRecordResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	// OpenFile returns the stored object with its original name and content type.
	OpenFile(ctx context.Context, userId uuid.UUID, id uuid.UUID) (io.ReadCloser, string, string, error)

	Analyze(ctx context.Context, userId uuid.UUID, recordId uuid.UUID) (*dto.InsightResponse, error)
	LatestInsight(ctx context.Context, userId uuid.UUID, recordId uuid.UUID) (*dto.InsightResponse, error)
	Trends(ctx context.Context, userId uuid.UUID) (*dto.TrendsResponse, error)
}

type healthRecordService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          storage.ObjectStore
	provider       llm.LLMProvider
	eventPublisher events.Publisher
	baseURL        string
	logger         logger.ILogger
	now            func() time.Time
}

// NewHealthRecordService accepts a nil provider; analysis then always uses
// the offline insight.
func NewHealthRecordService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStore,
	provider llm.LLMProvider,
	eventPublisher events.Publisher,
	baseURL string,
	log logger.ILogger,
) IHealthRecordService {
	return &healthRecordService{
		uowFactory:     uowFactory,
		store:          store,
		provider:       provider,
		eventPublisher: eventPublisher,
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         log,
		now:            time.Now,
	}
}

// mergeStoragePath validates the metadata text and stamps storage_path into it.
func mergeStoragePath(raw string, storagePath string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, apperror.BadRequest("metadata must be a JSON object")
	}

	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, apperror.BadRequest("metadata must be a JSON object")
	}
	fields["storage_path"] = storagePath
	return json.Marshal(fields)
}

func (s *healthRecordService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadHealthRecordRequest, file io.Reader) (*dto.HealthRecordResponse, error) {
	ctx, span := tracer.Start(ctx, "HealthRecord.Upload")
	defer span.End()

	if !req.Consent {
		return nil, apperror.BadRequest("consent is required to upload a health record")
	}
	recordType := strings.TrimSpace(req.RecordType)
	if recordType == "" {
		return nil, apperror.BadRequest("record_type is required")
	}
	fileName := filepath.Base(strings.TrimSpace(req.FileName))
	if file == nil || fileName == "" || fileName == "." || fileName == "/" {
		return nil, apperror.BadRequest("file is required")
	}

	id := uuid.New()
	storagePath := fmt.Sprintf("%s/%s-%s", userId, id, fileName)
	metadata, err := mergeStoragePath(req.Metadata, storagePath)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, HealthRecordBucket, storagePath, file); err != nil {
		return nil, recordError(span, errors.Wrap(err, "store health record"))
	}

	record := &entity.HealthRecord{
		Id:          id,
		UserId:      userId,
		RecordType:  recordType,
		Metadata:    metadata,
		FileURL:     fmt.Sprintf("%s/api/health-records/%s/file", s.baseURL, id),
		StoragePath: storagePath,
		FileName:    fileName,
		ContentType: req.ContentType,
		UploadedAt:  s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.HealthRecordRepository().Create(ctx, record); err != nil {
		if delErr := s.store.Delete(ctx, HealthRecordBucket, storagePath); delErr != nil {
			s.logger.Warn("HealthRecord", "Failed to remove orphaned object", map[string]interface{}{"path": storagePath, "error": delErr.Error()})
		}
		return nil, recordError(span, err)
	}

	return toHealthRecordResponse(record), nil
}

func (s *healthRecordService) List(ctx context.Context, userId uuid.UUID) ([]*dto.HealthRecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.HealthRecordRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.HealthRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toHealthRecordResponse(r))
	}
	return out, nil
}

func (s *healthRecordService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.HealthRecord, error) {
	record, err := uow.HealthRecordRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NotFound("health record not found")
	}
	return record, nil
}

// Delete removes the stored object first so a failed row delete never leaves
// a row pointing at nothing.
func (s *healthRecordService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if record.StoragePath != "" {
		if err := s.store.Delete(ctx, HealthRecordBucket, record.StoragePath); err != nil {
			return errors.Wrap(err, "delete stored health record")
		}
	}
	return uow.HealthRecordRepository().Delete(ctx, id)
}

func (s *healthRecordService) OpenFile(ctx context.Context, userId uuid.UUID, id uuid.UUID) (io.ReadCloser, string, string, error) {
	record, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, "", "", err
	}

	rc, err := s.store.Open(ctx, HealthRecordBucket, record.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", "", apperror.NotFound("file not found")
	}
	if err != nil {
		return nil, "", "", err
	}

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, record.FileName, contentType, nil
}

func (s *healthRecordService) summarize(ctx context.Context, record *entity.HealthRecord) (string, string) {
	if s.provider == nil {
		metrics.RecordLLMCall(analyzeFeature, "fallback", 0)
		return "", insight.SourceMock
	}

	start := time.Now()
	summary, err := s.provider.Generate(ctx, insight.AnalysisPrompt(record.RecordType, record.Metadata))
	if err == nil && strings.TrimSpace(summary) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		metrics.RecordLLMCall(analyzeFeature, "fallback", time.Since(start))
		s.logger.Warn("HealthRecord", "Model analysis failed, using fallback", map[string]interface{}{"record_id": record.Id, "error": err.Error()})
		return "", insight.SourceMock
	}

	metrics.RecordLLMCall(analyzeFeature, "ok", time.Since(start))
	return strings.TrimSpace(summary), insight.SourceLLM
}

func (s *healthRecordService) Analyze(ctx context.Context, userId uuid.UUID, recordId uuid.UUID) (*dto.InsightResponse, error) {
	ctx, span := tracer.Start(ctx, "HealthRecord.Analyze")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.findOwned(ctx, uow, userId, recordId)
	if err != nil {
		return nil, err
	}

	summary, source := s.summarize(ctx, record)
	chart := insight.BuildChart(record.Metadata)
	if source == insight.SourceMock {
		report := insight.BuildFallback(record.RecordType, record.Metadata)
		summary, chart = report.Summary, report.Chart
	}

	chartData, err := json.Marshal(chart)
	if err != nil {
		return nil, recordError(span, errors.Wrap(err, "encode chart"))
	}

	ins := &entity.ReportInsight{
		Id:             uuid.New(),
		HealthRecordId: record.Id,
		UserId:         userId,
		SummaryText:    summary,
		ChartData:      chartData,
		Source:         source,
		GeneratedAt:    s.now(),
	}
	if err := uow.HealthRecordRepository().CreateInsight(ctx, ins); err != nil {
		return nil, recordError(span, err)
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.InsightGenerated, map[string]interface{}{
		"user_id":     userId.String(),
		"entity_type": "health_record",
		"entity_id":   record.Id.String(),
		"source":      source,
	}))

	return toInsightResponse(ins), nil
}

func (s *healthRecordService) LatestInsight(ctx context.Context, userId uuid.UUID, recordId uuid.UUID) (*dto.InsightResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, recordId); err != nil {
		return nil, err
	}

	ins, err := uow.HealthRecordRepository().FindInsight(ctx,
		specification.ByHealthRecordID{RecordID: recordId},
		specification.OrderBy{Field: "generated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, apperror.NotFound("no insight generated for this record")
	}
	return toInsightResponse(ins), nil
}

func (s *healthRecordService) Trends(ctx context.Context, userId uuid.UUID) (*dto.TrendsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.HealthRecordRepository().FindInsights(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "generated_at"},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.TrendsResponse{Markers: make(map[string][]dto.MarkerTrendPoint, len(insight.TrendMarkers))}
	for _, name := range insight.TrendMarkers {
		resp.Markers[name] = []dto.MarkerTrendPoint{}
	}
	for _, ins := range rows {
		for name, v := range insight.TrendValues(ins.ChartData) {
			resp.Markers[name] = append(resp.Markers[name], dto.MarkerTrendPoint{
				RecordId:    ins.HealthRecordId,
				GeneratedAt: ins.GeneratedAt,
				Value:       v,
			})
		}
	}
	return resp, nil
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(b)
}

func toHealthRecordResponse(r *entity.HealthRecord) *dto.HealthRecordResponse {
	return &dto.HealthRecordResponse{
		Id:         r.Id,
		RecordType: r.RecordType,
		Metadata:   rawJSON(r.Metadata),
		FileURL:    r.FileURL,
		UploadedAt: r.UploadedAt,
	}
}

func toInsightResponse(i *entity.ReportInsight) *dto.InsightResponse {
	return &dto.InsightResponse{
		Id:             i.Id,
		HealthRecordId: i.HealthRecordId,
		SummaryText:    i.SummaryText,
		ChartData:      rawJSON(i.ChartData),
		Source:         i.Source,
		GeneratedAt:    i.GeneratedAt,
	}
}
