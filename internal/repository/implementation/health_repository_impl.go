package implementation

import (
	"context"
	"errors"

	"mitr-be/internal/entity"
	"mitr-be/internal/mapper"
	"mitr-be/internal/model"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HealthRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HealthMapper
}

func NewHealthRecordRepository(db *gorm.DB) contract.HealthRecordRepository {
	return &HealthRecordRepositoryImpl{db: db, mapper: mapper.NewHealthMapper()}
}

func (r *HealthRecordRepositoryImpl) Create(ctx context.Context, rec *entity.HealthRecord) error {
	m := r.mapper.RecordToModel(rec)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rec = *r.mapper.RecordToEntity(m)
	return nil
}

func (r *HealthRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HealthRecord, error) {
	var m model.HealthRecord
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RecordToEntity(&m), nil
}

func (r *HealthRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HealthRecord, error) {
	var models []*model.HealthRecord
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.RecordsToEntities(models), nil
}

// Delete removes the record and its insights.
func (r *HealthRecordRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("health_record_id = ?", id).Delete(&model.ReportInsight{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.HealthRecord{}).Error
	})
}

func (r *HealthRecordRepositoryImpl) CreateInsight(ctx context.Context, i *entity.ReportInsight) error {
	m := r.mapper.InsightToModel(i)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*i = *r.mapper.InsightToEntity(m)
	return nil
}

func (r *HealthRecordRepositoryImpl) FindInsight(ctx context.Context, specs ...specification.Specification) (*entity.ReportInsight, error) {
	var m model.ReportInsight
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InsightToEntity(&m), nil
}

func (r *HealthRecordRepositoryImpl) FindInsights(ctx context.Context, specs ...specification.Specification) ([]*entity.ReportInsight, error) {
	var models []*model.ReportInsight
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.InsightsToEntities(models), nil
}

type ChatHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HealthMapper
}

func NewChatHistoryRepository(db *gorm.DB) contract.ChatHistoryRepository {
	return &ChatHistoryRepositoryImpl{db: db, mapper: mapper.NewHealthMapper()}
}

func (r *ChatHistoryRepositoryImpl) Create(ctx context.Context, c *entity.ChatHistory) error {
	m := r.mapper.ChatToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ChatToEntity(m)
	return nil
}

func (r *ChatHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error) {
	var models []*model.ChatHistory
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Order("ts ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatsToEntities(models), nil
}
