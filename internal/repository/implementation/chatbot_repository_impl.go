package implementation

import (
	"context"

	"mitr-be/internal/entity"
	"mitr-be/internal/mapper"
	"mitr-be/internal/model"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatbotMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatbotMapper
}

func NewChatbotMessageRepository(db *gorm.DB) contract.ChatbotMessageRepository {
	return &ChatbotMessageRepositoryImpl{db: db, mapper: mapper.NewChatbotMapper()}
}

func (r *ChatbotMessageRepositoryImpl) Create(ctx context.Context, msg *entity.ChatbotMessage) error {
	m := r.mapper.ToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*msg = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatbotMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatbotMessage, error) {
	var models []*model.ChatbotMessage
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatbotMessageRepositoryImpl) Recent(ctx context.Context, userId uuid.UUID, n int) ([]*entity.ChatbotMessage, error) {
	var models []*model.ChatbotMessage
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("seq DESC").Limit(n).Find(&models).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatbotMessageRepositoryImpl) DeleteByUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.ChatbotMessage{}).Error
}
