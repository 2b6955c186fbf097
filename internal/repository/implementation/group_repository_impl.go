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
	"gorm.io/gorm/clause"
)

type GroupMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GroupMessageMapper
}

func NewGroupMessageRepository(db *gorm.DB) contract.GroupMessageRepository {
	return &GroupMessageRepositoryImpl{db: db, mapper: mapper.NewGroupMessageMapper()}
}

func (r *GroupMessageRepositoryImpl) Create(ctx context.Context, m *entity.GroupMessage) error {
	row := r.mapper.ToModel(m)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*m = *r.mapper.ToEntity(row)
	return nil
}

func (r *GroupMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GroupMessage, error) {
	var row model.GroupMessage
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&row), nil
}

func (r *GroupMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessage, error) {
	var rows []*model.GroupMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...).Order("seq ASC")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withReactions(ctx, rows)
}

func (r *GroupMessageRepositoryImpl) FindLatest(ctx context.Context, n int, specs ...specification.Specification) ([]*entity.GroupMessage, error) {
	var rows []*model.GroupMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...).Order("seq DESC").Limit(n)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return r.withReactions(ctx, rows)
}

func (r *GroupMessageRepositoryImpl) withReactions(ctx context.Context, rows []*model.GroupMessage) ([]*entity.GroupMessage, error) {
	if len(rows) == 0 {
		return []*entity.GroupMessage{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.Id
	}
	var reactions []*model.GroupMessageReaction
	if err := r.db.WithContext(ctx).Where("message_id IN ?", ids).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows, reactions), nil
}

// IncrementReaction upserts the counter and returns every count for the message.
func (r *GroupMessageRepositoryImpl) IncrementReaction(ctx context.Context, messageId uuid.UUID, emoji string) (map[string]int, error) {
	row := &model.GroupMessageReaction{MessageId: messageId, Emoji: emoji, Count: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "emoji"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("group_message_reactions.count + 1")}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var all []*model.GroupMessageReaction
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageId).Find(&all).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(all))
	for _, rc := range all {
		counts[rc.Emoji] = rc.Count
	}
	return counts, nil
}

func (r *GroupMessageRepositoryImpl) Pin(ctx context.Context, messageId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.GroupMessage{}).Where("id = ?", messageId).Update("pinned", true).Error
}

func (r *GroupMessageRepositoryImpl) CreateReport(ctx context.Context, report *entity.GroupMessageReport) error {
	if err := r.db.WithContext(ctx).Create(r.mapper.ReportToModel(report)).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GroupMessageRepositoryImpl) FindReports(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessageReport, error) {
	var rows []*model.GroupMessageReport
	query := applySpecifications(r.db.WithContext(ctx).Order("created_at DESC"), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	reports := make([]*entity.GroupMessageReport, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for i, row := range rows {
		reports[i] = r.mapper.ReportToEntity(row)
		ids = append(ids, row.MessageId)
	}
	if len(ids) == 0 {
		return reports, nil
	}

	var messages []*model.GroupMessage
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&messages).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.GroupMessage, len(messages))
	for _, m := range messages {
		byID[m.Id] = r.mapper.ToEntity(m)
	}
	for _, rep := range reports {
		rep.Message = byID[rep.MessageId]
	}
	return reports, nil
}
