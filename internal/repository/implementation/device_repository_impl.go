package implementation

import (
	"context"

	"mitr-be/internal/entity"
	"mitr-be/internal/mapper"
	"mitr-be/internal/model"
	"mitr-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DeviceMapper
}

func NewDeviceRepository(db *gorm.DB) contract.DeviceRepository {
	return &DeviceRepositoryImpl{db: db, mapper: mapper.NewDeviceMapper()}
}

func (r *DeviceRepositoryImpl) FindConnections(ctx context.Context, userId uuid.UUID) ([]*entity.DeviceConnection, error) {
	var models []*model.DeviceConnection
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.DeviceConnection, len(models))
	for i, m := range models {
		out[i] = r.mapper.ConnectionToEntity(m)
	}
	return out, nil
}

func (r *DeviceRepositoryImpl) SaveConnection(ctx context.Context, c *entity.DeviceConnection) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "last_sync", "updated_at"}),
	}).Create(r.mapper.ConnectionToModel(c)).Error
}

func (r *DeviceRepositoryImpl) CountConnected(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DeviceConnection{}).
		Where("user_id = ? AND status = ?", userId, entity.DeviceConnected).
		Count(&count).Error
	return count, err
}

func (r *DeviceRepositoryImpl) AppendMetric(ctx context.Context, d *entity.DeviceMetric) error {
	m := r.mapper.MetricToModel(d)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*d = *r.mapper.MetricToEntity(m)
	return nil
}

func (r *DeviceRepositoryImpl) RecentMetrics(ctx context.Context, userId uuid.UUID, n int) ([]*entity.DeviceMetric, error) {
	var models []*model.DeviceMetric
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("seq DESC").Limit(n).Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.DeviceMetric, len(models))
	for i, m := range models {
		out[len(models)-1-i] = r.mapper.MetricToEntity(m)
	}
	return out, nil
}
