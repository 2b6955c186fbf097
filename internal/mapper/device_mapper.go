package mapper

import (
	"mitr-be/internal/entity"
	"mitr-be/internal/model"
)

type DeviceMapper struct{}

func NewDeviceMapper() *DeviceMapper {
	return &DeviceMapper{}
}

func (m *DeviceMapper) ConnectionToEntity(c *model.DeviceConnection) *entity.DeviceConnection {
	if c == nil {
		return nil
	}
	return &entity.DeviceConnection{
		UserId:   c.UserId,
		DeviceId: c.DeviceId,
		Status:   c.Status,
		LastSync: c.LastSync,
	}
}

func (m *DeviceMapper) ConnectionToModel(c *entity.DeviceConnection) *model.DeviceConnection {
	if c == nil {
		return nil
	}
	return &model.DeviceConnection{
		UserId:   c.UserId,
		DeviceId: c.DeviceId,
		Status:   c.Status,
		LastSync: c.LastSync,
	}
}

func (m *DeviceMapper) MetricToEntity(d *model.DeviceMetric) *entity.DeviceMetric {
	if d == nil {
		return nil
	}
	return &entity.DeviceMetric{
		Id:         d.Id,
		Seq:        d.Seq,
		UserId:     d.UserId,
		Steps:      d.Steps,
		Heart:      d.Heart,
		Sleep:      d.Sleep,
		Hydration:  d.Hydration,
		Stress:     d.Stress,
		RecordedAt: d.RecordedAt,
	}
}

func (m *DeviceMapper) MetricToModel(d *entity.DeviceMetric) *model.DeviceMetric {
	if d == nil {
		return nil
	}
	return &model.DeviceMetric{
		Id:         d.Id,
		Seq:        d.Seq,
		UserId:     d.UserId,
		Steps:      d.Steps,
		Heart:      d.Heart,
		Sleep:      d.Sleep,
		Hydration:  d.Hydration,
		Stress:     d.Stress,
		RecordedAt: d.RecordedAt,
	}
}
