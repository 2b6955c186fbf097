package mapper

import (
	"mitr-be/internal/entity"
	"mitr-be/internal/model"

	"gorm.io/datatypes"
)

type HealthMapper struct{}

func NewHealthMapper() *HealthMapper {
	return &HealthMapper{}
}

func (m *HealthMapper) RecordToEntity(r *model.HealthRecord) *entity.HealthRecord {
	if r == nil {
		return nil
	}
	return &entity.HealthRecord{
		Id:          r.Id,
		UserId:      r.UserId,
		RecordType:  r.RecordType,
		Metadata:    []byte(r.Metadata),
		FileURL:     r.FileURL,
		StoragePath: r.StoragePath,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		UploadedAt:  r.UploadedAt,
	}
}

func (m *HealthMapper) RecordToModel(r *entity.HealthRecord) *model.HealthRecord {
	if r == nil {
		return nil
	}
	return &model.HealthRecord{
		Id:          r.Id,
		UserId:      r.UserId,
		RecordType:  r.RecordType,
		Metadata:    datatypes.JSON(r.Metadata),
		FileURL:     r.FileURL,
		StoragePath: r.StoragePath,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		UploadedAt:  r.UploadedAt,
	}
}

func (m *HealthMapper) RecordsToEntities(list []*model.HealthRecord) []*entity.HealthRecord {
	out := make([]*entity.HealthRecord, len(list))
	for i, r := range list {
		out[i] = m.RecordToEntity(r)
	}
	return out
}

func (m *HealthMapper) InsightToEntity(i *model.ReportInsight) *entity.ReportInsight {
	if i == nil {
		return nil
	}
	return &entity.ReportInsight{
		Id:             i.Id,
		HealthRecordId: i.HealthRecordId,
		UserId:         i.UserId,
		SummaryText:    i.SummaryText,
		ChartData:      []byte(i.ChartData),
		Source:         i.Source,
		GeneratedAt:    i.GeneratedAt,
	}
}

func (m *HealthMapper) InsightToModel(i *entity.ReportInsight) *model.ReportInsight {
	if i == nil {
		return nil
	}
	return &model.ReportInsight{
		Id:             i.Id,
		HealthRecordId: i.HealthRecordId,
		UserId:         i.UserId,
		SummaryText:    i.SummaryText,
		ChartData:      datatypes.JSON(i.ChartData),
		Source:         i.Source,
		GeneratedAt:    i.GeneratedAt,
	}
}

func (m *HealthMapper) InsightsToEntities(list []*model.ReportInsight) []*entity.ReportInsight {
	out := make([]*entity.ReportInsight, len(list))
	for i, r := range list {
		out[i] = m.InsightToEntity(r)
	}
	return out
}

func (m *HealthMapper) ChatToEntity(c *model.ChatHistory) *entity.ChatHistory {
	if c == nil {
		return nil
	}
	return &entity.ChatHistory{
		Id:          c.Id,
		UserId:      c.UserId,
		UserMessage: c.UserMessage,
		BotResponse: c.BotResponse,
		Context:     []byte(c.Context),
		Ts:          c.Ts,
	}
}

func (m *HealthMapper) ChatToModel(c *entity.ChatHistory) *model.ChatHistory {
	if c == nil {
		return nil
	}
	return &model.ChatHistory{
		Id:          c.Id,
		UserId:      c.UserId,
		UserMessage: c.UserMessage,
		BotResponse: c.BotResponse,
		Context:     datatypes.JSON(c.Context),
		Ts:          c.Ts,
	}
}

func (m *HealthMapper) ChatsToEntities(list []*model.ChatHistory) []*entity.ChatHistory {
	out := make([]*entity.ChatHistory, len(list))
	for i, c := range list {
		out[i] = m.ChatToEntity(c)
	}
	return out
}
