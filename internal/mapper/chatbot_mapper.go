package mapper

import (
	"mitr-be/internal/entity"
	"mitr-be/internal/model"
)

type ChatbotMapper struct{}

func NewChatbotMapper() *ChatbotMapper {
	return &ChatbotMapper{}
}

func (m *ChatbotMapper) ToEntity(c *model.ChatbotMessage) *entity.ChatbotMessage {
	if c == nil {
		return nil
	}
	return &entity.ChatbotMessage{
		Id:        c.Id,
		Seq:       c.Seq,
		UserId:    c.UserId,
		Role:      c.Role,
		Content:   c.Content,
		Lang:      c.Lang,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatbotMapper) ToModel(c *entity.ChatbotMessage) *model.ChatbotMessage {
	if c == nil {
		return nil
	}
	return &model.ChatbotMessage{
		Id:        c.Id,
		Seq:       c.Seq,
		UserId:    c.UserId,
		Role:      c.Role,
		Content:   c.Content,
		Lang:      c.Lang,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatbotMapper) ToEntities(list []*model.ChatbotMessage) []*entity.ChatbotMessage {
	out := make([]*entity.ChatbotMessage, len(list))
	for i, c := range list {
		out[i] = m.ToEntity(c)
	}
	return out
}
