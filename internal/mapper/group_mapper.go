package mapper

import (
	"mitr-be/internal/entity"
	"mitr-be/internal/model"
)

type GroupMessageMapper struct{}

func NewGroupMessageMapper() *GroupMessageMapper {
	return &GroupMessageMapper{}
}

func (m *GroupMessageMapper) ToEntity(g *model.GroupMessage) *entity.GroupMessage {
	if g == nil {
		return nil
	}
	return &entity.GroupMessage{
		Id:        g.Id,
		Seq:       g.Seq,
		Room:      g.Room,
		UserId:    g.UserId,
		Content:   g.Content,
		ReplyTo:   g.ReplyTo,
		Flagged:   g.Flagged,
		Pinned:    g.Pinned,
		Reactions: map[string]int{},
		CreatedAt: g.CreatedAt,
	}
}

func (m *GroupMessageMapper) ToModel(g *entity.GroupMessage) *model.GroupMessage {
	if g == nil {
		return nil
	}
	return &model.GroupMessage{
		Id:        g.Id,
		Seq:       g.Seq,
		Room:      g.Room,
		UserId:    g.UserId,
		Content:   g.Content,
		ReplyTo:   g.ReplyTo,
		Flagged:   g.Flagged,
		Pinned:    g.Pinned,
		CreatedAt: g.CreatedAt,
	}
}

// ToEntities attaches reaction counts keyed by message id.
func (m *GroupMessageMapper) ToEntities(list []*model.GroupMessage, reactions []*model.GroupMessageReaction) []*entity.GroupMessage {
	out := make([]*entity.GroupMessage, len(list))
	index := make(map[string]*entity.GroupMessage, len(list))
	for i, g := range list {
		out[i] = m.ToEntity(g)
		index[g.Id.String()] = out[i]
	}
	for _, r := range reactions {
		if msg, ok := index[r.MessageId.String()]; ok {
			msg.Reactions[r.Emoji] = r.Count
		}
	}
	return out
}

func (m *GroupMessageMapper) ReportToModel(r *entity.GroupMessageReport) *model.GroupMessageReport {
	if r == nil {
		return nil
	}
	return &model.GroupMessageReport{
		Id:         r.Id,
		MessageId:  r.MessageId,
		ReporterId: r.ReporterId,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *GroupMessageMapper) ReportToEntity(r *model.GroupMessageReport) *entity.GroupMessageReport {
	if r == nil {
		return nil
	}
	return &entity.GroupMessageReport{
		Id:         r.Id,
		MessageId:  r.MessageId,
		ReporterId: r.ReporterId,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
	}
}
