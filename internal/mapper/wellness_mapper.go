package mapper

import (
	"mitr-be/internal/entity"
	"mitr-be/internal/model"

	"gorm.io/datatypes"
)

type AssessmentMapper struct{}

func NewAssessmentMapper() *AssessmentMapper {
	return &AssessmentMapper{}
}

func (m *AssessmentMapper) ToEntity(a *model.Assessment) *entity.Assessment {
	if a == nil {
		return nil
	}
	return &entity.Assessment{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      a.Type,
		Score:     a.Score,
		Answers:   []int(a.Answers),
		Severity:  a.Severity,
		CreatedAt: a.CreatedAt,
	}
}

func (m *AssessmentMapper) ToModel(a *entity.Assessment) *model.Assessment {
	if a == nil {
		return nil
	}
	return &model.Assessment{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      a.Type,
		Score:     a.Score,
		Answers:   datatypes.JSONSlice[int](a.Answers),
		Severity:  a.Severity,
		CreatedAt: a.CreatedAt,
	}
}

func (m *AssessmentMapper) ToEntities(list []*model.Assessment) []*entity.Assessment {
	out := make([]*entity.Assessment, len(list))
	for i, a := range list {
		out[i] = m.ToEntity(a)
	}
	return out
}

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	return &entity.Booking{
		Id:           b.Id,
		UserId:       b.UserId,
		CounsellorId: b.CounsellorId,
		Date:         b.Date,
		Time:         b.Time,
		Notes:        b.Notes,
		Status:       entity.BookingStatus(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (m *BookingMapper) ToModel(b *entity.Booking) *model.Booking {
	if b == nil {
		return nil
	}
	return &model.Booking{
		Id:           b.Id,
		UserId:       b.UserId,
		CounsellorId: b.CounsellorId,
		Date:         b.Date,
		Time:         b.Time,
		Notes:        b.Notes,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (m *BookingMapper) ToEntities(list []*model.Booking) []*entity.Booking {
	out := make([]*entity.Booking, len(list))
	for i, b := range list {
		out[i] = m.ToEntity(b)
	}
	return out
}

type JournalMapper struct{}

func NewJournalMapper() *JournalMapper {
	return &JournalMapper{}
}

func (m *JournalMapper) ToEntity(j *model.Journal) *entity.Journal {
	if j == nil {
		return nil
	}
	tags := []string(j.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &entity.Journal{
		Id:        j.Id,
		UserId:    j.UserId,
		Title:     j.Title,
		Content:   j.Content,
		Book:      j.Book,
		Tags:      tags,
		Mood:      j.Mood,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func (m *JournalMapper) ToModel(j *entity.Journal) *model.Journal {
	if j == nil {
		return nil
	}
	return &model.Journal{
		Id:        j.Id,
		UserId:    j.UserId,
		Title:     j.Title,
		Content:   j.Content,
		Book:      j.Book,
		Tags:      datatypes.JSONSlice[string](j.Tags),
		Mood:      j.Mood,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func (m *JournalMapper) ToEntities(list []*model.Journal) []*entity.Journal {
	out := make([]*entity.Journal, len(list))
	for i, j := range list {
		out[i] = m.ToEntity(j)
	}
	return out
}

type ReviewMapper struct{}

func NewReviewMapper() *ReviewMapper {
	return &ReviewMapper{}
}

func (m *ReviewMapper) ToEntity(r *model.Review) *entity.Review {
	if r == nil {
		return nil
	}
	return &entity.Review{
		Id:        r.Id,
		UserId:    r.UserId,
		Name:      r.Name,
		Program:   r.Program,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReviewMapper) ToModel(r *entity.Review) *model.Review {
	if r == nil {
		return nil
	}
	return &model.Review{
		Id:        r.Id,
		UserId:    r.UserId,
		Name:      r.Name,
		Program:   r.Program,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReviewMapper) ToEntities(list []*model.Review) []*entity.Review {
	out := make([]*entity.Review, len(list))
	for i, r := range list {
		out[i] = m.ToEntity(r)
	}
	return out
}
