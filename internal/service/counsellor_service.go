package service

import (
	"context"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/counsellor"
)

type ICounsellorService interface {
	List(q dto.CounsellorQuery) (*dto.CounsellorListResponse, error)
	Recommend(date string) ([]counsellor.Recommendation, error)
	Slots(ctx context.Context, counsellorId, date string) (*dto.SlotsResponse, error)
}

type counsellorService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *counsellor.Catalog
	now        func() time.Time
}

func NewCounsellorService(uowFactory unitofwork.RepositoryFactory, cat *counsellor.Catalog) ICounsellorService {
	return &counsellorService{
		uowFactory: uowFactory,
		catalog:    cat,
		now:        time.Now,
	}
}

func validAvailability(v string) bool {
	switch strings.ToLower(v) {
	case "", "any", counsellor.AvailabilityAll, counsellor.AvailabilityWeekdays,
		counsellor.AvailabilityWeekends, counsellor.AvailabilityNow:
		return true
	}
	return false
}

func (s *counsellorService) List(q dto.CounsellorQuery) (*dto.CounsellorListResponse, error) {
	if !validAvailability(q.Availability) {
		return nil, apperror.BadRequest("availability must be one of all, weekdays, weekends, now")
	}

	list := s.catalog.Filter(counsellor.Filter{
		Specialty:    strings.TrimSpace(q.Specialty),
		Language:     strings.TrimSpace(q.Language),
		Availability: q.Availability,
	}, s.now())
	if list == nil {
		list = []counsellor.Counsellor{}
	}

	return &dto.CounsellorListResponse{
		Counsellors: list,
		Specialties: s.catalog.Specialties(),
		Languages:   s.catalog.Languages(),
	}, nil
}

func (s *counsellorService) Recommend(date string) ([]counsellor.Recommendation, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.catalog.Recommend(nil), nil
	}

	day, err := counsellor.ParseDate(date, s.now().Location())
	if err != nil {
		return nil, apperror.BadRequest("date must be YYYY-MM-DD")
	}
	return s.catalog.Recommend(&day), nil
}

// Slots lists the counsellor's times on the date's weekday that nobody has
// booked yet.
func (s *counsellorService) Slots(ctx context.Context, counsellorId, date string) (*dto.SlotsResponse, error) {
	c, ok := s.catalog.Find(counsellorId)
	if !ok {
		return nil, apperror.NotFound("counsellor not found")
	}

	day, err := counsellor.ParseDate(strings.TrimSpace(date), s.now().Location())
	if err != nil {
		return nil, apperror.BadRequest("date must be YYYY-MM-DD")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	booked, err := uow.BookingRepository().BookedTimes(ctx, c.ID, day.Format(counsellor.DateLayout))
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	free := []string{}
	for _, slot := range c.SlotsOn(day.Weekday()) {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}

	return &dto.SlotsResponse{
		CounsellorId: c.ID,
		Date:         day.Format(counsellor.DateLayout),
		Slots:        free,
	}, nil
}
