package service

import (
	"context"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/catalog"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error

	GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferenceResponse, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
	AddBookmark(ctx context.Context, userId uuid.UUID, resourceId string) (*dto.PreferenceResponse, error)
	RemoveBookmark(ctx context.Context, userId uuid.UUID, resourceId string) (*dto.PreferenceResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *catalog.Catalog
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, cat *catalog.Catalog) IUserService {
	return &userService{
		uowFactory: uowFactory,
		catalog:    cat,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		AvatarURL: avatarURL,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error {
	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}

	user.FullName = req.FullName
	user.UpdatedAt = time.Now()
	return repo.Update(ctx, user)
}

func toPreferenceResponse(p *entity.UserPreference) *dto.PreferenceResponse {
	bookmarks := p.Bookmarks
	if bookmarks == nil {
		bookmarks = []string{}
	}
	return &dto.PreferenceResponse{
		Theme:            string(p.Theme),
		GroupsMuted:      p.GroupsMuted,
		JournalReminders: p.JournalReminders,
		ReminderHour:     p.ReminderHour,
		Bookmarks:        bookmarks,
		UpdatedAt:        p.UpdatedAt,
	}
}

// loadPreference falls back to the defaults for users who never saved any.
func loadPreference(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.UserPreference, error) {
	pref, err := uow.UserRepository().FindPreference(ctx, userId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return entity.DefaultPreference(userId), nil
	}
	return pref, nil
}

func (s *userService) GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferenceResponse, error) {
	pref, err := loadPreference(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	return s.mutatePreference(ctx, userId, func(p *entity.UserPreference) {
		if req.Theme != nil {
			p.Theme = entity.Theme(*req.Theme)
		}
		if req.GroupsMuted != nil {
			p.GroupsMuted = *req.GroupsMuted
		}
		if req.JournalReminders != nil {
			p.JournalReminders = *req.JournalReminders
		}
		if req.ReminderHour != nil {
			p.ReminderHour = *req.ReminderHour
		}
	})
}

func (s *userService) AddBookmark(ctx context.Context, userId uuid.UUID, resourceId string) (*dto.PreferenceResponse, error) {
	if _, ok := s.catalog.Resource(resourceId); !ok {
		return nil, apperror.NotFound("resource not found")
	}
	return s.mutatePreference(ctx, userId, func(p *entity.UserPreference) {
		for _, id := range p.Bookmarks {
			if id == resourceId {
				return
			}
		}
		p.Bookmarks = append(p.Bookmarks, resourceId)
	})
}

func (s *userService) RemoveBookmark(ctx context.Context, userId uuid.UUID, resourceId string) (*dto.PreferenceResponse, error) {
	if _, ok := s.catalog.Resource(resourceId); !ok {
		return nil, apperror.NotFound("resource not found")
	}
	return s.mutatePreference(ctx, userId, func(p *entity.UserPreference) {
		kept := make([]string, 0, len(p.Bookmarks))
		for _, id := range p.Bookmarks {
			if id != resourceId {
				kept = append(kept, id)
			}
		}
		p.Bookmarks = kept
	})
}

func (s *userService) mutatePreference(ctx context.Context, userId uuid.UUID, apply func(p *entity.UserPreference)) (*dto.PreferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := loadPreference(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	apply(pref)
	pref.UpdatedAt = time.Now()

	if err := uow.UserRepository().SavePreference(ctx, pref); err != nil {
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}
