package service

import (
	"context"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	adminDefaultLimit = 20
	adminMaxLimit     = 100
)

// IAdminService backs the moderation console: account status and the
// queue of reported group messages.
type IAdminService interface {
	GetAllUsers(ctx context.Context, query dto.AdminUserQuery) ([]*dto.AdminUserResponse, error)
	UpdateUserStatus(ctx context.Context, actorId, userId uuid.UUID, req *dto.UpdateUserStatusRequest) (*dto.AdminUserResponse, error)
	GetGroupReports(ctx context.Context, page, limit int) ([]*dto.GroupReportResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, logger: log}
}

// pageWindow clamps limit to what the console may request at once.
func pageWindow(page, limit int) specification.Pagination {
	if limit <= 0 || limit > adminMaxLimit {
		limit = adminDefaultLimit
	}
	return specification.Page(page, limit)
}

func (s *adminService) GetAllUsers(ctx context.Context, query dto.AdminUserQuery) ([]*dto.AdminUserResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		pageWindow(query.Page, query.Limit),
	}
	if q := strings.TrimSpace(query.Query); q != "" {
		specs = append(specs, specification.UserSearch{Query: q})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResponse(u))
	}
	return out, nil
}

// UpdateUserStatus blocks or reactivates an account. A blocked user keeps
// any access token until it expires but can no longer log in or refresh.
func (s *adminService) UpdateUserStatus(ctx context.Context, actorId, userId uuid.UUID, req *dto.UpdateUserStatusRequest) (*dto.AdminUserResponse, error) {
	status := entity.UserStatus(req.Status)
	if status != entity.UserStatusActive && status != entity.UserStatusBlocked {
		return nil, apperror.BadRequest("status must be active or blocked")
	}
	if actorId == userId {
		return nil, apperror.BadRequest("you cannot change your own status")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	if user.Status == entity.UserStatusPending && status == entity.UserStatusActive {
		return nil, apperror.BadRequest("user has not verified their email")
	}

	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("ADMIN", "User status changed", map[string]interface{}{
		"actor_id": actorId.String(),
		"user_id":  userId.String(),
		"status":   req.Status,
	})
	return toAdminUserResponse(user), nil
}

func (s *adminService) GetGroupReports(ctx context.Context, page, limit int) ([]*dto.GroupReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	reports, err := uow.GroupMessageRepository().FindReports(ctx, pageWindow(page, limit))
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GroupReportResponse, 0, len(reports))
	for _, r := range reports {
		res := &dto.GroupReportResponse{
			Id:         r.Id,
			MessageId:  r.MessageId,
			ReporterId: r.ReporterId,
			Reason:     r.Reason,
			CreatedAt:  r.CreatedAt,
		}
		if r.Message != nil {
			res.Room = r.Message.Room
			res.Content = r.Message.Content
			res.Flagged = r.Message.Flagged
		}
		out = append(out, res)
	}
	return out, nil
}

func toAdminUserResponse(u *entity.User) *dto.AdminUserResponse {
	return &dto.AdminUserResponse{
		Id:            u.Id,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
