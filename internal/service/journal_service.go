package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/markdown"

	"github.com/google/uuid"
)

const (
	DefaultBook     = "Daily Log"
	journalReminder = "journal_reminder"
)

// DefaultBooks are offered to every user even before they write anything.
var DefaultBooks = []string{"Daily Log", "Wellness Journal", "Mood Tracker"}

type IJournalService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalRequest) (*dto.JournalResponse, error)
	List(ctx context.Context, userId uuid.UUID, q dto.JournalQuery) ([]*dto.JournalResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.JournalResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateJournalRequest) (*dto.JournalResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Books(ctx context.Context, userId uuid.UUID) ([]string, error)

	// SendReminders emails opted-in users who have not written today.
	SendReminders(ctx context.Context) (int, error)
}

type journalService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
	now          func() time.Time
}

func NewJournalService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, log logger.ILogger) IJournalService {
	return &journalService{
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
		now:          time.Now,
	}
}

// ParseTags splits a comma separated list, trims each entry, drops empties
// and keeps the first occurrence of duplicates.
func ParseTags(csv string) []string {
	return normalizeTags(strings.Split(csv, ","))
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *journalService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalRequest) (*dto.JournalResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperror.BadRequest("title and content are required")
	}

	book := strings.TrimSpace(req.Book)
	if book == "" {
		book = DefaultBook
	}

	tags := req.Tags
	if req.TagsCSV != "" {
		tags = append(append([]string{}, tags...), strings.Split(req.TagsCSV, ",")...)
	}

	now := s.now()
	journal := &entity.Journal{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Content:   content,
		Book:      book,
		Tags:      normalizeTags(tags),
		Mood:      req.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.JournalRepository().Create(ctx, journal); err != nil {
		return nil, err
	}
	return toJournalResponse(journal, false), nil
}

func (s *journalService) List(ctx context.Context, userId uuid.UUID, q dto.JournalQuery) ([]*dto.JournalResponse, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if search := strings.TrimSpace(q.Search); search != "" {
		specs = append(specs, specification.TextSearch{Query: search})
	}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		specs = append(specs, specification.HasTag{Tag: tag})
	}
	if book := strings.TrimSpace(q.Book); book != "" {
		specs = append(specs, specification.ByBook{Book: book})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.JournalRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.JournalResponse, 0, len(rows))
	for _, j := range rows {
		out = append(out, toJournalResponse(j, false))
	}
	return out, nil
}

func (s *journalService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Journal, error) {
	journal, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperror.NotFound("journal entry not found")
	}
	return journal, nil
}

func (s *journalService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.JournalResponse, error) {
	journal, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, err
	}
	return toJournalResponse(journal, true), nil
}

func (s *journalService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateJournalRequest) (*dto.JournalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	journal, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if journal.Title = strings.TrimSpace(*req.Title); journal.Title == "" {
			return nil, apperror.BadRequest("title cannot be empty")
		}
	}
	if req.Content != nil {
		if journal.Content = strings.TrimSpace(*req.Content); journal.Content == "" {
			return nil, apperror.BadRequest("content cannot be empty")
		}
	}
	if req.Book != nil {
		journal.Book = strings.TrimSpace(*req.Book)
		if journal.Book == "" {
			journal.Book = DefaultBook
		}
	}
	if req.TagsCSV != nil {
		journal.Tags = ParseTags(*req.TagsCSV)
	} else if req.Tags != nil {
		journal.Tags = normalizeTags(req.Tags)
	}
	if req.Mood != nil {
		journal.Mood = req.Mood
	}
	journal.UpdatedAt = s.now()

	if err := uow.JournalRepository().Update(ctx, journal); err != nil {
		return nil, err
	}
	return toJournalResponse(journal, true), nil
}

func (s *journalService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, id); err != nil {
		return err
	}
	return uow.JournalRepository().Delete(ctx, id)
}

// Books returns the defaults first, then the user's own books alphabetically.
func (s *journalService) Books(ctx context.Context, userId uuid.UUID) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	used, err := uow.JournalRepository().DistinctBooks(ctx, userId)
	if err != nil {
		return nil, err
	}

	books := append([]string{}, DefaultBooks...)
	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		seen[b] = struct{}{}
	}

	var extra []string
	for _, b := range used {
		if _, ok := seen[b]; ok || b == "" {
			continue
		}
		seen[b] = struct{}{}
		extra = append(extra, b)
	}
	sort.Strings(extra)
	return append(books, extra...), nil
}

func (s *journalService) SendReminders(ctx context.Context) (int, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindJournalReminderRecipients(ctx, startOfDay)
	if err != nil {
		metrics.RecordJobRun(journalReminder, false)
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if err := s.emailService.SendJournalReminder(u.Email, u.FullName); err != nil {
			s.logger.Warn("Journal", "Failed to send journal reminder", map[string]interface{}{"user_id": u.Id, "error": err.Error()})
			continue
		}
		sent++
	}

	metrics.RecordJobRun(journalReminder, true)
	s.logger.Info("Journal", "Journal reminders sent", map[string]interface{}{"recipients": len(users), "sent": sent})
	return sent, nil
}

func toJournalResponse(j *entity.Journal, withHTML bool) *dto.JournalResponse {
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := &dto.JournalResponse{
		Id:        j.Id,
		Title:     j.Title,
		Content:   j.Content,
		Book:      j.Book,
		Tags:      tags,
		Mood:      j.Mood,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if withHTML {
		resp.ContentHTML = markdown.Render(j.Content)
	}
	return resp
}
