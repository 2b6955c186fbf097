package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/repository"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// query is the subset of specifications the fakes understand.
type query struct {
	id       *uuid.UUID
	userId   *uuid.UUID
	email    string
	room     string
	afterSeq int64
	limit    int
	slot     *specification.ByCounsellorSlot
	status   string
	recordId *uuid.UUID
	book     string
	tag      string
	text     string
	desc     bool
}

func parseSpecs(specs ...specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			q.id = &id
		case specification.UserOwnedBy:
			id := v.UserID
			q.userId = &id
		case specification.ByEmail:
			q.email = v.Email
		case specification.ByRoom:
			q.room = v.Room
		case specification.AfterSeq:
			q.afterSeq = v.Seq
		case specification.Limit:
			q.limit = v.N
		case specification.ByCounsellorSlot:
			slot := v
			q.slot = &slot
		case specification.ByStatus:
			q.status = v.Status
		case specification.ByHealthRecordID:
			id := v.RecordID
			q.recordId = &id
		case specification.ByContextRecord:
			id := v.RecordID
			q.recordId = &id
		case specification.ByBook:
			q.book = v.Book
		case specification.HasTag:
			q.tag = v.Tag
		case specification.TextSearch:
			q.text = strings.ToLower(v.Query)
		case specification.ContentSearch:
			q.text = strings.ToLower(v.Query)
		case specification.UserSearch:
			q.text = strings.ToLower(v.Query)
		case specification.OrderBy:
			q.desc = v.Desc
		}
	}
	return q
}

func (q query) owned(id, userId uuid.UUID) bool {
	if q.id != nil && *q.id != id {
		return false
	}
	if q.userId != nil && *q.userId != userId {
		return false
	}
	return true
}

type fakeDB struct {
	mu sync.Mutex

	users       map[uuid.UUID]*entity.User
	prefs       map[uuid.UUID]*entity.UserPreference
	revoked     []string
	refresh     map[string]*entity.UserRefreshToken
	verifyToken []*entity.EmailVerificationToken
	recipients  []*entity.User

	assessments []*entity.Assessment
	bookings    []*entity.Booking
	journals    []*entity.Journal
	reviews     []*entity.Review

	messages  []*entity.GroupMessage
	reports   map[string]bool
	reportLog []*entity.GroupMessageReport
	groupSeq  int64
	records   []*entity.HealthRecord
	insights  []*entity.ReportInsight
	history   []*entity.ChatHistory
	chatbot   []*entity.ChatbotMessage
	chatSeq   int64
	conns     map[string]*entity.DeviceConnection
	metrics   []*entity.DeviceMetric
	metricSeq int64

	createErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:   map[uuid.UUID]*entity.User{},
		prefs:   map[uuid.UUID]*entity.UserPreference{},
		refresh: map[string]*entity.UserRefreshToken{},
		reports: map[string]bool{},
		conns:   map[string]*entity.DeviceConnection{},
	}
}

func (db *fakeDB) addUser(email string) *entity.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &entity.User{
		Id:            uuid.New(),
		Email:         email,
		FullName:      "Test Student",
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
		CreatedAt:     time.Now(),
	}
	db.users[u.Id] = u
	return u
}

type fakeFactory struct {
	db    *fakeDB
	mu    sync.Mutex
	calls int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{db: newFakeDB()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return &fakeUoW{db: f.db}
}

type fakeUoW struct {
	db *fakeDB
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) UserRepository() contract.UserRepository { return &fakeUserRepo{db: u.db} }
func (u *fakeUoW) AssessmentRepository() contract.AssessmentRepository {
	return &fakeAssessmentRepo{db: u.db}
}
func (u *fakeUoW) BookingRepository() contract.BookingRepository { return &fakeBookingRepo{db: u.db} }
func (u *fakeUoW) JournalRepository() contract.JournalRepository { return &fakeJournalRepo{db: u.db} }
func (u *fakeUoW) GroupMessageRepository() contract.GroupMessageRepository {
	return &fakeGroupRepo{db: u.db}
}
func (u *fakeUoW) HealthRecordRepository() contract.HealthRecordRepository {
	return &fakeHealthRepo{db: u.db}
}
func (u *fakeUoW) ChatHistoryRepository() contract.ChatHistoryRepository {
	return &fakeChatHistoryRepo{db: u.db}
}
func (u *fakeUoW) ChatbotMessageRepository() contract.ChatbotMessageRepository {
	return &fakeChatbotRepo{db: u.db}
}
func (u *fakeUoW) DeviceRepository() contract.DeviceRepository       { return &fakeDeviceRepo{db: u.db} }
func (u *fakeUoW) ReviewRepository() contract.ReviewRepository       { return &fakeReviewRepo{db: u.db} }
func (u *fakeUoW) NotificationRepository() repository.NotificationRepository { return nil }

// --- users ---

type fakeUserRepo struct {
	contract.UserRepository
	db *fakeDB
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	for _, u := range r.db.users {
		if q.id != nil && *q.id != u.Id {
			continue
		}
		if q.email != "" && q.email != u.Email {
			continue
		}
		return u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.User
	for _, u := range r.db.users {
		if q.text != "" && !strings.Contains(strings.ToLower(u.Email+" "+u.FullName), q.text) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *user
	r.db.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.verifyToken = append(r.db.verifyToken, token)
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.refresh[token.TokenHash] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, tokenHash string) (*entity.UserRefreshToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.refresh[tokenHash], nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.revoked = append(r.db.revoked, tokenHash)
	if t, ok := r.db.refresh[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

func (r *fakeUserRepo) FindPreference(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.prefs[userId]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Bookmarks = append([]string{}, p.Bookmarks...)
	return &cp, nil
}

func (r *fakeUserRepo) SavePreference(ctx context.Context, pref *entity.UserPreference) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *pref
	r.db.prefs[pref.UserId] = &cp
	return nil
}

func (r *fakeUserRepo) FindJournalReminderRecipients(ctx context.Context, since time.Time) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.recipients, nil
}

// --- wellness ---

type fakeAssessmentRepo struct {
	contract.AssessmentRepository
	db *fakeDB
}

func (r *fakeAssessmentRepo) Create(ctx context.Context, a *entity.Assessment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.assessments = append(r.db.assessments, a)
	return nil
}

func (r *fakeAssessmentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assessment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.Assessment
	for _, a := range r.db.assessments {
		if q.owned(a.Id, a.UserId) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type fakeBookingRepo struct {
	contract.BookingRepository
	db *fakeDB
}

func (r *fakeBookingRepo) match(b *entity.Booking, q query) bool {
	if !q.owned(b.Id, b.UserId) {
		return false
	}
	if q.status != "" && string(b.Status) != q.status {
		return false
	}
	if q.slot != nil {
		if b.CounsellorId == nil || *b.CounsellorId != q.slot.CounsellorID || b.Date != q.slot.Date || b.Time != q.slot.Time {
			return false
		}
	}
	return true
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.createErr != nil {
		return r.db.createErr
	}
	r.db.bookings = append(r.db.bookings, b)
	return nil
}

func (r *fakeBookingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	for _, b := range r.db.bookings {
		if r.match(b, q) {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.Booking
	for _, b := range r.db.bookings {
		if r.match(b, q) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.Id == id {
			b.Status = status
		}
	}
	return nil
}

func (r *fakeBookingRepo) BookedTimes(ctx context.Context, counsellorId, date string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, b := range r.db.bookings {
		if b.CounsellorId != nil && *b.CounsellorId == counsellorId && b.Date == date && b.Status == entity.BookingStatusScheduled {
			out = append(out, b.Time)
		}
	}
	return out, nil
}

type fakeJournalRepo struct {
	contract.JournalRepository
	db *fakeDB
}

func (r *fakeJournalRepo) match(j *entity.Journal, q query) bool {
	if !q.owned(j.Id, j.UserId) {
		return false
	}
	if q.book != "" && j.Book != q.book {
		return false
	}
	if q.tag != "" {
		found := false
		for _, t := range j.Tags {
			found = found || t == q.tag
		}
		if !found {
			return false
		}
	}
	if q.text != "" && !strings.Contains(strings.ToLower(j.Title+" "+j.Content), q.text) {
		return false
	}
	return true
}

func (r *fakeJournalRepo) Create(ctx context.Context, j *entity.Journal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.journals = append(r.db.journals, j)
	return nil
}

func (r *fakeJournalRepo) Update(ctx context.Context, j *entity.Journal) error { return nil }

func (r *fakeJournalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, j := range r.db.journals {
		if j.Id == id {
			r.db.journals = append(r.db.journals[:i], r.db.journals[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeJournalRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Journal, error) {
	rows, _ := r.FindAll(ctx, specs...)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeJournalRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Journal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.Journal
	for _, j := range r.db.journals {
		if r.match(j, q) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *fakeJournalRepo) DistinctBooks(ctx context.Context, userId uuid.UUID) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, j := range r.db.journals {
		if j.UserId == userId && !seen[j.Book] {
			seen[j.Book] = true
			out = append(out, j.Book)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	contract.ReviewRepository
	db *fakeDB
}

func (r *fakeReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reviews = append(r.db.reviews, rv)
	return nil
}

func (r *fakeReviewRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	out := append([]*entity.Review{}, r.db.reviews...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

// --- groups ---

type fakeGroupRepo struct {
	contract.GroupMessageRepository
	db *fakeDB
}

func (r *fakeGroupRepo) Create(ctx context.Context, m *entity.GroupMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.groupSeq++
	m.Seq = r.db.groupSeq
	r.db.messages = append(r.db.messages, m)
	return nil
}

func (r *fakeGroupRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GroupMessage, error) {
	rows, _ := r.FindAll(ctx, specs...)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeGroupRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.GroupMessage
	for _, m := range r.db.messages {
		if q.id != nil && *q.id != m.Id {
			continue
		}
		if q.room != "" && q.room != m.Room {
			continue
		}
		if m.Seq <= q.afterSeq {
			continue
		}
		if q.text != "" && !strings.Contains(strings.ToLower(m.Content), q.text) {
			continue
		}
		out = append(out, m)
	}
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeGroupRepo) FindLatest(ctx context.Context, n int, specs ...specification.Specification) ([]*entity.GroupMessage, error) {
	out, _ := r.FindAll(ctx, specs...)
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (r *fakeGroupRepo) IncrementReaction(ctx context.Context, messageId uuid.UUID, emoji string) (map[string]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.Id == messageId {
			if m.Reactions == nil {
				m.Reactions = map[string]int{}
			}
			m.Reactions[emoji]++
			out := map[string]int{}
			for k, v := range m.Reactions {
				out[k] = v
			}
			return out, nil
		}
	}
	return map[string]int{}, nil
}

func (r *fakeGroupRepo) Pin(ctx context.Context, messageId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.Id == messageId {
			m.Pinned = true
		}
	}
	return nil
}

func (r *fakeGroupRepo) CreateReport(ctx context.Context, rep *entity.GroupMessageReport) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := rep.MessageId.String() + rep.ReporterId.String()
	if r.db.reports[key] {
		return contract.ErrDuplicate
	}
	r.db.reports[key] = true
	r.db.reportLog = append(r.db.reportLog, rep)
	return nil
}

func (r *fakeGroupRepo) FindReports(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessageReport, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.GroupMessageReport
	for i := len(r.db.reportLog) - 1; i >= 0; i-- {
		rep := *r.db.reportLog[i]
		for _, m := range r.db.messages {
			if m.Id == rep.MessageId {
				rep.Message = m
			}
		}
		out = append(out, &rep)
	}
	return out, nil
}

// --- health ---

type fakeHealthRepo struct {
	db *fakeDB
}

func (r *fakeHealthRepo) Create(ctx context.Context, rec *entity.HealthRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.createErr != nil {
		return r.db.createErr
	}
	r.db.records = append(r.db.records, rec)
	return nil
}

func (r *fakeHealthRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HealthRecord, error) {
	rows, _ := r.FindAll(ctx, specs...)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeHealthRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HealthRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.HealthRecord
	for _, rec := range r.db.records {
		if q.owned(rec.Id, rec.UserId) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeHealthRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, rec := range r.db.records {
		if rec.Id == id {
			r.db.records = append(r.db.records[:i], r.db.records[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeHealthRepo) CreateInsight(ctx context.Context, i *entity.ReportInsight) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.insights = append(r.db.insights, i)
	return nil
}

func (r *fakeHealthRepo) FindInsight(ctx context.Context, specs ...specification.Specification) (*entity.ReportInsight, error) {
	rows, _ := r.FindInsights(ctx, specs...)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeHealthRepo) FindInsights(ctx context.Context, specs ...specification.Specification) ([]*entity.ReportInsight, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.ReportInsight
	for _, i := range r.db.insights {
		if q.userId != nil && *q.userId != i.UserId {
			continue
		}
		if q.recordId != nil && *q.recordId != i.HealthRecordId {
			continue
		}
		out = append(out, i)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if q.desc {
			return out[a].GeneratedAt.After(out[b].GeneratedAt)
		}
		return out[a].GeneratedAt.Before(out[b].GeneratedAt)
	})
	return out, nil
}

type fakeChatHistoryRepo struct {
	db *fakeDB
}

func (r *fakeChatHistoryRepo) Create(ctx context.Context, c *entity.ChatHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.history = append(r.db.history, c)
	return nil
}

func (r *fakeChatHistoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.ChatHistory
	for _, c := range r.db.history {
		if !q.owned(c.Id, c.UserId) {
			continue
		}
		if q.recordId != nil && gjson.GetBytes(c.Context, "record_id").String() != q.recordId.String() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeChatbotRepo struct {
	db *fakeDB
}

func (r *fakeChatbotRepo) Create(ctx context.Context, m *entity.ChatbotMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.chatSeq++
	m.Seq = r.db.chatSeq
	r.db.chatbot = append(r.db.chatbot, m)
	return nil
}

func (r *fakeChatbotRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatbotMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs...)
	var out []*entity.ChatbotMessage
	for _, m := range r.db.chatbot {
		if q.owned(m.Id, m.UserId) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeChatbotRepo) Recent(ctx context.Context, userId uuid.UUID, n int) ([]*entity.ChatbotMessage, error) {
	rows, _ := r.FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

func (r *fakeChatbotRepo) DeleteByUser(ctx context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.chatbot[:0]
	for _, m := range r.db.chatbot {
		if m.UserId != userId {
			kept = append(kept, m)
		}
	}
	r.db.chatbot = kept
	return nil
}

// --- devices ---

type fakeDeviceRepo struct {
	db *fakeDB
}

func (r *fakeDeviceRepo) FindConnections(ctx context.Context, userId uuid.UUID) ([]*entity.DeviceConnection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.DeviceConnection
	for _, c := range r.db.conns {
		if c.UserId == userId {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) SaveConnection(ctx context.Context, c *entity.DeviceConnection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *c
	r.db.conns[c.UserId.String()+c.DeviceId] = &cp
	return nil
}

func (r *fakeDeviceRepo) CountConnected(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, c := range r.db.conns {
		if c.UserId == userId && c.Status == entity.DeviceConnected {
			n++
		}
	}
	return n, nil
}

func (r *fakeDeviceRepo) AppendMetric(ctx context.Context, m *entity.DeviceMetric) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.metricSeq++
	m.Seq = r.db.metricSeq
	r.db.metrics = append(r.db.metrics, m)
	return nil
}

func (r *fakeDeviceRepo) RecentMetrics(ctx context.Context, userId uuid.UUID, n int) ([]*entity.DeviceMetric, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.DeviceMetric
	for _, m := range r.db.metrics {
		if m.UserId == userId {
			out = append(out, m)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

// --- collaborators ---

type fakeMailer struct {
	mu        sync.Mutex
	otps      []string
	bookings  []mailer.BookingEmail
	reminders []string
	err       error
}

func (m *fakeMailer) SendOTP(toEmail, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps = append(m.otps, otp)
	return m.err
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error { return m.err }

func (m *fakeMailer) SendBookingConfirmation(b mailer.BookingEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *fakeMailer) SendJournalReminder(toEmail, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reminders = append(m.reminders, toEmail)
	return nil
}

type fakeQueue struct {
	payloads [][]byte
	err      error
}

func (q *fakeQueue) Publish(ctx context.Context, payload []byte) error {
	q.payloads = append(q.payloads, payload)
	return q.err
}

type fakeLLM struct {
	reply    string
	err      error
	calls    int
	lastChat []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.lastChat = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

type roomEvent struct {
	room string
	kind string
	data interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []roomEvent
	alerts []roomEvent
}

func (b *fakeBroadcaster) PublishRoom(room, eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, roomEvent{room: room, kind: eventType, data: data})
}

func (b *fakeBroadcaster) PublishRoomAlert(room string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, roomEvent{room: room, kind: "risk_alert", data: data})
}

func nopLogger() logger.ILogger {
	return logger.NewNopLogger()
}
