package implementation

import (
	"context"
	"errors"

	"mitr-be/internal/entity"
	"mitr-be/internal/mapper"
	"mitr-be/internal/model"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssessmentMapper
}

func NewAssessmentRepository(db *gorm.DB) contract.AssessmentRepository {
	return &AssessmentRepositoryImpl{db: db, mapper: mapper.NewAssessmentMapper()}
}

func (r *AssessmentRepositoryImpl) Create(ctx context.Context, a *entity.Assessment) error {
	m := r.mapper.ToModel(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*a = *r.mapper.ToEntity(m)
	return nil
}

func (r *AssessmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assessment, error) {
	var models []*model.Assessment
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{db: db, mapper: mapper.NewBookingMapper()}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, b *entity.Booking) error {
	m := r.mapper.ToModel(b)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrSlotTaken
		}
		return err
	}
	*b = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var models []*model.Booking
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", id).Update("status", string(status)).Error
}

func (r *BookingRepositoryImpl) BookedTimes(ctx context.Context, counsellorId, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("counsellor_id = ? AND date = ? AND status = ?", counsellorId, date, string(entity.BookingStatusScheduled)).
		Order("time ASC").
		Pluck("time", &times).Error
	return times, err
}

type JournalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewJournalRepository(db *gorm.DB) contract.JournalRepository {
	return &JournalRepositoryImpl{db: db, mapper: mapper.NewJournalMapper()}
}

func (r *JournalRepositoryImpl) Create(ctx context.Context, j *entity.Journal) error {
	m := r.mapper.ToModel(j)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*j = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Update(ctx context.Context, j *entity.Journal) error {
	m := r.mapper.ToModel(j)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*j = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Journal{}).Error
}

func (r *JournalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Journal, error) {
	var m model.Journal
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JournalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Journal, error) {
	var models []*model.Journal
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *JournalRepositoryImpl) DistinctBooks(ctx context.Context, userId uuid.UUID) ([]string, error) {
	var books []string
	err := r.db.WithContext(ctx).Model(&model.Journal{}).
		Where("user_id = ?", userId).
		Distinct("book").
		Order("book ASC").
		Pluck("book", &books).Error
	return books, err
}

type ReviewRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReviewMapper
}

func NewReviewRepository(db *gorm.DB) contract.ReviewRepository {
	return &ReviewRepositoryImpl{db: db, mapper: mapper.NewReviewMapper()}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, rv *entity.Review) error {
	m := r.mapper.ToModel(rv)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rv = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReviewRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	var models []*model.Review
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
