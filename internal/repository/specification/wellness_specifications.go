package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByType struct {
	Type string
}

func (s ByType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByCounsellorSlot struct {
	CounsellorID string
	Date         string
	Time         string
}

func (s ByCounsellorSlot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("counsellor_id = ? AND date = ? AND time = ?", s.CounsellorID, s.Date, s.Time)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByBook struct {
	Book string
}

func (s ByBook) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("book = ?", s.Book)
}

// HasTag matches a jsonb string array containing Tag.
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tags @> ?::jsonb", `["`+jsonEscape(s.Tag)+`"]`)
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}

type ByRoom struct {
	Room string
}

func (s ByRoom) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room = ?", s.Room)
}

type AfterSeq struct {
	Seq int64
}

func (s AfterSeq) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("seq > ?", s.Seq)
}

type ByHealthRecordID struct {
	RecordID uuid.UUID
}

func (s ByHealthRecordID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("health_record_id = ?", s.RecordID)
}

// ByContextRecord filters chat history on context->>'record_id'.
type ByContextRecord struct {
	RecordID uuid.UUID
}

func (s ByContextRecord) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("context->>'record_id' = ?", s.RecordID.String())
}

type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.N)
}

func jsonEscape(v string) string {
	out := make([]rune, 0, len(v))
	for _, r := range v {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
