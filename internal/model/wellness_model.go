package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	Id        uuid.UUID                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID                `gorm:"type:uuid;not null;index:idx_assessments_user_created,priority:1"`
	Type      string                   `gorm:"type:varchar(20);not null"`
	Score     int                      `gorm:"not null"`
	Answers   datatypes.JSONSlice[int] `gorm:"type:jsonb;not null"`
	Severity  string                   `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time                `gorm:"autoCreateTime;index:idx_assessments_user_created,priority:2"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Booking slots are unique per counsellor while scheduled.
type Booking struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	CounsellorId *string   `gorm:"type:varchar(20);uniqueIndex:idx_bookings_slot,priority:1,where:status = 'scheduled'"`
	Date         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_bookings_slot,priority:2,where:status = 'scheduled'"`
	Time         string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_bookings_slot,priority:3,where:status = 'scheduled'"`
	Notes        string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'scheduled'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

type Journal struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Content   string                      `gorm:"type:text;not null"`
	Book      string                      `gorm:"type:varchar(100);not null;default:'Daily Log'"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Mood      *int
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Journal) TableName() string {
	return "journals"
}

type Review struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(100);not null"`
	Program   string     `gorm:"type:varchar(100);not null"`
	Rating    int        `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Text      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
}

func (Review) TableName() string {
	return "reviews"
}
