package entity

import (
	"time"

	"github.com/google/uuid"
)

type Assessment struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      string
	Score     int
	Answers   []int
	Severity  string
	CreatedAt time.Time
}

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	CounsellorId *string
	Date         string
	Time         string
	Notes        string
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Journal struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Book      string
	Tags      []string
	Mood      *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Review struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	Name      string
	Program   string
	Rating    int
	Text      string
	CreatedAt time.Time
}
