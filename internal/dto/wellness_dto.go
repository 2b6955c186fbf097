package dto

import (
	"time"

	"mitr-be/pkg/assessment"
	"mitr-be/pkg/catalog"
	"mitr-be/pkg/counsellor"

	"github.com/google/uuid"
)

// --- Assessments ---

type AssessmentQuestionsResponse struct {
	Type      string                `json:"type"`
	Questions []assessment.Question `json:"questions"`
	Choices   []assessment.Choice   `json:"choices"`
}

type SubmitAssessmentRequest struct {
	Type    string `json:"type"`
	Answers []int  `json:"answers" validate:"required"`
}

type AssessmentResponse struct {
	Id        uuid.UUID          `json:"id"`
	Type      string             `json:"type"`
	Score     int                `json:"score"`
	Answers   []int              `json:"answers"`
	Severity  string             `json:"severity"`
	Label     string             `json:"label,omitempty"`
	Sentiment int                `json:"sentiment"`
	Advice    string             `json:"advice,omitempty"`
	Helplines []catalog.Helpline `json:"helplines,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type TrendPoint struct {
	Date      string `json:"date"`
	Score     int    `json:"score"`
	Sentiment int    `json:"sentiment"`
}

// --- Counsellors ---

type CounsellorQuery struct {
	Specialty    string `query:"specialty"`
	Language     string `query:"language"`
	Availability string `query:"availability"`
}

type CounsellorListResponse struct {
	Counsellors []counsellor.Counsellor `json:"counsellors"`
	Specialties []string                `json:"specialties"`
	Languages   []string                `json:"languages"`
}

type SlotsResponse struct {
	CounsellorId string   `json:"counsellor_id"`
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
}

// --- Bookings ---

type CreateBookingRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	CounsellorId string `json:"counsellor_id"`
	Notes        string `json:"notes" validate:"max=1000"`
}

type BookingResponse struct {
	Id             uuid.UUID `json:"id"`
	CounsellorId   *string   `json:"counsellor_id"`
	CounsellorName string    `json:"counsellor_name,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Notes          string    `json:"notes"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendBookingEmailRequest names a booking of the caller; the email goes to
// their account address.
type SendBookingEmailRequest struct {
	BookingId uuid.UUID `json:"booking_id" validate:"required"`
}

// --- Journals ---

type CreateJournalRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Book    string   `json:"book" validate:"max=100"`
	Tags    []string `json:"tags"`
	TagsCSV string   `json:"tags_csv"`
	Mood    *int     `json:"mood" validate:"omitempty,min=1,max=5"`
}

type UpdateJournalRequest struct {
	Title   *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string  `json:"content" validate:"omitempty,min=1"`
	Book    *string  `json:"book" validate:"omitempty,max=100"`
	Tags    []string `json:"tags"`
	TagsCSV *string  `json:"tags_csv"`
	Mood    *int     `json:"mood" validate:"omitempty,min=1,max=5"`
}

type JournalQuery struct {
	Search string `query:"search"`
	Tag    string `query:"tag"`
	Book   string `query:"book"`
}

type JournalResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	Book        string    `json:"book"`
	Tags        []string  `json:"tags"`
	Mood        *int      `json:"mood,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Reviews ---

type CreateReviewRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Program string `json:"program" validate:"max=100"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Text    string `json:"text" validate:"required,max=2000"`
}

type ReviewResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Program   string    `json:"program"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
