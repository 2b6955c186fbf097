package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"calm", []string{"calm"}},
		{" calm , exam ,, calm,sleep ", []string{"calm", "exam", "sleep"}},
		{",,,", []string{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseTags(tc.in), tc.in)
	}
}

func newJournalService(factory *fakeFactory, mail *fakeMailer) *journalService {
	return NewJournalService(factory, mail, nopLogger()).(*journalService)
}

func TestCreateJournal(t *testing.T) {
	svc := newJournalService(newFakeFactory(), &fakeMailer{})
	userId := uuid.New()

	_, err := svc.Create(context.Background(), userId, &dto.CreateJournalRequest{Title: " ", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	resp, err := svc.Create(context.Background(), userId, &dto.CreateJournalRequest{
		Title:   "Tuesday",
		Content: "Felt **better** today",
		Tags:    []string{"mood"},
		TagsCSV: "exam, mood , sleep",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultBook, resp.Book)
	assert.Equal(t, []string{"mood", "exam", "sleep"}, resp.Tags)
	assert.Empty(t, resp.ContentHTML)

	got, err := svc.Get(context.Background(), userId, resp.Id)
	require.NoError(t, err)
	assert.Contains(t, got.ContentHTML, "<strong>better</strong>")

	_, err = svc.Get(context.Background(), uuid.New(), resp.Id)
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
}

func TestListJournalsFilters(t *testing.T) {
	svc := newJournalService(newFakeFactory(), &fakeMailer{})
	userId := uuid.New()

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}

	for _, req := range []dto.CreateJournalRequest{
		{Title: "Exam prep", Content: "nervous", Book: "Mood Tracker", TagsCSV: "exam"},
		{Title: "Walk", Content: "Calm evening", TagsCSV: "calm"},
		{Title: "Sleep", Content: "slept well", TagsCSV: "calm,sleep"},
	} {
		req := req
		_, err := svc.Create(context.Background(), userId, &req)
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), userId, dto.JournalQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sleep", all[0].Title, "newest first")

	calm, err := svc.List(context.Background(), userId, dto.JournalQuery{Tag: "calm"})
	require.NoError(t, err)
	assert.Len(t, calm, 2)

	search, err := svc.List(context.Background(), userId, dto.JournalQuery{Search: "CALM"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Walk", search[0].Title)

	books, err := svc.List(context.Background(), userId, dto.JournalQuery{Book: "Mood Tracker"})
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestBooksMergesDefaults(t *testing.T) {
	svc := newJournalService(newFakeFactory(), &fakeMailer{})
	userId := uuid.New()

	for _, book := range []string{"Zen", "Daily Log", "Gratitude"} {
		_, err := svc.Create(context.Background(), userId, &dto.CreateJournalRequest{Title: "t", Content: "c", Book: book})
		require.NoError(t, err)
	}

	books, err := svc.Books(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, []string{"Daily Log", "Wellness Journal", "Mood Tracker", "Gratitude", "Zen"}, books)
}

func TestUpdateAndDeleteJournal(t *testing.T) {
	svc := newJournalService(newFakeFactory(), &fakeMailer{})
	userId := uuid.New()
	created, err := svc.Create(context.Background(), userId, &dto.CreateJournalRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	title := "renamed"
	csv := "a,b"
	updated, err := svc.Update(context.Background(), userId, created.Id, &dto.UpdateJournalRequest{Title: &title, TagsCSV: &csv})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "c", updated.Content)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)

	empty := " "
	_, err = svc.Update(context.Background(), userId, created.Id, &dto.UpdateJournalRequest{Content: &empty})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(svc.Delete(context.Background(), uuid.New(), created.Id)))
	require.NoError(t, svc.Delete(context.Background(), userId, created.Id))
}

func TestSendReminders(t *testing.T) {
	factory := newFakeFactory()
	mail := &fakeMailer{}
	factory.db.recipients = []*entity.User{
		{Id: uuid.New(), Email: "a@example.com", FullName: "A"},
		{Id: uuid.New(), Email: "b@example.com", FullName: "B"},
	}
	svc := newJournalService(factory, mail)

	sent, err := svc.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mail.reminders)

	mail.err = errors.New("smtp down")
	sent, err = svc.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
