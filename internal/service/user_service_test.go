package service

import (
	"context"
	"net/http"
	"testing"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/pkg/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesRoundTrip(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, catalog.MustLoad())
	userId := uuid.New()

	defaults, err := svc.GetPreferences(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, "light", defaults.Theme)
	assert.False(t, defaults.GroupsMuted)
	assert.Empty(t, defaults.Bookmarks)

	dark := "dark"
	muted := true
	_, err = svc.UpdatePreferences(context.Background(), userId, &dto.UpdatePreferenceRequest{Theme: &dark, GroupsMuted: &muted})
	require.NoError(t, err)

	got, err := svc.GetPreferences(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.True(t, got.GroupsMuted)
	assert.False(t, got.JournalReminders, "untouched fields keep their value")
}

func TestBookmarks(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, catalog.MustLoad())
	userId := uuid.New()

	_, err := svc.AddBookmark(context.Background(), userId, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))

	_, err = svc.AddBookmark(context.Background(), userId, "a1")
	require.NoError(t, err)
	got, err := svc.AddBookmark(context.Background(), userId, "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, got.Bookmarks)

	got, err = svc.RemoveBookmark(context.Background(), userId, "a1")
	require.NoError(t, err)
	assert.Empty(t, got.Bookmarks)
}
