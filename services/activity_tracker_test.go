package services

import (
	"context"
	"testing"
	"time"

	"github.com/denizakgul/raporly/models"
	"github.com/stretchr/testify/require"
)

func TestTracker_MissingRecordIsFresh(t *testing.T) {
	tracker := NewActivityTracker(newFakeSessionRepo(), 30*time.Minute)

	// Hiç kaydı olmayan oturum expired SAYILMAZ — yeni login olan
	// kullanıcı giriş anında atılmamalı.
	require.False(t, tracker.IsExpired(context.Background(), "brand-new-session"))

	_, ok := tracker.Last(context.Background(), "brand-new-session")
	require.False(t, ok)
}

func TestTracker_RecordAndExpiry(t *testing.T) {
	repo := newFakeSessionRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Session{ID: "s1", UserID: "u1"}))

	tracker := NewActivityTracker(repo, 30*time.Minute).(*activityTracker)

	now := time.Now()
	tracker.now = func() time.Time { return now }
	tracker.Record(context.Background(), "s1")

	require.False(t, tracker.IsExpired(context.Background(), "s1"))

	// 29 dakika sonra hâlâ geçerli.
	tracker.now = func() time.Time { return now.Add(29 * time.Minute) }
	require.False(t, tracker.IsExpired(context.Background(), "s1"))

	// Tam 30 dakikada pencere dolmuş sayılır.
	tracker.now = func() time.Time { return now.Add(30 * time.Minute) }
	require.True(t, tracker.IsExpired(context.Background(), "s1"))
}

func TestTracker_RecordPersistsToRepo(t *testing.T) {
	repo := newFakeSessionRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Session{ID: "s1", UserID: "u1"}))

	tracker := NewActivityTracker(repo, 30*time.Minute)
	tracker.Record(context.Background(), "s1")

	session, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, session.LastActivityMS)
}

func TestTracker_FallsBackToRepoAfterRestart(t *testing.T) {
	repo := newFakeSessionRepo()
	activityMS := time.Now().Add(-10 * time.Minute).UnixMilli()
	require.NoError(t, repo.Create(context.Background(), &models.Session{
		ID:             "s1",
		UserID:         "u1",
		LastActivityMS: &activityMS,
	}))

	// Yeni tracker = server restart: in-memory map boş, DB dolu.
	tracker := NewActivityTracker(repo, 30*time.Minute)

	last, ok := tracker.Last(context.Background(), "s1")
	require.True(t, ok)
	require.Equal(t, activityMS, last)
	require.False(t, tracker.IsExpired(context.Background(), "s1"))
}

func TestTracker_ClearDropsRecord(t *testing.T) {
	repo := newFakeSessionRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Session{ID: "s1", UserID: "u1"}))

	tracker := NewActivityTracker(repo, 30*time.Minute)
	tracker.Record(context.Background(), "s1")
	tracker.Clear("s1")

	// In-memory kayıt düştü ama DB'de hâlâ var — Last DB'ye düşer.
	// Oturum tamamen silindiğinde (DeleteByID) DB tarafı da gider.
	require.NoError(t, repo.DeleteByID(context.Background(), "s1"))
	_, ok := tracker.Last(context.Background(), "s1")
	require.False(t, ok)
}
