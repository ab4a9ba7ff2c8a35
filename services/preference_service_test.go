package services

import (
	"context"
	"testing"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/ws"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestPreferences_DefaultsWhenNoRecord(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceRepo(), &fakePublisher{})

	prefs, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, models.ThemeSystem, prefs.Theme)
	require.True(t, prefs.AutoSave)
	require.False(t, prefs.CompactMode)
}

func TestPreferences_CompactModeNeverPersisted(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := NewPreferenceService(repo, &fakePublisher{})

	// CompactMode + kalıcı alan birlikte güncelleniyor.
	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		Theme:       strPtr(models.ThemeDark),
		CompactMode: boolPtr(true),
	})
	require.NoError(t, err)

	// Upsert'e giden HİÇBİR kayıtta CompactMode true olamaz.
	records := repo.upsertedRecords()
	require.NotEmpty(t, records)
	for _, rec := range records {
		require.False(t, rec.CompactMode, "compact_mode must never reach the store")
	}

	// Ama okuma compact_mode'u görür — mirror'dan gelir.
	prefs, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, prefs.CompactMode)
	require.Equal(t, models.ThemeDark, prefs.Theme)
}

func TestPreferences_CompactModeOnlySkipsStore(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := NewPreferenceService(repo, &fakePublisher{})

	// Sadece CompactMode değişti — DB'ye hiç yazılmamalı.
	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		CompactMode: boolPtr(true),
	})
	require.NoError(t, err)
	require.Empty(t, repo.upsertedRecords())

	prefs, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, prefs.CompactMode)
}

func TestPreferences_UpdateBroadcastsToUser(t *testing.T) {
	publisher := &fakePublisher{}
	svc := NewPreferenceService(newFakePreferenceRepo(), publisher)

	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		Theme: strPtr(models.ThemeLight),
	})
	require.NoError(t, err)

	require.Equal(t, []string{ws.OpPreferenceUpdate}, publisher.ops())
}

func TestPreferences_EmptyUpdateRejected(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceRepo(), &fakePublisher{})

	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{})
	require.Error(t, err)
}

func TestPreferences_InvalidThemeRejected(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceRepo(), &fakePublisher{})

	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		Theme: strPtr("neon"),
	})
	require.Error(t, err)
}

func TestPreferences_ClearDefaultTemplateWithEmptyString(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceRepo(), &fakePublisher{})

	_, err := svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		DefaultTemplateID: strPtr("tmpl-1"),
	})
	require.NoError(t, err)

	prefs, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, prefs.DefaultTemplateID)

	// Boş string = "varsayılanı kaldır".
	_, err = svc.Update(context.Background(), "u1", &models.UpdatePreferencesRequest{
		DefaultTemplateID: strPtr(""),
	})
	require.NoError(t, err)

	prefs, err = svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Nil(t, prefs.DefaultTemplateID)
}
