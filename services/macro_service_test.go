package services

import (
	"context"
	"testing"

	"github.com/denizakgul/raporly/models"
	"github.com/stretchr/testify/require"
)

func seedMacro(t *testing.T, repo *fakeMacroRepo, id, userID, name, replacement string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.Macro{
		ID:              id,
		UserID:          userID,
		Name:            name,
		ReplacementText: replacement,
	}))
}

func TestExpand_ReplacesTrigger(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "normalcxr", "Normal chest X-ray. No acute findings.")

	svc := NewMacroService(nil, repo, nil)

	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "Impression: normalcxr",
	})
	require.NoError(t, err)
	require.Equal(t, "Impression: Normal chest X-ray. No acute findings.", result.Text)
	require.Equal(t, 1, result.Expanded)
}

func TestExpand_CaseInsensitive(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "normalcxr", "Normal study.")

	svc := NewMacroService(nil, repo, nil)

	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "NormalCXR and NORMALCXR",
	})
	require.NoError(t, err)
	require.Equal(t, "Normal study. and Normal study.", result.Text)
	require.Equal(t, 2, result.Expanded)
}

func TestExpand_WordBoundary(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "normalcxr", "Normal study.")

	svc := NewMacroService(nil, repo, nil)

	// "abnormalcxr" içindeki alt-string genişlememeli.
	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "abnormalcxr stays, normalcxr expands",
	})
	require.NoError(t, err)
	require.Equal(t, "abnormalcxr stays, Normal study. expands", result.Text)
	require.Equal(t, 1, result.Expanded)
}

func TestExpand_LongestTriggerWins(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "ct", "computed tomography")
	seedMacro(t, repo, "m2", "u1", "ctabd", "CT abdomen with contrast")

	svc := NewMacroService(nil, repo, nil)

	// Uzun tetikleyici önce işlenir — "ctabd" içindeki "ct" ezilmez.
	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "ctabd and ct",
	})
	require.NoError(t, err)
	require.Equal(t, "CT abdomen with contrast and computed tomography", result.Text)
	require.Equal(t, 2, result.Expanded)
}

func TestExpand_ReplacementOutputNotRescanned(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "ct", "computed tomography")
	seedMacro(t, repo, "m2", "u1", "contrast", "iodinated contrast")
	seedMacro(t, repo, "m3", "u1", "ctabd", "CT abdomen with contrast")

	svc := NewMacroService(nil, repo, nil)

	// "ctabd" genişledikten sonra çıktıdaki "CT" ve "contrast" kelimeleri
	// diğer makrolar tarafından yeniden genişlememeli.
	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "ctabd requested",
	})
	require.NoError(t, err)
	require.Equal(t, "CT abdomen with contrast requested", result.Text)
	require.Equal(t, 1, result.Expanded)
}

func TestExpand_NoTriggersLeavesTextUntouched(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "u1", "normalcxr", "Normal study.")

	svc := NewMacroService(nil, repo, nil)

	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "No findings of note.",
	})
	require.NoError(t, err)
	require.Equal(t, "No findings of note.", result.Text)
	require.Equal(t, 0, result.Expanded)
}

func TestExpand_EmptyTextRejected(t *testing.T) {
	svc := NewMacroService(nil, newFakeMacroRepo(), nil)

	_, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{Text: "   "})
	require.Error(t, err)
}

func TestExpand_OtherUsersMacrosIgnored(t *testing.T) {
	repo := newFakeMacroRepo()
	seedMacro(t, repo, "m1", "someone-else", "normalcxr", "Normal study.")

	svc := NewMacroService(nil, repo, nil)

	result, err := svc.Expand(context.Background(), "u1", &models.ExpandRequest{
		Text: "normalcxr",
	})
	require.NoError(t, err)
	require.Equal(t, "normalcxr", result.Text)
	require.Equal(t, 0, result.Expanded)
}

func TestCreateMacro_ValidationNamesMissingField(t *testing.T) {
	svc := NewMacroService(nil, newFakeMacroRepo(), nil)

	_, err := svc.CreateMacro(context.Background(), "u1", &models.CreateMacroRequest{
		ReplacementText: "something",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")

	_, err = svc.CreateMacro(context.Background(), "u1", &models.CreateMacroRequest{
		Name: "normalcxr",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "replacementText")
}
