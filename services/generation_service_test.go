package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

func seedTemplate(t *testing.T, repo *fakeTemplateRepo, template *models.Template) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), template))
}

func newGenerationFixture(t *testing.T) (*generationService, *fakeTemplateRepo) {
	t.Helper()
	repo := newFakeTemplateRepo()
	return &generationService{templateRepo: repo}, repo
}

func TestBuildPrompt_OtherUsersPersonalTemplateNotFound(t *testing.T) {
	svc, repo := newGenerationFixture(t)
	owner := "owner"
	seedTemplate(t, repo, &models.Template{
		ID:       "t1",
		UserID:   &owner,
		Name:     "Private CT",
		Modality: "CT",
		Sections: []models.TemplateSection{{Title: "Secret Section", Content: "confidential default"}},
	})

	templateID := "t1"
	_, err := svc.buildPrompt(context.Background(), "intruder", &models.GenerateReportRequest{
		TemplateID: &templateID,
		Findings:   "mild hepatomegaly",
	})
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestBuildPrompt_OwnTemplateShapesPrompt(t *testing.T) {
	svc, repo := newGenerationFixture(t)
	owner := "u1"
	seedTemplate(t, repo, &models.Template{
		ID:       "t1",
		UserID:   &owner,
		Name:     "Abdomen CT",
		Modality: "CT",
		Sections: []models.TemplateSection{{Title: "Liver"}, {Title: "Impression"}},
	})

	templateID := "t1"
	prompt, err := svc.buildPrompt(context.Background(), "u1", &models.GenerateReportRequest{
		TemplateID: &templateID,
		Findings:   "mild hepatomegaly",
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "## Liver")
	require.Contains(t, prompt, "## Impression")
	require.Contains(t, prompt, "mild hepatomegaly")
}

func TestBuildPrompt_PublishedGlobalTemplateVisibleToEveryone(t *testing.T) {
	svc, repo := newGenerationFixture(t)
	seedTemplate(t, repo, &models.Template{
		ID:          "g1",
		Name:        "Chest XR",
		Modality:    "XR",
		IsGlobal:    true,
		IsPublished: true,
		Sections:    []models.TemplateSection{{Title: "Lungs"}},
	})

	templateID := "g1"
	prompt, err := svc.buildPrompt(context.Background(), "anyone", &models.GenerateReportRequest{
		TemplateID: &templateID,
		Findings:   "clear lungs",
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "## Lungs")
}

func TestBuildPrompt_UnpublishedGlobalTemplateNotFound(t *testing.T) {
	svc, repo := newGenerationFixture(t)
	seedTemplate(t, repo, &models.Template{
		ID:       "g1",
		Name:     "Draft global",
		Modality: "XR",
		IsGlobal: true,
		Sections: []models.TemplateSection{{Title: "Lungs"}},
	})

	templateID := "g1"
	_, err := svc.buildPrompt(context.Background(), "anyone", &models.GenerateReportRequest{
		TemplateID: &templateID,
		Findings:   "clear lungs",
	})
	require.ErrorIs(t, err, pkg.ErrNotFound)
}
