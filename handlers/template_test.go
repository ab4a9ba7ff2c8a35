package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/services"
)

// stubTemplateService, Clone çağrılarını kaydeden TemplateService.
type stubTemplateService struct {
	clonedID string
}

var _ services.TemplateService = (*stubTemplateService)(nil)

func (s *stubTemplateService) Create(ctx context.Context, userID string, req *models.CreateTemplateRequest) (*models.Template, error) {
	return nil, nil
}

func (s *stubTemplateService) List(ctx context.Context, userID string) ([]models.Template, error) {
	return nil, nil
}

func (s *stubTemplateService) Get(ctx context.Context, userID, templateID string) (*models.Template, error) {
	return nil, nil
}

func (s *stubTemplateService) Update(ctx context.Context, userID, templateID string, req *models.UpdateTemplateRequest) (*models.Template, error) {
	return nil, nil
}

func (s *stubTemplateService) Delete(ctx context.Context, userID, templateID string) error {
	return nil
}

func (s *stubTemplateService) Clone(ctx context.Context, userID, templateID string) (*models.Template, error) {
	s.clonedID = templateID
	return &models.Template{ID: "copy-of-" + templateID}, nil
}

func (s *stubTemplateService) Generate(ctx context.Context, req *models.GenerateTemplateRequest) (*models.GeneratedTemplate, error) {
	return nil, nil
}

func cloneRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/templates/clone", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), UserContextKey, &models.User{ID: "u1"})
	return req.WithContext(ctx)
}

func TestClone_TemplateIDFromBody(t *testing.T) {
	svc := &stubTemplateService{}
	handler := NewTemplateHandler(svc)

	rec := httptest.NewRecorder()
	handler.Clone(rec, cloneRequest(`{"template_id":"g1"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "g1", svc.clonedID)
}

func TestClone_MissingTemplateIDRejected(t *testing.T) {
	svc := &stubTemplateService{}
	handler := NewTemplateHandler(svc)

	rec := httptest.NewRecorder()
	handler.Clone(rec, cloneRequest(`{}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "template_id")
	require.Empty(t, svc.clonedID)
}
