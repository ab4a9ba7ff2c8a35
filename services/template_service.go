package services

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
)

// TemplateService, rapor şablonlarının iş mantığı.
//
// İki tür şablon vardır:
//   - Kişisel: user_id dolu, sadece sahibi görür ve değiştirir.
//   - Global: user_id NULL, seed migration ile gelir. Yayımlanmış (is_published)
//     global şablonlar herkese görünür ama SALT OKUNUR — kullanıcı üzerinde
//     değişiklik yapmak isterse önce Clone ile kişisel kopya alır.
type TemplateService interface {
	Create(ctx context.Context, userID string, req *models.CreateTemplateRequest) (*models.Template, error)
	List(ctx context.Context, userID string) ([]models.Template, error)
	Get(ctx context.Context, userID, templateID string) (*models.Template, error)
	Update(ctx context.Context, userID, templateID string, req *models.UpdateTemplateRequest) (*models.Template, error)
	Delete(ctx context.Context, userID, templateID string) error
	// Clone, yayımlanmış bir global şablonun kişisel kopyasını oluşturur.
	Clone(ctx context.Context, userID, templateID string) (*models.Template, error)
	// Generate, serbest metin tarifinden AI ile yapılandırılmış şablon üretir.
	// Sonuç DB'ye YAZILMAZ — kullanıcı düzenleyip ayrıca kaydeder.
	Generate(ctx context.Context, req *models.GenerateTemplateRequest) (*models.GeneratedTemplate, error)
}

// templateService, TemplateService implementasyonu.
type templateService struct {
	repo   repository.TemplateRepository
	genai  *genai.Client // nil olabilir — GEMINI_API_KEY yoksa
	model  string
}

// NewTemplateService, constructor.
// genaiClient nil geçilebilir; bu durumda Generate ErrConfiguration döner
// ama CRUD tarafı çalışmaya devam eder.
func NewTemplateService(repo repository.TemplateRepository, genaiClient *genai.Client, model string) TemplateService {
	return &templateService{
		repo:  repo,
		genai: genaiClient,
		model: model,
	}
}

// Create, yeni kişisel şablon oluşturur.
func (s *templateService) Create(ctx context.Context, userID string, req *models.CreateTemplateRequest) (*models.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	template := &models.Template{
		UserID:   &userID,
		Name:     req.Name,
		Modality: req.Modality,
		Sections: req.Sections,
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// List, kullanıcının görebildiği şablonları döner (kişisel + yayımlı global).
func (s *templateService) List(ctx context.Context, userID string) ([]models.Template, error) {
	return s.repo.GetVisibleByUser(ctx, userID)
}

// Get, tek bir şablonu görünürlük kontrolü ile döner.
func (s *templateService) Get(ctx context.Context, userID, templateID string) (*models.Template, error) {
	template, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !s.visible(template, userID) {
		return nil, fmt.Errorf("%w: template", pkg.ErrNotFound)
	}
	return template, nil
}

// Update, kişisel şablonu günceller. Global şablonlar salt okunurdur.
func (s *templateService) Update(ctx context.Context, userID, templateID string, req *models.UpdateTemplateRequest) (*models.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	template, err := s.ownedTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Modality != nil {
		template.Modality = *req.Modality
	}
	if req.Sections != nil {
		template.Sections = req.Sections
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// Delete, kişisel şablonu siler.
func (s *templateService) Delete(ctx context.Context, userID, templateID string) error {
	if _, err := s.ownedTemplate(ctx, userID, templateID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, templateID)
}

// Clone, yayımlanmış global şablonun kişisel kopyasını oluşturur.
//
// Sadece yayımlanmış global şablonlar klonlanabilir — kişisel şablonun
// kopyası anlamsızdır (zaten düzenlenebilir), yayımlanmamış global
// şablon ise kullanıcıya görünmez.
func (s *templateService) Clone(ctx context.Context, userID, templateID string) (*models.Template, error) {
	source, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if !source.IsGlobal || !source.IsPublished {
		return nil, fmt.Errorf("%w: only published global templates can be cloned", pkg.ErrValidation)
	}

	clone := &models.Template{
		UserID:   &userID,
		Name:     source.Name,
		Modality: source.Modality,
		Sections: source.Sections,
	}

	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, err
	}

	return clone, nil
}

// Generate, AI ile şablon üretir.
//
// ResponseSchema kullanılır: model serbest prosa değil, şemaya uyan JSON
// dönmeye zorlanır. Yine de dönen JSON validate edilir — model şemayı
// nadiren de olsa delebilir.
func (s *templateService) Generate(ctx context.Context, req *models.GenerateTemplateRequest) (*models.GeneratedTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	if s.genai == nil {
		return nil, fmt.Errorf("%w: AI features are not configured", pkg.ErrConfiguration)
	}

	prompt := fmt.Sprintf(
		"You are a radiology reporting assistant. Create a report template for the %s modality based on this description:\n\n%s\n\n"+
			"Return a template with a short name and between 2 and 10 sections. "+
			"Section titles follow standard radiology report structure (e.g. Clinical Information, Technique, Findings, Impression). "+
			"Section content holds default boilerplate text for a normal study, or is empty when no sensible default exists.",
		req.Modality, req.Description,
	)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {Type: genai.TypeString},
				"sections": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":   {Type: genai.TypeString},
							"content": {Type: genai.TypeString},
						},
						Required: []string{"title", "content"},
					},
				},
			},
			Required: []string{"name", "sections"},
		},
	}

	resp, err := s.genai.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("template generation failed: %w", err)
	}

	var generated models.GeneratedTemplate
	if err := json.Unmarshal([]byte(resp.Text()), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse generated template: %w", err)
	}
	generated.Modality = req.Modality

	if len(generated.Sections) == 0 {
		return nil, fmt.Errorf("model returned a template without sections")
	}

	return &generated, nil
}

// ─── Private Helpers ───

// ownedTemplate, şablonu yükler ve yazma yetkisini doğrular.
func (s *templateService) ownedTemplate(ctx context.Context, userID, templateID string) (*models.Template, error) {
	template, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.IsGlobal {
		return nil, fmt.Errorf("%w: global templates are read-only", pkg.ErrForbidden)
	}
	if template.UserID == nil || *template.UserID != userID {
		return nil, fmt.Errorf("%w: template belongs to another user", pkg.ErrForbidden)
	}
	return template, nil
}

// visible, şablonun kullanıcıya görünür olup olmadığını söyler.
func (s *templateService) visible(template *models.Template, userID string) bool {
	if template.IsGlobal {
		return template.IsPublished
	}
	return template.UserID != nil && *template.UserID == userID
}
