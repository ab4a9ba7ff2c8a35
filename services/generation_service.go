package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/pkg/ratelimit"
	"github.com/denizakgul/raporly/repository"
)

// GenerationService, bulgulardan AI ile rapor üretir.
//
// Üretim streaming'dir: model token ürettikçe emit callback'i çağrılır,
// handler bunları SSE olarak client'a akıtır. Radyolog ilk cümleyi
// saniyeler içinde görmeye başlar — 20 saniyelik boş bekleme yerine.
type GenerationService interface {
	// GenerateStream, raporu parça parça üretir. Her parça için emit
	// çağrılır; emit error dönerse (client bağlantıyı kopardı) üretim durur.
	GenerateStream(ctx context.Context, userID string, req *models.GenerateReportRequest, emit func(chunk string) error) error
}

// generationService, GenerationService implementasyonu.
type generationService struct {
	genai        *genai.Client // nil olabilir — GEMINI_API_KEY yoksa
	model        string
	templateRepo repository.TemplateRepository
	limiter      *ratelimit.GenerationRateLimiter
}

// NewGenerationService, constructor.
func NewGenerationService(
	genaiClient *genai.Client,
	model string,
	templateRepo repository.TemplateRepository,
	limiter *ratelimit.GenerationRateLimiter,
) GenerationService {
	return &generationService{
		genai:        genaiClient,
		model:        model,
		templateRepo: templateRepo,
		limiter:      limiter,
	}
}

// GenerateStream, rapor üretimini başlatır ve parçaları emit'e akıtır.
func (s *generationService) GenerateStream(ctx context.Context, userID string, req *models.GenerateReportRequest, emit func(chunk string) error) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	if !s.limiter.Allow(userID) {
		seconds := s.limiter.CooldownSeconds(userID)
		return fmt.Errorf("%w: %s", pkg.ErrRateLimited, ratelimit.FormatRetryMessage(seconds))
	}

	if s.genai == nil {
		return fmt.Errorf("%w: AI features are not configured", pkg.ErrConfiguration)
	}

	prompt, err := s.buildPrompt(ctx, userID, req)
	if err != nil {
		return err
	}

	// GenerateContentStream bir iterator döner (Go 1.23 range-over-func).
	// Her chunk geldiğinde döngü gövdesi çalışır.
	for chunk, err := range s.genai.Models.GenerateContentStream(ctx, s.model, genai.Text(prompt), nil) {
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}
		text := chunk.Text()
		if text == "" {
			continue
		}
		if err := emit(text); err != nil {
			// Client gitti — üretimi sürdürmenin anlamı yok.
			return nil
		}
	}

	return nil
}

// buildPrompt, bulgular + klinik bilgi + opsiyonel şablon iskeletinden
// model prompt'unu kurar.
func (s *generationService) buildPrompt(ctx context.Context, userID string, req *models.GenerateReportRequest) (string, error) {
	var b strings.Builder
	b.WriteString("You are a radiology reporting assistant. Write a complete, professional radiology report based on the dictated findings below. ")
	b.WriteString("Use formal radiology language, expand shorthand, and keep the factual content exactly as dictated — never invent findings.\n\n")

	if req.TemplateID != nil && *req.TemplateID != "" {
		template, err := s.loadVisibleTemplate(ctx, userID, *req.TemplateID)
		if err != nil {
			return "", err // ErrNotFound → handler 404 yapar
		}
		b.WriteString("Structure the report using exactly these sections, in order:\n")
		for _, section := range template.Sections {
			b.WriteString("## " + section.Title + "\n")
			if strings.TrimSpace(section.Content) != "" {
				b.WriteString("(default text when unremarkable: " + section.Content + ")\n")
			}
		}
		b.WriteString("\n")
	}

	if strings.TrimSpace(req.ClinicalInfo) != "" {
		b.WriteString("Clinical information:\n" + req.ClinicalInfo + "\n\n")
	}

	b.WriteString("Dictated findings:\n" + req.Findings + "\n")

	return b.String(), nil
}

// loadVisibleTemplate, şablonu görünürlük kuralıyla yükler: kişisel
// şablonlar sadece sahibine, global şablonlar sadece yayımlıysa görünür.
// Görünmeyen şablon NotFound'dur — başka kullanıcının şablon ID'si ile
// prompt'a içerik sızdırılamaz.
func (s *generationService) loadVisibleTemplate(ctx context.Context, userID, templateID string) (*models.Template, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.IsGlobal {
		if !template.IsPublished {
			return nil, fmt.Errorf("%w: template", pkg.ErrNotFound)
		}
		return template, nil
	}
	if template.UserID == nil || *template.UserID != userID {
		return nil, fmt.Errorf("%w: template", pkg.ErrNotFound)
	}
	return template, nil
}
