// Package models — Rapor şablonları.
//
// Şablon, bir raporun bölüm iskeletini tanımlar. user_id nil olan
// şablonlar globaldir; is_published olan global şablonlar kullanıcı
// tarafından kopyalanabilir (clone).
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TemplateSection, şablonun tek bir bölümü (ör. "Findings").
type TemplateSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Template, bir rapor şablonu.
// Sections DB'de JSON kolonu olarak saklanır — bölümler sıralı ve
// şablonla birlikte atomik güncellendiği için ayrı tabloya gerek yok.
type Template struct {
	ID          string            `json:"id"`
	UserID      *string           `json:"-"` // nil = global şablon
	Name        string            `json:"name"`
	Modality    string            `json:"modality"`
	Sections    []TemplateSection `json:"sections"`
	IsGlobal    bool              `json:"is_global"`
	IsPublished bool              `json:"is_published"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Geçerli modalite kodları (DICOM kısaltmaları).
var validModalities = map[string]bool{
	"XR": true, "CT": true, "MR": true, "US": true,
	"NM": true, "PT": true, "MG": true, "FL": true,
}

// validateSections, bölüm listesinin şema kontrolü.
func validateSections(sections []TemplateSection) error {
	if len(sections) == 0 {
		return fmt.Errorf("sections must contain at least one section")
	}
	if len(sections) > 20 {
		return fmt.Errorf("sections must contain at most 20 sections")
	}
	for i, s := range sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("section %d: title is required", i+1)
		}
		if utf8.RuneCountInString(s.Title) > 128 {
			return fmt.Errorf("section %d: title must be at most 128 characters", i+1)
		}
	}
	return nil
}

// validateModality, modalite kodu kontrolü.
func validateModality(modality string) error {
	if modality == "" {
		return fmt.Errorf("modality is required")
	}
	if !validModalities[modality] {
		return fmt.Errorf("invalid modality")
	}
	return nil
}

// CreateTemplateRequest, yeni kişisel şablon isteği.
type CreateTemplateRequest struct {
	Name     string            `json:"name"`
	Modality string            `json:"modality"`
	Sections []TemplateSection `json:"sections"`
}

// Validate, CreateTemplateRequest geçerlilik kontrolü.
func (r *CreateTemplateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(r.Name) > 128 {
		return fmt.Errorf("name must be at most 128 characters")
	}
	r.Modality = strings.ToUpper(strings.TrimSpace(r.Modality))
	if err := validateModality(r.Modality); err != nil {
		return err
	}
	return validateSections(r.Sections)
}

// UpdateTemplateRequest, kısmi şablon güncellemesi.
type UpdateTemplateRequest struct {
	Name     *string           `json:"name"`
	Modality *string           `json:"modality"`
	Sections []TemplateSection `json:"sections"` // nil = değiştirme
}

// Validate, UpdateTemplateRequest geçerlilik kontrolü.
func (r *UpdateTemplateRequest) Validate() error {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if *r.Name == "" {
			return fmt.Errorf("name is required")
		}
		if utf8.RuneCountInString(*r.Name) > 128 {
			return fmt.Errorf("name must be at most 128 characters")
		}
	}
	if r.Modality != nil {
		*r.Modality = strings.ToUpper(strings.TrimSpace(*r.Modality))
		if err := validateModality(*r.Modality); err != nil {
			return err
		}
	}
	if r.Sections != nil {
		return validateSections(r.Sections)
	}
	return nil
}

// CloneTemplateRequest, yayımlı global şablonu kişisel alana kopyalama isteği.
type CloneTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// Validate, CloneTemplateRequest geçerlilik kontrolü.
func (r *CloneTemplateRequest) Validate() error {
	r.TemplateID = strings.TrimSpace(r.TemplateID)
	if r.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	return nil
}

// GenerateTemplateRequest, AI ile şablon üretme isteği.
// Description serbest metindir; model yapılandırılmış şablon döner.
type GenerateTemplateRequest struct {
	Description string `json:"description"`
	Modality    string `json:"modality"`
}

// Validate, GenerateTemplateRequest geçerlilik kontrolü.
func (r *GenerateTemplateRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(r.Description) > 2000 {
		return fmt.Errorf("description must be at most 2000 characters")
	}
	r.Modality = strings.ToUpper(strings.TrimSpace(r.Modality))
	return validateModality(r.Modality)
}

// GeneratedTemplate, AI'dan dönen yapılandırılmış şablon.
// Kaydedilmeden önce kullanıcı düzenleyebilsin diye DB'ye yazılmaz,
// olduğu gibi client'a döner.
type GeneratedTemplate struct {
	Name     string            `json:"name"`
	Modality string            `json:"modality"`
	Sections []TemplateSection `json:"sections"`
}
