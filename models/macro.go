// Package models — Dikte makroları ve kategorileri.
//
// Makro, radyoloğun dikte ederken kullandığı kısayoldur: "normalcxr"
// yazıldığında replacementText ile genişler. JSON alan adları frontend'in
// camelCase sözleşmesini korur.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Makro alanları için üst sınırlar.
const (
	MacroNameMaxLen        = 64
	MacroReplacementMaxLen = 4096
)

// Macro, bir metin genişletme kısayolu.
type Macro struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	CategoryID      *string   `json:"categoryId"`
	Name            string    `json:"name"`
	ReplacementText string    `json:"replacementText"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MacroCategory, makroları gruplayan kullanıcı kategorisi.
type MacroCategory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateMacroRequest, yeni makro isteği.
type CreateMacroRequest struct {
	Name            string  `json:"name"`
	ReplacementText string  `json:"replacementText"`
	CategoryID      *string `json:"categoryId"`
}

// Validate, CreateMacroRequest geçerlilik kontrolü.
// Hata mesajları eksik alanı frontend'in gördüğü adla söyler.
func (r *CreateMacroRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(r.Name) > MacroNameMaxLen {
		return fmt.Errorf("name must be at most %d characters", MacroNameMaxLen)
	}
	if strings.ContainsAny(r.Name, " \t\n") {
		return fmt.Errorf("name cannot contain whitespace")
	}
	if strings.TrimSpace(r.ReplacementText) == "" {
		return fmt.Errorf("replacementText is required")
	}
	if utf8.RuneCountInString(r.ReplacementText) > MacroReplacementMaxLen {
		return fmt.Errorf("replacementText must be at most %d characters", MacroReplacementMaxLen)
	}
	return nil
}

// UpdateMacroRequest, kısmi makro güncellemesi.
type UpdateMacroRequest struct {
	Name            *string `json:"name"`
	ReplacementText *string `json:"replacementText"`
	CategoryID      *string `json:"categoryId"`
}

// Validate, UpdateMacroRequest geçerlilik kontrolü.
func (r *UpdateMacroRequest) Validate() error {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if *r.Name == "" {
			return fmt.Errorf("name is required")
		}
		if utf8.RuneCountInString(*r.Name) > MacroNameMaxLen {
			return fmt.Errorf("name must be at most %d characters", MacroNameMaxLen)
		}
		if strings.ContainsAny(*r.Name, " \t\n") {
			return fmt.Errorf("name cannot contain whitespace")
		}
	}
	if r.ReplacementText != nil {
		if strings.TrimSpace(*r.ReplacementText) == "" {
			return fmt.Errorf("replacementText is required")
		}
		if utf8.RuneCountInString(*r.ReplacementText) > MacroReplacementMaxLen {
			return fmt.Errorf("replacementText must be at most %d characters", MacroReplacementMaxLen)
		}
	}
	return nil
}

// CreateCategoryRequest, yeni makro kategorisi isteği.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// Validate, CreateCategoryRequest geçerlilik kontrolü.
func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(r.Name) > MacroNameMaxLen {
		return fmt.Errorf("name must be at most %d characters", MacroNameMaxLen)
	}
	return nil
}

// ExpandRequest, serbest metindeki makro tetikleyicilerini genişletme isteği.
type ExpandRequest struct {
	Text string `json:"text"`
}

// ExpandResult, genişletme sonucu.
type ExpandResult struct {
	Text     string `json:"text"`
	Expanded int    `json:"expanded"` // kaç tetikleyici genişledi
}
