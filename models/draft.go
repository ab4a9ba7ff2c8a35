// Package models — Taslaklar.
//
// Taslak, kullanıcının henüz tamamlanmamış çalışmasıdır: bir rapor,
// bir şablon denemesi veya ham transkript. İçerik hasta verisi
// taşıyabileceği için DB'de AES-256-GCM ile şifreli durur; model
// katmanı her zaman plaintext görür.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DraftKind, taslağın türü.
type DraftKind string

// İzin verilen taslak türleri.
const (
	DraftKindTemplate      DraftKind = "template"
	DraftKindReport        DraftKind = "report"
	DraftKindTranscription DraftKind = "transcription"
)

// Valid, türün bilinen bir değer olup olmadığını söyler.
func (k DraftKind) Valid() bool {
	switch k {
	case DraftKindTemplate, DraftKindReport, DraftKindTranscription:
		return true
	}
	return false
}

// Draft, bir taslak kaydı. Content her zaman plaintext'tir;
// şifreleme repository seviyesinin altında, service katmanında yapılır.
type Draft struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Kind      DraftKind `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDraftRequest, yeni taslak isteği.
type CreateDraftRequest struct {
	Kind    DraftKind `json:"kind"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// Validate, CreateDraftRequest geçerlilik kontrolü.
func (r *CreateDraftRequest) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("kind must be one of: template, report, transcription")
	}
	r.Title = strings.TrimSpace(r.Title)
	if utf8.RuneCountInString(r.Title) > 256 {
		return fmt.Errorf("title must be at most 256 characters")
	}
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// UpdateDraftRequest, kısmi taslak güncellemesi.
type UpdateDraftRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate, UpdateDraftRequest geçerlilik kontrolü.
func (r *UpdateDraftRequest) Validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if utf8.RuneCountInString(*r.Title) > 256 {
			return fmt.Errorf("title must be at most 256 characters")
		}
	}
	if r.Content != nil && *r.Content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}
