// Package models — AI rapor üretimi ve transkript istekleri.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// GenerateReportRequest, bulgulardan rapor üretme isteği.
// TemplateID verilirse rapor o şablonun bölüm iskeletine oturtulur.
type GenerateReportRequest struct {
	TemplateID   *string `json:"template_id"`
	Findings     string  `json:"findings"`
	ClinicalInfo string  `json:"clinical_info"`
}

// Validate, GenerateReportRequest geçerlilik kontrolü.
func (r *GenerateReportRequest) Validate() error {
	r.Findings = strings.TrimSpace(r.Findings)
	if r.Findings == "" {
		return fmt.Errorf("findings is required")
	}
	if utf8.RuneCountInString(r.Findings) > 20000 {
		return fmt.Errorf("findings must be at most 20000 characters")
	}
	if utf8.RuneCountInString(r.ClinicalInfo) > 4000 {
		return fmt.Errorf("clinical_info must be at most 4000 characters")
	}
	return nil
}

// TranscriptionResult, ses dosyasından üretilen transkript.
// Duration saniye cinsindendir; client form'da bildirmediyse dosya
// boyutundan kabaca tahmin edilir.
type TranscriptionResult struct {
	Transcript string  `json:"transcript"`
	Duration   float64 `json:"duration"`
}
