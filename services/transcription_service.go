package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

// izin verilen ses MIME type'ları → genai'ya geçilen tür.
var supportedAudioTypes = map[string]string{
	"audio/webm": "audio/webm",
	"audio/ogg":  "audio/ogg",
	"audio/mpeg": "audio/mpeg",
	"audio/mp3":  "audio/mpeg",
	"audio/wav":  "audio/wav",
	"audio/wave": "audio/wav",
	"audio/mp4":  "audio/mp4",
	"audio/m4a":  "audio/mp4",
	"audio/flac": "audio/flac",
}

// TranscriptionService, ses kaydından dikte transkripti üretir.
type TranscriptionService interface {
	// Transcribe, ses verisini metne çevirir.
	// durationHint saniye cinsindendir (client bildirir); 0 ise dosya
	// boyutundan kabaca tahmin edilir.
	Transcribe(ctx context.Context, audio []byte, mimeType string, durationHint float64) (*models.TranscriptionResult, error)
}

// transcriptionService, TranscriptionService implementasyonu.
type transcriptionService struct {
	genai *genai.Client // nil olabilir — GEMINI_API_KEY yoksa
	model string
}

// NewTranscriptionService, constructor.
func NewTranscriptionService(genaiClient *genai.Client, model string) TranscriptionService {
	return &transcriptionService{
		genai: genaiClient,
		model: model,
	}
}

// Transcribe, ses dosyasını prompt + inline audio part olarak modele verir.
func (s *transcriptionService) Transcribe(ctx context.Context, audio []byte, mimeType string, durationHint float64) (*models.TranscriptionResult, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: audio file is empty", pkg.ErrValidation)
	}

	normalized, ok := supportedAudioTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported audio type %q", pkg.ErrValidation, mimeType)
	}

	if s.genai == nil {
		return nil, fmt.Errorf("%w: AI features are not configured", pkg.ErrConfiguration)
	}

	prompt := "Transcribe this radiology dictation verbatim. " +
		"Preserve medical terminology exactly as spoken, including shorthand and trigger words. " +
		"Do not correct, summarize or annotate — return only the transcript text."

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(audio, normalized),
		}, genai.RoleUser),
	}

	resp, err := s.genai.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text())
	if transcript == "" {
		return nil, fmt.Errorf("transcription produced no text")
	}

	duration := durationHint
	if duration <= 0 {
		duration = estimateDuration(len(audio))
	}

	return &models.TranscriptionResult{
		Transcript: transcript,
		Duration:   duration,
	}, nil
}

// estimateDuration, dosya boyutundan kaba süre tahmini (saniye).
// Webm/Opus dikte kaydı pratikte ~12KB/s civarındadır. Tahmin sadece
// UI'daki "2:35 kayıt" göstergesi içindir, faturalama vb. için kullanılmaz.
func estimateDuration(sizeBytes int) float64 {
	const bytesPerSecond = 12 * 1024
	return float64(sizeBytes) / bytesPerSecond
}
