package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/services"
)

// TranscribeHandler, ses dosyasından transkript üretme endpoint'i.
type TranscribeHandler struct {
	transcriptionService services.TranscriptionService
	maxUploadSize        int64
}

// NewTranscribeHandler, constructor.
func NewTranscribeHandler(transcriptionService services.TranscriptionService, maxUploadSize int64) *TranscribeHandler {
	return &TranscribeHandler{
		transcriptionService: transcriptionService,
		maxUploadSize:        maxUploadSize,
	}
}

// Transcribe godoc
// POST /api/transcribe
// multipart/form-data: file (zorunlu), duration (opsiyonel, saniye)
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	// Boyut sınırı gövdenin tamamına uygulanır; aşım tek tip 413 üretir.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if isBodyTooLarge(err) {
			pkg.Error(w, fmt.Errorf("%w: audio file exceeds the 25MB limit", pkg.ErrTooLarge))
			return
		}
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			pkg.Error(w, fmt.Errorf("%w: audio file exceeds the 25MB limit", pkg.ErrTooLarge))
			return
		}
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	// Client kayıt süresini biliyorsa ipucu olarak gönderir; yoksa servis
	// dosya boyutundan tahmin eder.
	var durationHint float64
	if v := r.FormValue("duration"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			durationHint = parsed
		}
	}

	result, err := h.transcriptionService.Transcribe(r.Context(), audio, header.Header.Get("Content-Type"), durationHint)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// isBodyTooLarge, MaxBytesReader'ın sınır aşımını yakalar.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
