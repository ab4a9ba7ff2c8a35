package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/services"
)

// GenerateHandler, SSE üzerinden akan rapor üretimi.
type GenerateHandler struct {
	generationService services.GenerationService
}

// NewGenerateHandler, constructor.
func NewGenerateHandler(generationService services.GenerationService) *GenerateHandler {
	return &GenerateHandler{generationService: generationService}
}

// Generate godoc
// POST /api/generate
// Body: { "findings": "...", "clinicalInfo": "...", "templateId": "..." }
//
// Yanıt Server-Sent Events formatındadır: her parça "data: <chunk>\n\n"
// satırı olarak yazılır, akış "data: [DONE]\n\n" ile kapanır. Rate limit
// ve doğrulama hataları akış başlamadan normal JSON zarfıyla döner; akış
// başladıktan sonra oluşan hatalar event olarak bildirilir çünkü HTTP
// status artık gönderilmiştir.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Akışı başlatmadan önce ucuz kontrolleri yap: rate limit ve doğrulama
	// hataları düzgün bir HTTP status ile dönebilsin.
	started := false
	emit := func(chunk string) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := h.generationService.GenerateStream(r.Context(), user.ID, &req, emit)
	if err != nil {
		if !started {
			pkg.Error(w, err)
			return
		}
		// Status satırı çoktan gitti; hatayı event olarak bildir ve kapat.
		log.Printf("[generate] stream aborted for user %s: %v", user.ID, err)
		fmt.Fprintf(w, "data: %s\n\n", `{"error":"generation failed"}`)
		flusher.Flush()
		return
	}

	if !started {
		// Model hiç parça üretmedi; yine de geçerli bir SSE akışı kapat.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
