package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse, tüm API yanıtları için standart zarf.
// Başarıda: {"success": true, "data": ...}
// Hatada:   {"success": false, "error": "<Kod>", "message": "<detay>"}
//
// Error alanı makine-okunur sabit bir koddur ("Forbidden", "ValidationError"...),
// Message ise insan-okunur açıklamadır. Frontend her zaman aynı yapıyı bekler.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Error, hata yanıtı gönderir.
// Domain error'ları errors.Is ile HTTP status + hata koduna çevrilir;
// wrap edilmiş error'lar ("%w: detay") da doğru match eder.
func Error(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err.Error())
}

// ErrorWithMessage, status'u belli olan hatalar için özel mesajlı yanıt gönderir.
// Hata kodu status'tan türetilir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeError(w, status, codeForStatus(status), message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: false,
		Error:   code,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode error response", http.StatusInternalServerError)
	}
}

// classify, domain error'ları (status, kod) çiftine eşler.
// ErrConfiguration ve ErrDatabase ikisi de 500 döner ama kodları farklıdır —
// client loglarında ayırt edilebilsin diye.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, "AlreadyExists"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "PayloadTooLarge"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "TooManyRequests"
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError, "ConfigurationError"
	case errors.Is(err, ErrDatabase):
		return http.StatusInternalServerError, "DatabaseError"
	default:
		return http.StatusInternalServerError, "InternalServerError"
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "AlreadyExists"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case http.StatusTooManyRequests:
		return "TooManyRequests"
	default:
		return "InternalServerError"
	}
}
