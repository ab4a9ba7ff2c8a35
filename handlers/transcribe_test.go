package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/denizakgul/raporly/services"
	"github.com/stretchr/testify/require"
)

const testMaxUploadSize = 25 * 1024 * 1024

func newTranscribeHandler() *TranscribeHandler {
	// Gemini client nil — boyut ve form hataları service'e inmeden döner.
	return NewTranscribeHandler(services.NewTranscriptionService(nil, "test-model"), testMaxUploadSize)
}

func multipartAudioBody(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "recording.webm")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xAB}, size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestTranscribe_OversizedUploadRejectedWith413(t *testing.T) {
	h := newTranscribeHandler()

	// 26MB ses dosyası — 25MB sınırının üzerinde.
	body, contentType := multipartAudioBody(t, 26*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Transcribe(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "25MB")
}

func TestTranscribe_MissingFileRejected(t *testing.T) {
	h := newTranscribeHandler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("duration", "12.5"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Transcribe(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribe_NotMultipartRejected(t *testing.T) {
	h := newTranscribeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", bytes.NewBufferString("raw bytes"))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()

	h.Transcribe(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
