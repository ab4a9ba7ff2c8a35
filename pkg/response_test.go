package pkg

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON_SuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)
	require.Empty(t, resp.Error)
}

func TestError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrNotFound, http.StatusNotFound, "NotFound"},
		{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{ErrForbidden, http.StatusForbidden, "Forbidden"},
		{ErrAlreadyExists, http.StatusConflict, "AlreadyExists"},
		{ErrValidation, http.StatusBadRequest, "ValidationError"},
		{ErrTooLarge, http.StatusRequestEntityTooLarge, "PayloadTooLarge"},
		{ErrRateLimited, http.StatusTooManyRequests, "TooManyRequests"},
		{ErrConfiguration, http.StatusInternalServerError, "ConfigurationError"},
		{ErrDatabase, http.StatusInternalServerError, "DatabaseError"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, tc.err)

		require.Equal(t, tc.status, rec.Code, "status for %v", tc.err)
		resp := decodeEnvelope(t, rec)
		require.False(t, resp.Success)
		require.Equal(t, tc.code, resp.Error)
	}
}

func TestError_WrappedErrorStillMatches(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("%w: template not yours", ErrForbidden))

	require.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Equal(t, "Forbidden", resp.Error)
	require.Contains(t, resp.Message, "template not yours")
}

func TestErrorWithMessage_ForbiddenCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithMessage(rec, http.StatusForbidden, "Forbidden")

	require.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.False(t, resp.Success)
	require.Equal(t, "Forbidden", resp.Error)
	require.Equal(t, "Forbidden", resp.Message)
}

func TestError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("something odd"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Equal(t, "InternalServerError", resp.Error)
}
