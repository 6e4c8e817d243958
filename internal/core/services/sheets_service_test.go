package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driveServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestSheetsService_ListsSpreadsheets(t *testing.T) {
	srv := driveServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "Bearer google-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("q"), "application/vnd.google-apps.spreadsheet")
		assert.Contains(t, r.URL.Query().Get("q"), "trashed=false")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{
				{"id": "sheet-1", "name": "Orçamento 2024"},
				{"id": "sheet-2", "name": "Dízimos"},
			},
		})
	})
	svc := services.NewSheetsService(srv.URL + "/")

	sheets, err := svc.ListSpreadsheets(context.Background(), "google-token")

	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "sheet-1", sheets[0].ID)
	assert.Equal(t, "Orçamento 2024", sheets[0].Name)
}

func TestSheetsService_StopsAfterPageLimit(t *testing.T) {
	var calls atomic.Int32
	srv := driveServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files":         []map[string]string{{"id": strconv.Itoa(int(n)), "name": "Planilha"}},
			"nextPageToken": "page-" + strconv.Itoa(int(n)),
		})
	})
	svc := services.NewSheetsService(srv.URL + "/")

	sheets, err := svc.ListSpreadsheets(context.Background(), "google-token")

	require.NoError(t, err)
	assert.Len(t, sheets, 10)
	assert.Equal(t, int32(10), calls.Load())
}

func TestSheetsService_UpstreamError(t *testing.T) {
	srv := driveServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	})
	svc := services.NewSheetsService(srv.URL + "/")

	sheets, err := svc.ListSpreadsheets(context.Background(), "expired")

	assert.Nil(t, sheets)
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
}

func TestSheetsService_RequiresToken(t *testing.T) {
	svc := services.NewSheetsService("")

	_, err := svc.ListSpreadsheets(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
