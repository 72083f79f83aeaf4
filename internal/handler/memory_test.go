package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voyage/voyage/internal/service"
)

func newTestMemoryHandler() *MemoryHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A nil repository is fine for paths that fail before storage
	return NewMemoryHandler(service.NewMemoryService(nil, nil), logger)
}

func TestMemoryHandler_Create_InvalidJSON(t *testing.T) {
	h := newTestMemoryHandler()

	req := httptest.NewRequest(http.MethodPost, "/memories", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestMemoryHandler_Create_ValidationFailure(t *testing.T) {
	h := newTestMemoryHandler()

	body := `{"title":"","placeName":"","fromDate":"","toDate":"","photo":""}`
	req := httptest.NewRequest(http.MethodPost, "/memories", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Message != "Validation failed" {
		t.Errorf("unexpected message: %s", response.Message)
	}
	if len(response.Errors) == 0 {
		t.Error("expected field errors in response")
	}
}

func TestMemoryHandler_Create_EndBeforeStart(t *testing.T) {
	h := newTestMemoryHandler()

	body := `{"title":"Trip","placeName":"Kyoto","fromDate":"2024-04-07","toDate":"2024-04-05","photo":"dGVzdA=="}`
	req := httptest.NewRequest(http.MethodPost, "/memories", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	found := false
	for _, e := range response.Errors {
		if e.Field == "toDate" {
			found = true
		}
	}
	if !found {
		t.Error("expected a toDate field error")
	}
}

func TestMemoryHandler_List_InvalidYear(t *testing.T) {
	h := newTestMemoryHandler()

	req := httptest.NewRequest(http.MethodGet, "/memories?year=abc", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestMemoryHandler_List_InvalidMonth(t *testing.T) {
	h := newTestMemoryHandler()

	tests := []struct {
		name  string
		month string
	}{
		{"not_a_number", "June"},
		{"negative", "-1"},
		{"too_large", "12"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/memories?month="+test.month, nil)
			rec := httptest.NewRecorder()

			h.List(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAuthHandler(service.NewUserService(nil, nil, nil), logger)

	body := `{"name":"","email":"not-an-email","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Errors) != 3 {
		t.Errorf("expected 3 field errors, got %d", len(response.Errors))
	}
}
