package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthWithoutDatabase(t *testing.T) {
	originalDB := database
	database = nil
	t.Cleanup(func() { database = originalDB })

	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body healthResponse
	decodeBody(t, rec, &body)
	if body.Status != "ok" || body.Database != "unconfigured" {
		t.Fatalf("unexpected health response %+v", body)
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	db := withTestDatabase(t)
	withAssistant(t, &fakeAssistant{})

	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body healthResponse
	decodeBody(t, rec, &body)
	if body.Database != "ok" || !body.AI {
		t.Fatalf("unexpected health response %+v", body)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after closing the database, got %d", rec.Code)
	}
	decodeBody(t, rec, &body)
	if body.Status != "degraded" || body.Database != "down" {
		t.Fatalf("unexpected degraded response %+v", body)
	}
}
