package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecoverer_ReturnsJSON500(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cars/1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body["code"])
	}
}

func TestRecoverer_LogsRouteAndRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	router := carRoutes(RequestID, Recoverer(jsonLogger(&buf)))

	req := httptest.NewRequest(http.MethodGet, "/api/cars/13", nil)
	req.Header.Set(RequestIDHeader, "panic-13")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	lines := logLines(&buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	line := lines[0]
	if line["msg"] != "panic recovered" {
		t.Errorf("msg = %v", line["msg"])
	}
	if line["route"] != "/api/cars/{id}" {
		t.Errorf("route = %v, want /api/cars/{id}", line["route"])
	}
	if line["request_id"] != "panic-13" {
		t.Errorf("request_id = %v, want panic-13", line["request_id"])
	}
	if line["panic"] != "unlucky car" {
		t.Errorf("panic = %v, want unlucky car", line["panic"])
	}
}

func TestRecoverer_ReraisesAbortHandler(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rvr)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cars/1", nil))
}
