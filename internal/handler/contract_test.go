package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/carsharing/carsharing/internal/model"
	"github.com/carsharing/carsharing/internal/service/servicetest"
	"github.com/carsharing/carsharing/internal/testutil"
)

// loadOpenAPI loads and validates the OpenAPI description.
func loadOpenAPI(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	root, err := testutil.ProjectRoot()
	if err != nil {
		t.Fatalf("failed to resolve project root: %v", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(filepath.Join(root, "docs", "api", "openapi.yaml"))
	if err != nil {
		t.Fatalf("failed to load OpenAPI document: %v", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI document validation failed: %v", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		t.Fatalf("failed to create router from OpenAPI document: %v", err)
	}

	return doc, router
}

func TestContract_DocumentedPaths(t *testing.T) {
	t.Parallel()

	doc, _ := loadOpenAPI(t)

	expected := []string{
		"/api/cars",
		"/api/cars/",
		"/api/cars/{id}",
		"/api/cars/{car_id}/trips",
		"/healthz",
		"/readyz",
	}

	for _, path := range expected {
		if doc.Paths.Find(path) == nil {
			t.Errorf("expected path %s not found in OpenAPI document", path)
		}
	}
}

// TestContract_Responses drives the real router and validates every response
// against the OpenAPI document.
func TestContract_Responses(t *testing.T) {
	t.Parallel()

	_, apiRouter := loadOpenAPI(t)
	env := newTestEnv(t, []model.CarWithTrips{ledgerCar(7, "s", 3)})
	created := env.createCar(t, `{"size":"m","doors":5}`)
	id := itoa64(created.ID)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"info", http.MethodGet, "/", "", http.StatusOK},
		{"healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"readyz", http.MethodGet, "/readyz", "", http.StatusOK},
		{"list", http.MethodGet, "/api/cars?size=m&doors=2", "", http.StatusOK},
		{"list invalid doors", http.MethodGet, "/api/cars?doors=x", "", http.StatusUnprocessableEntity},
		{"create", http.MethodPost, "/api/cars/", `{"size":"s","doors":3}`, http.StatusCreated},
		{"create invalid", http.MethodPost, "/api/cars/", `{"size":"s"}`, http.StatusUnprocessableEntity},
		{"get", http.MethodGet, "/api/cars/" + id, "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/cars/404", "", http.StatusNotFound},
		{"replace", http.MethodPut, "/api/cars/" + id, `{"size":"l","fuel":"diesel","doors":4,"transmission":"manual"}`, http.StatusOK},
		{"replace missing", http.MethodPut, "/api/cars/404", `{"size":"l","doors":4}`, http.StatusNotFound},
		{"add trip", http.MethodPost, "/api/cars/7/trips", `{"start":1,"end":2,"description":"x"}`, http.StatusOK},
		{"add trip missing car", http.MethodPost, "/api/cars/8/trips", `{"start":1,"end":2,"description":"x"}`, http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/cars/" + id, "", http.StatusNoContent},
		{"delete missing", http.MethodDelete, "/api/cars/" + id, "", http.StatusNotFound},
	}

	// Subtests run sequentially: delete depends on the earlier requests.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			validateResponse(t, apiRouter, tt.method, tt.path, rec)
		})
	}
}

func TestContract_InternalError(t *testing.T) {
	t.Parallel()

	_, apiRouter := loadOpenAPI(t)
	env := newTestEnv(t, nil)
	env.store.Err = servicetest.ErrUnavailable

	rec := env.do(t, http.MethodGet, "/api/cars", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	validateResponse(t, apiRouter, http.MethodGet, "/api/cars", rec)
}

func validateResponse(t *testing.T, apiRouter routers.Router, method, path string, rec *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	route, pathParams, err := apiRouter.FindRoute(req)
	if err != nil {
		t.Fatalf("could not find %s %s in OpenAPI document: %v", method, path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: rec.Code,
		Header: rec.Header(),
		Body:   io.NopCloser(bytes.NewReader(rec.Body.Bytes())),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
		t.Errorf("response does not match OpenAPI document: %v", err)
	}
}
