package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/carsharing/carsharing/internal/ledger"
	"github.com/carsharing/carsharing/internal/metrics"
	"github.com/carsharing/carsharing/internal/middleware"
	"github.com/carsharing/carsharing/internal/model"
	"github.com/carsharing/carsharing/internal/service"
	"github.com/carsharing/carsharing/internal/service/servicetest"
	"github.com/carsharing/carsharing/internal/testutil"
)

// testEnv is a fully wired router over an in-memory car store and a
// temp-file ledger.
type testEnv struct {
	router     http.Handler
	store      *servicetest.CarStore
	ledger     *ledger.Ledger
	ledgerPath string
	metrics    *metrics.InMemoryRecorder
	logs       *bytes.Buffer
}

func newTestEnv(t *testing.T, ledgerCars []model.CarWithTrips) *testEnv {
	t.Helper()

	if ledgerCars == nil {
		ledgerCars = []model.CarWithTrips{}
	}
	path := testutil.WriteLedgerFile(t, ledgerCars)

	l, err := ledger.Load(path)
	if err != nil {
		t.Fatalf("failed to load ledger: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	store := servicetest.NewCarStore()
	recorder := metrics.NewInMemory()

	router := NewRouter(RouterConfig{
		Root:     New(),
		Health:   NewHealthHandler(Dependency{Name: "ledger", Checker: l}),
		Metrics:  NewMetricsHandler(recorder),
		Cars:     NewCarHandler(service.NewCarService(store, recorder), logger),
		Trips:    NewTripHandler(service.NewTripService(l, recorder), logger),
		Logger:   logger,
		Security: middleware.SecurityConfig{IsDevelopment: true, MaxRequestBodySize: 1 << 20},
		CORS:     middleware.DefaultCORSConfig(),
	})

	return &testEnv{
		router:     router,
		store:      store,
		ledger:     l,
		ledgerPath: path,
		metrics:    recorder,
		logs:       &logs,
	}
}

// do sends a request with an optional raw JSON body.
func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// createCar posts a car and returns the decoded response.
func (e *testEnv) createCar(t *testing.T, body string) carJSON {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/cars/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create car: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var car carJSON
	decodeBody(t, rec, &car)
	return car
}

type carJSON struct {
	ID           int64      `json:"id"`
	Size         string     `json:"size"`
	Fuel         string     `json:"fuel"`
	Doors        int        `json:"doors"`
	Transmission string     `json:"transmission"`
	Trips        []tripJSON `json:"trips"`
}

type tripJSON struct {
	ID          int    `json:"id"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Description string `json:"description"`
}

type errorJSON struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func ledgerCar(id int64, size string, doors int, trips ...model.Trip) model.CarWithTrips {
	if trips == nil {
		trips = []model.Trip{}
	}
	return model.CarWithTrips{
		Car: model.Car{
			ID:           id,
			Size:         size,
			Fuel:         model.DefaultFuel,
			Doors:        doors,
			Transmission: model.DefaultTransmission,
		},
		Trips: trips,
	}
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
