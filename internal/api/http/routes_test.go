package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/weatherdash/weather-dashboard/internal/dashboard"
	"github.com/weatherdash/weather-dashboard/internal/forecast"
	"github.com/weatherdash/weather-dashboard/internal/store"
)

// newTestApp wires the routes against the demo fetcher (no credential, so no
// network access happens).
func newTestApp() *fiber.App {
	app := fiber.New()
	fetcher := forecast.NewClient(&http.Client{}, "", "")
	session := dashboard.NewSession(fetcher, nil, store.NewMemoryStore())
	RegisterRoutes(app, fetcher, session)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("failed to decode body %q: %v", body, err)
	}
}

func TestWeatherRequiresLocation(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestWeatherDemoMode(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?location=Nairobi", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		Demo   bool   `json:"demo"`
		Notice string `json:"notice"`
		Record struct {
			ResolvedAddress string `json:"resolvedAddress"`
			Days            []struct {
				Hours []json.RawMessage `json:"hours"`
			} `json:"days"`
		} `json:"record"`
	}
	decodeBody(t, resp, &out)

	if !out.Demo || out.Notice == "" {
		t.Errorf("expected a flagged demo result, got %+v", out)
	}
	if len(out.Record.Days) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(out.Record.Days))
	}
	for i, day := range out.Record.Days {
		if len(day.Hours) != 24 {
			t.Errorf("day %d: expected 24 hours, got %d", i, len(day.Hours))
		}
	}
}

func TestTimelineDemoMode(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/timeline?location=Nairobi", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		Demo  bool `json:"demo"`
		Hours []struct {
			Label         string `json:"label"`
			WindDirection string `json:"windDirection"`
			Emoji         string `json:"emoji"`
		} `json:"hours"`
	}
	decodeBody(t, resp, &out)

	if !out.Demo {
		t.Error("expected a demo timeline")
	}
	if len(out.Hours) == 0 || len(out.Hours) > 49 {
		t.Fatalf("expected between 1 and 49 hours, got %d", len(out.Hours))
	}
	for i, h := range out.Hours {
		if h.Label == "" || h.WindDirection == "" || h.Emoji == "" {
			t.Fatalf("hour %d missing decorations: %+v", i, h)
		}
	}
}

func TestLocateRequiresAddress(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locate", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestDashboardSearch(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/search",
		strings.NewReader(`{"location":"Nairobi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Location string            `json:"location"`
		Timeline []json.RawMessage `json:"timeline"`
	}
	decodeBody(t, resp, &out)
	if out.Location != "Nairobi" {
		t.Fatalf("expected the session location, got %q", out.Location)
	}
	if len(out.Timeline) == 0 {
		t.Error("expected a timeline for the active record")
	}
}

func TestDashboardSearchValidation(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/search",
		strings.NewReader(`{"location":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestDashboardRefreshWithoutLocation(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestDashboardLocateWithoutLocator(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/locate", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
}
