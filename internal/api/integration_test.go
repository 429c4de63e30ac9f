package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"waste-route-service/internal/adapters/directions"
	"waste-route-service/internal/api"
	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
	"waste-route-service/internal/services"
)

// ---------------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------------

type memoryBinStore struct {
	saved []domain.BinRecord
}

func (m *memoryBinStore) Load(ctx context.Context) ([]domain.BinRecord, error) {
	out := make([]domain.BinRecord, len(m.saved))
	copy(out, m.saved)
	return out, nil
}

func (m *memoryBinStore) Save(ctx context.Context, bins []domain.BinRecord) error {
	m.saved = make([]domain.BinRecord, len(bins))
	copy(m.saved, bins)
	return nil
}

func newTestServer(t *testing.T, provider ports.DirectionsProvider) *httptest.Server {
	t.Helper()

	ledger, err := services.NewCapacityLedger(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	registry := services.NewBinRegistry(&memoryBinStore{}, ledger)
	planner := services.NewRoutePlanner(registry, provider, domain.Coordinates{Lat: 0, Lng: 0})
	geocoder := &directions.MockGeocoder{Address: "Town Hall, Colombo 07"}

	srv := httptest.NewServer(api.NewRouter(registry, planner, geocoder))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// ---------------------------------------------------------------------------
// Client surface
// ---------------------------------------------------------------------------

func TestBinSubmissionFlow(t *testing.T) {
	srv := newTestServer(t, &directions.MockDirectionsProvider{})

	resp := postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 6.9147, Lng: 79.8731, AmountKg: 40})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	added := decodeBody[dto.AddBinResponse](t, resp)
	if added.Bin.Location != "Town Hall, Colombo 07" {
		t.Fatalf("location = %q, want geocoded address", added.Bin.Location)
	}
	if added.Warning != "" {
		t.Fatalf("unexpected warning: %q", added.Warning)
	}

	resp = postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 6.9016, Lng: 79.8568, AmountKg: 55, Location: "Market"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	// 10kg over the remaining 5kg is rejected without touching the set.
	resp = postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 1, Lng: 1, AmountKg: 10})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	listResp, err := http.Get(srv.URL + "/bins")
	if err != nil {
		t.Fatalf("get bins: %v", err)
	}
	list := decodeBody[dto.ListBinsResponse](t, listResp)
	if len(list.Bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(list.Bins))
	}
	if list.CommittedKg != 95 || list.RemainingKg != 5 {
		t.Fatalf("committed=%v remaining=%v, want 95/5", list.CommittedKg, list.RemainingKg)
	}
}

func TestBinValidationErrors(t *testing.T) {
	srv := newTestServer(t, &directions.MockDirectionsProvider{})

	resp := postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 1, Lng: 1, AmountKg: 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero amount: status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 1, Lng: 1, AmountKg: -4})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative amount: status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClearBins(t *testing.T) {
	srv := newTestServer(t, &directions.MockDirectionsProvider{})

	resp := postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 1, Lng: 1, AmountKg: 20})
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/bins", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete bins: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", delResp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/bins")
	if err != nil {
		t.Fatalf("get bins: %v", err)
	}
	list := decodeBody[dto.ListBinsResponse](t, listResp)
	if len(list.Bins) != 0 || list.CommittedKg != 0 {
		t.Fatalf("expected empty registry, got %d bins, committed=%v", len(list.Bins), list.CommittedKg)
	}
}

// ---------------------------------------------------------------------------
// Driver surface
// ---------------------------------------------------------------------------

func TestPlanLifecycleOverHTTP(t *testing.T) {
	provider := &directions.MockDirectionsProvider{
		Result: ports.RouteResult{
			WaypointOrder: []int{0},
			Legs: []ports.RouteLeg{
				{DistanceMeters: 5000, DurationSeconds: 600},
				{DistanceMeters: 7000, DurationSeconds: 840},
			},
		},
	}
	srv := newTestServer(t, provider)

	// No bins yet: planning is rejected and state stays unplanned.
	resp := postJSON(t, srv.URL+"/plan", struct{}{})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	resp.Body.Close()

	for _, amount := range []float64{30, 25} {
		r := postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: amount, Lng: amount, AmountKg: amount, Location: "x"})
		r.Body.Close()
	}

	resp = postJSON(t, srv.URL+"/plan", struct{}{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	plan := decodeBody[dto.PlanResponse](t, resp)
	if plan.Status != "planned" {
		t.Fatalf("status = %q, want planned", plan.Status)
	}
	if plan.Summary == nil || plan.Summary.DistanceKm != 12.00 || plan.Summary.DurationMinutes != 24 {
		t.Fatalf("summary = %+v, want 12.00km / 24min", plan.Summary)
	}
	if len(plan.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(plan.Stops))
	}

	// A repeat request while planned is a reported no-op.
	resp = postJSON(t, srv.URL+"/plan", struct{}{})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Clearing the plan keeps the bins.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/plan", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	cleared := decodeBody[dto.PlanResponse](t, delResp)
	if cleared.Status != "unplanned" {
		t.Fatalf("status = %q, want unplanned", cleared.Status)
	}

	listResp, err := http.Get(srv.URL + "/bins")
	if err != nil {
		t.Fatalf("get bins: %v", err)
	}
	list := decodeBody[dto.ListBinsResponse](t, listResp)
	if len(list.Bins) != 2 {
		t.Fatalf("clearing the plan must keep bins, got %d", len(list.Bins))
	}
}

func TestPlanRoutingFailureSurfacesServiceStatus(t *testing.T) {
	provider := &directions.MockDirectionsProvider{
		Err: &domain.RoutingError{Status: "OVER_QUERY_LIMIT"},
	}
	srv := newTestServer(t, provider)

	resp := postJSON(t, srv.URL+"/bins", dto.AddBinRequest{Lat: 1, Lng: 1, AmountKg: 10, Location: "x"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/plan", struct{}{})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] == "" {
		t.Fatal("expected an error message carrying the service status")
	}

	getResp, err := http.Get(srv.URL + "/plan")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	plan := decodeBody[dto.PlanResponse](t, getResp)
	if plan.Status != "unplanned" {
		t.Fatalf("status = %q, want unplanned after failure", plan.Status)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &directions.MockDirectionsProvider{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
