package directions

import (
	"context"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
)

// MockDirectionsProvider returns canned routing results for tests.
// Started (when non-nil) receives a signal as each call begins and
// Release (when non-nil) blocks completion, letting tests hold a
// request in flight.
type MockDirectionsProvider struct {
	Result  ports.RouteResult
	Err     error
	Started chan struct{}
	Release chan struct{}

	Calls int
}

func (m *MockDirectionsProvider) Route(ctx context.Context, req ports.RouteRequest) (ports.RouteResult, error) {
	m.Calls++
	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		<-m.Release
	}
	if m.Err != nil {
		return ports.RouteResult{}, m.Err
	}
	return m.Result, nil
}

// MockGeocoder resolves every coordinate to a fixed address.
type MockGeocoder struct {
	Address string
	Err     error
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, coord domain.Coordinates) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Address, nil
}
