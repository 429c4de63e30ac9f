package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
	"waste-route-service/internal/ports"
)

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// ReverseGeocode resolves a coordinate to its best-match address.
// Used only to populate display labels; the caller falls back to a
// pinned-coordinate placeholder on any failure.
func (g *GoogleMapsProvider) ReverseGeocode(
	ctx context.Context,
	coord domain.Coordinates,
) (_ string, err error) {
	defer obs.Time(ctx, "directions.ReverseGeocode")(&err)

	endpoint := g.baseURL + "/maps/api/geocode/json"

	q := url.Values{}
	q.Set("latlng", coord.String())
	q.Set("key", g.apiKey)

	httpReq, err := g.newRequest(ctx, endpoint+"?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}

	resp, err := g.do(httpReq)
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}

	if decoded.Status == "ZERO_RESULTS" || len(decoded.Results) == 0 {
		return "", ports.ErrNoAddress
	}

	if decoded.Status != "OK" {
		return "", &domain.RoutingError{Status: decoded.Status}
	}

	return decoded.Results[0].FormattedAddress, nil
}
