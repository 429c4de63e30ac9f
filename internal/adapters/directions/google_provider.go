package directions

import (
	"errors"
	"net/http"
	"time"
)

// GoogleMapsProvider implements DirectionsProvider and Geocoder against
// the Google Maps web service APIs (directions + reverse geocoding).
//
// The provider is stateless apart from its HTTP client and is safe for
// concurrent use. The API key is a hard requirement: route planning is
// blocked entirely without it, so construction fails fast.
type GoogleMapsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("maps api key is empty")
	}

	return &GoogleMapsProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
	}, nil
}
