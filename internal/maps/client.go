// Package maps adapts the Google Maps web services to the routing and
// geocoding needs of tracking.
package maps

import (
	"context"
	"fmt"
	"time"

	gmaps "googlemaps.github.io/maps"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	trackingdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	gm      *gmaps.Client
	timeout time.Duration
}

// Place is a geocoded address.
type Place struct {
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"place_id"`
}

func NewClient(apiKey string, timeout time.Duration, opts ...gmaps.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: maps api key is empty", apperrors.ErrValidation)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	gm, err := gmaps.NewClient(append([]gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Client{gm: gm, timeout: timeout}, nil
}

// Route asks the Distance Matrix API for a driving route between two points.
func (c *Client) Route(ctx context.Context, from, to util.LatLng) (*trackingdomain.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.gm.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{util.FormatLatLng(from)},
		Destinations: []string{util.FormatLatLng(to)},
		Mode:         gmaps.TravelModeDriving,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("distance matrix: empty response")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, fmt.Errorf("distance matrix: element status %s", el.Status)
	}

	return &trackingdomain.Route{
		DistanceKm: float64(el.Distance.Meters) / 1000,
		Duration:   el.Duration,
	}, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results, err := c.gm.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("address %q: %w", address, apperrors.ErrNotFound)
	}

	r := results[0]
	return &Place{
		FormattedAddress: r.FormattedAddress,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		PlaceID:          r.PlaceID,
	}, nil
}
