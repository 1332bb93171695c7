package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

const (
	// KmPerDegree converts a coordinate delta to a rough distance.
	KmPerDegree = 111.0
	// MinutesPerKm is a constant 20 km/h.
	MinutesPerKm = 3.0

	UnknownDuration = "Unknown"
)

// Estimate is a travel estimate. DistanceKm and EstimatedArrival are nil when
// DurationText is UnknownDuration.
type Estimate struct {
	DistanceKm       *float64   `json:"distance_km"`
	DurationText     string     `json:"duration_text"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	Source           string     `json:"source"`
}

// Known reports whether the estimate carries numbers.
func (e Estimate) Known() bool {
	return e.DistanceKm != nil
}

// Route is what a routing provider reports for a trip.
type Route struct {
	DistanceKm float64
	Duration   time.Duration
}

type RouteProvider interface {
	Route(ctx context.Context, from, to util.LatLng) (*Route, error)
}

// Estimator turns two positions into an Estimate, preferring the provider and
// falling back to straight-line arithmetic.
type Estimator struct {
	provider RouteProvider
	logger   *util.Logger
	now      func() time.Time
}

// NewEstimator accepts a nil provider, in which case every estimate is the
// approximation.
func NewEstimator(provider RouteProvider, logger *util.Logger) *Estimator {
	return &Estimator{provider: provider, logger: logger, now: time.Now}
}

func (e *Estimator) Estimate(ctx context.Context, current, destination util.LatLng) Estimate {
	now := e.now()

	if current.IsZero() || destination.IsZero() {
		return Unknown()
	}

	if e.provider != nil {
		route, err := e.provider.Route(ctx, current, destination)
		if err == nil {
			return fromRoute(route, now)
		}
		e.logger.Warn("Estimator.Estimate", fmt.Sprintf("routing provider failed, using approximation: %v", err))
	}

	return Approximate(current, destination, now)
}

func Unknown() Estimate {
	return Estimate{DurationText: UnknownDuration, Source: "none"}
}

// Approximate treats the degree deltas as Euclidean at 111 km per degree and
// assumes 20 km/h.
func Approximate(current, destination util.LatLng, now time.Time) Estimate {
	if current.IsZero() || destination.IsZero() {
		return Unknown()
	}

	dLat := destination.Lat - current.Lat
	dLng := destination.Lng - current.Lng
	distanceKm := math.Sqrt(dLat*dLat+dLng*dLng) * KmPerDegree
	minutes := int(math.Round(distanceKm * MinutesPerKm))

	d := util.Round2(distanceKm)
	arrival := now.Add(time.Duration(minutes) * time.Minute)
	return Estimate{
		DistanceKm:       &d,
		DurationText:     FormatMinutes(minutes),
		EstimatedArrival: &arrival,
		Source:           "approximation",
	}
}

func fromRoute(r *Route, now time.Time) Estimate {
	minutes := int(math.Round(r.Duration.Minutes()))
	d := util.Round2(r.DistanceKm)
	arrival := now.Add(r.Duration)
	return Estimate{
		DistanceKm:       &d,
		DurationText:     FormatMinutes(minutes),
		EstimatedArrival: &arrival,
		Source:           "google_maps",
	}
}

// FormatMinutes renders a duration the way the mobile client displays it.
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return plural(minutes, "min")
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return plural(h, "hour")
	}
	return plural(h, "hour") + " " + plural(m, "min")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
