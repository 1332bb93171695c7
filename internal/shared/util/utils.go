package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether either coordinate is missing. Clients send 0 for an
// unknown position, so a zero component is treated as absent.
func (p LatLng) IsZero() bool {
	return p.Lat == 0 || p.Lng == 0
}

func (p LatLng) String() string {
	return FormatLatLng(p)
}

func LocationIsValid(p LatLng) bool {
	// Latitude: -90 to 90
	if p.Lat < -90 || p.Lat > 90 {
		return false
	}

	// Longitude: -180 to 180
	if p.Lng < -180 || p.Lng > 180 {
		return false
	}

	return true
}

// ParseLatLng reads the "lat,lng" form locations are stored in.
func ParseLatLng(s string) (LatLng, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return LatLng{}, errors.New(`location must be "lat,lng"`)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("invalid longitude %q", parts[1])
	}

	p := LatLng{Lat: lat, Lng: lng}
	if !LocationIsValid(p) {
		return LatLng{}, errors.New("coordinates out of range")
	}
	return p, nil
}

func FormatLatLng(p LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func toRadians(degree float64) float64 {
	return degree * math.Pi / 180
}

func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	// R is the earth radius in km
	const R = 6371

	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lon2 - lon1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// Round2 rounds half away from zero to two decimals. Values within float
// noise of a half cent (16.5*1.15 is 18.974999...) round as the half cent.
func Round2(v float64) float64 {
	return math.Round(v*100+math.Copysign(1e-6, v)) / 100
}
