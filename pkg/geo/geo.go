package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

const earthRadiusMeters = 6371000.0

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the great-circle distance in meters.
func Distance(a, b Point) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DecodePolyline decodes a Google encoded polyline at 1e5 precision.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}

	points := make([]Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, Point{Lat: c[0], Lng: c[1]})
	}
	return points, nil
}

// FromLngLat converts GeoJSON [lng, lat] pairs, skipping malformed entries.
func FromLngLat(coords [][]float64) []Point {
	points := make([]Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		points = append(points, Point{Lat: c[1], Lng: c[0]})
	}
	return points
}

// FormatDistance renders meters as "850 m" or "3.2 km".
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int(math.Round(meters)))
}

// FormatDuration renders milliseconds in Vietnamese hour/minute units, never below one minute.
func FormatDuration(ms float64) string {
	minutes := int(math.Round(ms / 60000))
	if minutes >= 60 {
		hours := minutes / 60
		rest := minutes % 60
		if rest > 0 {
			return fmt.Sprintf("%d giờ %d phút", hours, rest)
		}
		return fmt.Sprintf("%d giờ", hours)
	}
	return fmt.Sprintf("%d phút", max(minutes, 1))
}
