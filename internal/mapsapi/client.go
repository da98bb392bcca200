// Package mapsapi proxies route previews and free-text geocoding to VietMap,
// with Nominatim as the geocoding fallback.
package mapsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"branch-locator/pkg/geo"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("VietMap API key is not configured")
	ErrNoRoute       = errors.New("no route returned")
	ErrNotFound      = errors.New("location not found")
)

// Vehicles accepted by the route API.
var Vehicles = []string{"car", "motorcycle", "bike", "foot"}

type Route struct {
	Distance      float64     `json:"distance"` // meters
	Duration      float64     `json:"duration"` // milliseconds
	DistanceLabel string      `json:"distanceLabel"`
	DurationLabel string      `json:"durationLabel"`
	Points        []geo.Point `json:"points"`
	// Straight is set when the provider returned no geometry and the
	// points are just origin and destination.
	Straight bool `json:"straight"`
}

type Place struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Label  string  `json:"label"`
	Source string  `json:"source"`
}

type Client struct {
	cfg  utils.MapsConfig
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg utils.MapsConfig, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient, log: log.With(zap.String("service", "maps"))}
}

func (c *Client) RoutingEnabled() bool { return c.cfg.VietMapAPIKey != "" }

type routeResponse struct {
	Paths []struct {
		Points   json.RawMessage `json:"points"`
		Distance *float64        `json:"distance"`
		Time     *float64        `json:"time"`
	} `json:"paths"`
}

// Route asks VietMap for a path between two points.
func (c *Client) Route(ctx context.Context, origin, dest geo.Point, vehicle string) (*Route, error) {
	if !c.RoutingEnabled() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Add("point", formatPoint(origin))
	params.Add("point", formatPoint(dest))
	params.Set("vehicle", vehicle)
	params.Set("points_encoded", "true")
	params.Set("instructions", "false")
	params.Set("locale", "vi")
	params.Set("apikey", c.cfg.VietMapAPIKey)

	body, err := c.get(ctx, c.cfg.VietMapURL+"/api/route?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	var rr routeResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("route: decode response: %w", err)
	}
	if len(rr.Paths) == 0 {
		return nil, ErrNoRoute
	}
	path := rr.Paths[0]

	points, err := decodePoints(path.Points)
	if err != nil {
		c.log.Warn("Unreadable route geometry, using straight segment", zap.Error(err))
	}

	route := &Route{Points: points}
	if len(route.Points) == 0 {
		route.Points = []geo.Point{origin, dest}
		route.Straight = true
	}
	if path.Distance != nil {
		route.Distance = *path.Distance
	} else {
		route.Distance = geo.Distance(origin, dest)
	}
	if path.Time != nil {
		route.Duration = *path.Time
	}
	route.DistanceLabel = geo.FormatDistance(route.Distance)
	if route.Duration > 0 {
		route.DurationLabel = geo.FormatDuration(route.Duration)
	}
	return route, nil
}

// decodePoints accepts an encoded polyline string or a GeoJSON LineString.
func decodePoints(raw json.RawMessage) ([]geo.Point, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		return geo.DecodePolyline(encoded)
	}

	var line struct {
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &line); err != nil {
		return nil, err
	}
	return geo.FromLngLat(line.Coordinates), nil
}

// Geocode resolves free text, VietMap first.
func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	if c.RoutingEnabled() {
		place, err := c.geocodeVietMap(ctx, query)
		if err != nil {
			c.log.Warn("VietMap geocode failed", zap.String("query", query), zap.Error(err))
		}
		if place != nil {
			return place, nil
		}
	}

	place, err := c.geocodeNominatim(ctx, query)
	if err != nil {
		c.log.Warn("Nominatim geocode failed", zap.String("query", query), zap.Error(err))
	}
	if place != nil {
		return place, nil
	}
	return nil, ErrNotFound
}

// flexFloat decodes numbers that may arrive quoted.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(strings.Trim(string(data), `"`), 64)
	if err != nil {
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type latLng struct {
	Lat *flexFloat `json:"lat"`
	Lng *flexFloat `json:"lng"`
}

type candidate struct {
	Lat        *flexFloat `json:"lat"`
	Latitude   *flexFloat `json:"latitude"`
	Lng        *flexFloat `json:"lng"`
	Longitude  *flexFloat `json:"longitude"`
	Location   *latLng    `json:"location"`
	Coordinate *latLng    `json:"coordinate"`
	Position   *latLng    `json:"position"`
	Geometry   *struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Address string `json:"address"`
	Display string `json:"display"`
	Name    string `json:"name"`
}

func firstSet(values ...*flexFloat) (float64, bool) {
	for _, v := range values {
		if v != nil && !math.IsNaN(float64(*v)) {
			return float64(*v), true
		}
	}
	return 0, false
}

func (c candidate) point() (geo.Point, bool) {
	var nested latLng
	for _, ll := range []*latLng{c.Location, c.Coordinate, c.Position} {
		if ll != nil {
			nested = *ll
			break
		}
	}
	if nested.Lat == nil && c.Geometry != nil && len(c.Geometry.Coordinates) >= 2 {
		lng, lat := flexFloat(c.Geometry.Coordinates[0]), flexFloat(c.Geometry.Coordinates[1])
		nested = latLng{Lat: &lat, Lng: &lng}
	}

	lat, okLat := firstSet(c.Lat, c.Latitude, nested.Lat)
	lng, okLng := firstSet(c.Lng, c.Longitude, nested.Lng)
	p := geo.Point{Lat: lat, Lng: lng}
	return p, okLat && okLng && p.Valid()
}

func (c candidate) label(fallback string) string {
	for _, s := range []string{c.Address, c.Display, c.Name} {
		if s != "" {
			return s
		}
	}
	return fallback
}

func (c *Client) geocodeVietMap(ctx context.Context, query string) (*Place, error) {
	params := url.Values{}
	params.Set("text", query)
	params.Set("size", "1")
	params.Set("apikey", c.cfg.VietMapAPIKey)

	body, err := c.get(ctx, c.cfg.VietMapURL+"/api/autocomplete?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &candidates); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Data     []candidate `json:"data"`
			Features []candidate `json:"features"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, err
		}
		candidates = append(wrapped.Data, wrapped.Features...)
		if len(candidates) == 0 {
			var root candidate
			if err := json.Unmarshal(body, &root); err == nil {
				candidates = []candidate{root}
			}
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}
	first := candidates[0]
	p, ok := first.point()
	if !ok {
		return nil, nil
	}
	return &Place{Lat: p.Lat, Lng: p.Lng, Label: first.label(query), Source: "vietmap"}, nil
}

type nominatimItem struct {
	Lat         flexFloat `json:"lat"`
	Lon         flexFloat `json:"lon"`
	DisplayName string    `json:"display_name"`
}

func (c *Client) geocodeNominatim(ctx context.Context, query string) (*Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)

	body, err := c.get(ctx, c.cfg.NominatimURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var items []nominatimItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	item := items[0]
	p := geo.Point{Lat: float64(item.Lat), Lng: float64(item.Lon)}
	if !p.Valid() {
		return nil, nil
	}
	label := item.DisplayName
	if label == "" {
		label = query
	}
	return &Place{Lat: p.Lat, Lng: p.Lng, Label: label, Source: "nominatim"}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

func formatPoint(p geo.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
