package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	benThanh := Point{Lat: 10.772461, Lng: 106.698055}
	assert.InDelta(t, 0, Distance(benThanh, benThanh), 1e-9)

	// Ha Noi -> Ho Chi Minh City is roughly 1,140 km as the crow flies.
	hanoi := Point{Lat: 21.028511, Lng: 105.804817}
	d := Distance(hanoi, benThanh)
	assert.InDelta(t, 1_140_000, d, 15_000)
	assert.InDelta(t, d, Distance(benThanh, hanoi), 1e-6, "symmetric")
}

func TestDecodePolyline(t *testing.T) {
	// Reference example from the encoded polyline format documentation.
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Lat, 1e-5)
	assert.InDelta(t, -120.2, points[0].Lng, 1e-5)
	assert.InDelta(t, 40.7, points[1].Lat, 1e-5)
	assert.InDelta(t, -120.95, points[1].Lng, 1e-5)
	assert.InDelta(t, 43.252, points[2].Lat, 1e-5)
	assert.InDelta(t, -126.453, points[2].Lng, 1e-5)
}

func TestDecodePolyline_Empty(t *testing.T) {
	points, err := DecodePolyline("")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestFromLngLat(t *testing.T) {
	points := FromLngLat([][]float64{{106.7, 10.77}, {106.8}, {106.71, 10.78}})
	require.Len(t, points, 2)
	assert.Equal(t, Point{Lat: 10.77, Lng: 106.7}, points[0])
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "850 m", FormatDistance(849.6))
	assert.Equal(t, "1.0 km", FormatDistance(1000))
	assert.Equal(t, "12.3 km", FormatDistance(12345))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 phút", FormatDuration(10_000))
	assert.Equal(t, "15 phút", FormatDuration(15*60_000))
	assert.Equal(t, "1 giờ", FormatDuration(60*60_000))
	assert.Equal(t, "2 giờ 5 phút", FormatDuration(125*60_000))
}
