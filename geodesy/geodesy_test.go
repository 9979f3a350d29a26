package geodesy

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneDegree = orb.EarthRadius * math.Pi / 180

func TestPixelSize(t *testing.T) {
	dx, dy := PixelSize(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0, -0.5})

	assert.InDelta(t, oneDegree, dx, 1e-6)
	assert.InDelta(t, oneDegree/2, dy, 1e-6)
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		to       orb.Point
		expected float64
	}{
		{name: "north", to: orb.Point{0, 1}, expected: 0},
		{name: "east", to: orb.Point{1, 0}, expected: 90},
		{name: "south", to: orb.Point{0, -1}, expected: 180},
		{name: "west", to: orb.Point{-1, 0}, expected: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(orb.Point{0, 0}, tt.to), 1e-9)
		})
	}
}

func TestAzimuthY(t *testing.T) {
	lon := [][]float64{{0, 1}, {0, 1}, {0, 1}}
	lat := [][]float64{{2, 2}, {1, 1}, {0, 0}}

	az, err := AzimuthY(lon, lat)
	require.NoError(t, err)
	require.Len(t, az, 3)
	for _, row := range az {
		require.Len(t, row, 2)
		for _, v := range row {
			assert.InDelta(t, 0, v, 1e-9)
		}
	}

	// 行号向下而纬度增加时方位角指向南
	az, err = AzimuthY([][]float64{{0}, {0}}, [][]float64{{0}, {1}})
	require.NoError(t, err)
	assert.InDelta(t, 180, az[0][0], 1e-9)
	assert.Equal(t, az[0], az[1])
}

func TestAzimuthYShape(t *testing.T) {
	_, err := AzimuthY([][]float64{{0, 1}}, [][]float64{{0, 1}})
	assert.ErrorIs(t, err, ErrGridShape)

	_, err = AzimuthY([][]float64{{0, 1}, {0}}, [][]float64{{0, 1}, {0}})
	assert.ErrorIs(t, err, ErrGridShape)
}

func TestMinMax(t *testing.T) {
	lon := [][]float64{{10, 11}, {math.NaN(), 9}}
	lat := [][]float64{{60, 61}, {59, math.NaN()}}

	minLat, maxLat, minLon, maxLon, err := MinMax(lon, lat)
	require.NoError(t, err)
	assert.Equal(t, 59.0, minLat)
	assert.Equal(t, 61.0, maxLat)
	assert.Equal(t, 9.0, minLon)
	assert.Equal(t, 11.0, maxLon)

	_, _, _, _, err = MinMax(nil, nil)
	assert.ErrorIs(t, err, ErrGridShape)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, math.NaN(), 1, 2, 3}))
	assert.True(t, math.IsNaN(Median([]float64{math.NaN()})))
}
