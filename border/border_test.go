package border

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowColVector(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		n        int
		expected []float64
	}{
		{name: "even steps", size: 100, n: 10, expected: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{name: "small raster", size: 3, n: 10, expected: []float64{0, 1, 2, 3}},
		{name: "uneven steps", size: 25, n: 4, expected: []float64{0, 6, 12, 18, 25}},
		{name: "default points", size: 20, n: 0, expected: []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20}},
		{name: "empty", size: 0, n: 10, expected: []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RowColVector(tt.size, tt.n))
		})
	}
}

func TestCompoundRowColVectors(t *testing.T) {
	cols, rows := CompoundRowColVectors(2, 1, []float64{0, 1, 2}, []float64{0, 1})

	assert.Equal(t, []float64{0, 1, 2, 2, 2, 2, 1, 0, 0, 0}, cols)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1, 1, 1, 1, 0}, rows)
}

func TestPixelLinesWalkIsClosed(t *testing.T) {
	cols, rows := PixelLines(40, 30, 4)
	require.Equal(t, len(cols), len(rows))

	assert.Equal(t, cols[0], cols[len(cols)-1])
	assert.Equal(t, rows[0], rows[len(rows)-1])
	assert.Contains(t, cols, 40.0)
	assert.Contains(t, rows, 30.0)
}

func TestPolygon(t *testing.T) {
	poly, err := Polygon([]float64{0, 10, 10, 0}, []float64{0, 0, 10, 10})
	require.NoError(t, err)
	require.Len(t, poly, 1)
	assert.True(t, poly[0].Closed())
	assert.Len(t, poly[0], 5)

	assert.Equal(t, "POLYGON((0 0,10 0,10 10,0 10,0 0))", WKT(poly))
	assert.Equal(t, "PolygonFromText('POLYGON((0 0,10 0,10 10,0 10,0 0))')", PostGIS(poly))
}

func TestPolygonAlreadyClosed(t *testing.T) {
	poly, err := Polygon([]float64{0, 1, 1, 0}, []float64{0, 0, 1, 0})
	require.NoError(t, err)
	assert.Len(t, poly[0], 4)
}

func TestPolygonErrors(t *testing.T) {
	_, err := Polygon(nil, nil)
	assert.ErrorIs(t, err, ErrLength)

	_, err = Polygon([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLength)
}

func TestCorners(t *testing.T) {
	b, err := Corners([]float64{5, -3, 8}, []float64{60, 61, 59})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{-3, 59}, b.Min)
	assert.Equal(t, orb.Point{8, 61}, b.Max)

	_, err = Corners(nil, []float64{1})
	assert.ErrorIs(t, err, ErrLength)
}
