package extent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string][]float64
	}{
		{
			name:  "te and tr",
			input: "-te 100 2000 300 10000 -tr 300 200",
			expected: map[string][]float64{
				"te": {100, 2000, 300, 10000},
				"tr": {300, 200},
			},
		},
		{
			name:  "size group first",
			input: "-tr 300 200 -te 100 2000 300 10000",
			expected: map[string][]float64{
				"te": {100, 2000, 300, 10000},
				"tr": {300, 200},
			},
		},
		{
			name:  "lle with negative values",
			input: "-lle -10 30 55 60 -ts 1000 1000",
			expected: map[string][]float64{
				"lle": {-10, 30, 55, 60},
				"ts":  {1000, 1000},
			},
		},
		{
			name:  "surrounding whitespace",
			input: "  \t-te 0 0 1.5 2e3   -ts 10 20\n",
			expected: map[string][]float64{
				"te": {0, 0, 1.5, 2000},
				"ts": {10, 20},
			},
		},
		{
			name:  "negative fractions",
			input: "-te -.5 -1 0 1 -tr .1 .1",
			expected: map[string][]float64{
				"te": {-0.5, -1, 0, 1},
				"tr": {0.1, 0.1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, spec.Map())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		option  string
		message string
	}{
		{name: "three values only", input: "-te 1 2 3", message: "(1 given)"},
		{name: "empty", input: "   ", message: "(0 given)"},
		{name: "three groups", input: "-te 1 2 3 4 -ts 1 1 -tr 1 1", message: "(3 given)"},
		{name: "unknown option", input: "-foo 1 2 3 4 -ts 10 10", message: "(foo given)"},
		{name: "upper case option", input: "-TE 1 2 3 4 -ts 10 10", message: "(TE given)"},
		{name: "te arity", input: "-te 1 2 3 -ts 10 10", option: "te", message: "te requires exactly 4 parameters (3 given)"},
		{name: "tr arity", input: "-te 1 2 3 4 -tr 10", option: "tr", message: "tr requires exactly 2 parameters (1 given)"},
		{name: "non numeric", input: "-te a 2 3 4 -ts 10 10", option: "te", message: "must be int or float"},
		{name: "nan", input: "-te 1 2 3 4 -ts NaN 10", option: "ts", message: "must be int or float"},
		{name: "two bbox options", input: "-te 1 2 3 4 -lle 1 2 3 4", option: "lle", message: "only one of te, lle"},
		{name: "two size options", input: "-ts 1 2 -tr 3 4", option: "tr", message: "only one of ts, tr"},
		{name: "value before option", input: "5 -te 1 2 3 4 -ts 1 1", message: "before any option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, spec)

			var ie *InvalidExtentError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.option, ie.Option)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSpecAccessors(t *testing.T) {
	spec := MustParse("-tr 300 200 -te 100 2000 300 10000")

	assert.Equal(t, TE, spec.BBoxOption())
	assert.Equal(t, TR, spec.SizeOption())
	assert.True(t, spec.Has(TE))
	assert.False(t, spec.Has(LLE))
	assert.Equal(t, "-te 100 2000 300 10000 -tr 300 200", spec.String())

	te, ok := spec.Get(TE)
	require.True(t, ok)
	te[0] = -1
	again, _ := spec.Get(TE)
	assert.Equal(t, 100.0, again[0], "Get must return a copy")

	_, ok = spec.Get(TS)
	assert.False(t, ok)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("-te 1 2 3") })
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		gt   GeoTransform
		size RasterSize
	}{
		{
			name: "size",
			ext:  "-te 0 0 100 100 -ts 100 100",
			gt:   GeoTransform{0, 1.0, 0, 100, 0.0, -1.0},
			size: RasterSize{Width: 100, Height: 100},
		},
		{
			name: "resolution",
			ext:  "-te 0 0 100 50 -tr 10 10",
			gt:   GeoTransform{0, 10, 0, 50, 0.0, -10},
			size: RasterSize{Width: 10, Height: 5},
		},
		{
			name: "projected extent",
			ext:  "-te 100 2000 300 10000 -tr 50 200",
			gt:   GeoTransform{100, 50, 0, 10000, 0, -200},
			size: RasterSize{Width: 4, Height: 40},
		},
		{
			name: "size with fractional resolution",
			ext:  "-te 0 0 10 10 -ts 3 4",
			gt:   GeoTransform{0, 10.0 / 3, 0, 10, 0, -2.5},
			size: RasterSize{Width: 3, Height: 4},
		},
		{
			name: "resolution not dividing extent",
			ext:  "-te 0 0 105 59 -tr 10 10",
			gt:   GeoTransform{0, 10, 0, 59, 0, -10},
			size: RasterSize{Width: 10, Height: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt, size, err := Derive(MustParse(tt.ext))
			require.NoError(t, err)
			assert.Equal(t, tt.gt, gt)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestDeriveErrors(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		option  string
		message string
	}{
		{name: "zero width", ext: "-te 10 0 10 10 -ts 1 1", option: "te", message: "illegal"},
		{name: "negative height", ext: "-te 0 10 10 0 -ts 1 1", option: "te", message: "illegal"},
		{name: "resolution wider than extent", ext: "-te 0 0 5 100 -tr 10 1", option: "tr", message: "too large"},
		{name: "zero size", ext: "-te 0 0 10 10 -ts 0 10", option: "ts", message: "raster size must be positive"},
		{name: "zero resolution", ext: "-te 0 0 10 10 -tr 0 1", option: "tr", message: "raster size must be positive"},
		{name: "width beyond int32", ext: "-te 0 0 1 1 -ts 4294967297 1", option: "ts", message: "exceeds 2147483647"},
		{name: "height beyond int32 from tr", ext: "-te 0 0 1 1 -tr 1 1e-10", option: "tr", message: "exceeds 2147483647"},
		{name: "lle not converted", ext: "-lle 0 0 10 10 -ts 1 1", option: "lle", message: "must be converted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Derive(MustParse(tt.ext))
			require.Error(t, err)

			var ie *InvalidExtentError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.option, ie.Option)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// The tr guard compares height with the already negated y resolution, so a
// y resolution larger than the extent height slips past it. Such a grid
// truncates to zero rows and is rejected by the size check instead.
func TestDeriveResolutionYGuard(t *testing.T) {
	spec := MustParse("-te 0 0 100 5 -tr 1 10")

	_, _, err := Derive(spec)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "too large")
	assert.Contains(t, err.Error(), "raster size must be positive")

	// A y resolution equal to the height passes both checks.
	gt, size, err := Derive(MustParse("-te 0 0 100 5 -tr 1 5"))
	require.NoError(t, err)
	assert.Equal(t, RasterSize{Width: 100, Height: 1}, size)
	assert.Equal(t, -5.0, gt[5])
}

func TestDeriveIsRepeatable(t *testing.T) {
	spec := MustParse("-te 12.3 45.6 78.9 101.1 -ts 7 9")

	gt1, size1, err1 := Derive(spec)
	gt2, size2, err2 := Derive(spec)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, gt1, gt2)
	assert.Equal(t, size1, size2)
}

func TestGeoTransformHelpers(t *testing.T) {
	gt := GeoTransform{100, 10, 0, 500, 0, -5}

	x, y := gt.Origin()
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 500.0, y)

	dx, dy := gt.PixelSize()
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, -5.0, dy)

	x, y = gt.Apply(2, 4)
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 480.0, y)

	assert.Equal(t, [4]float64{100, 450, 200, 500}, gt.Bounds(RasterSize{Width: 10, Height: 10}))
}

func TestConvertLonLat(t *testing.T) {
	spec := MustParse("-lle -10 30 50 60 -ts 100 100")

	var calls [][2]float64
	// 旋转45度的简单变换，使角点不再与轴对齐
	rotate := PointTransformerFunc(func(x, y float64) (float64, float64, error) {
		calls = append(calls, [2]float64{x, y})
		return x - y, x + y, nil
	})

	converted, err := ConvertLonLat(spec, rotate)
	require.NoError(t, err)

	assert.Equal(t, [][2]float64{{-10, 60}, {50, 60}, {50, 30}, {-10, 30}}, calls)
	te, ok := converted.Get(TE)
	require.True(t, ok)
	assert.Equal(t, []float64{-70, 20, 20, 110}, te)

	// lle 保留，原 Spec 不变
	assert.True(t, converted.Has(LLE))
	assert.False(t, spec.Has(TE))

	gt, size, err := Derive(converted)
	require.NoError(t, err)
	assert.Equal(t, GeoTransform{-70, 0.9, 0, 110, 0, -0.9}, gt)
	assert.Equal(t, RasterSize{Width: 100, Height: 100}, size)
}

func TestConvertLonLatPassThrough(t *testing.T) {
	spec := MustParse("-te 0 0 1 1 -ts 1 1")
	out, err := ConvertLonLat(spec, PointTransformerFunc(func(x, y float64) (float64, float64, error) {
		t.Fatal("transformer must not be called without lle")
		return 0, 0, nil
	}))
	require.NoError(t, err)
	assert.Same(t, spec, out)
}

func TestConvertLonLatError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ConvertLonLat(MustParse("-lle 0 0 1 1 -ts 1 1"), PointTransformerFunc(func(x, y float64) (float64, float64, error) {
		return 0, 0, boom
	}))
	assert.ErrorIs(t, err, boom)
}
