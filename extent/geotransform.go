/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package extent

import "math"

// GeoTransform 六参数仿射变换
//
//	X = gt[0] + pixel*gt[1] + line*gt[2]
//	Y = gt[3] + pixel*gt[4] + line*gt[5]
type GeoTransform [6]float64

// RasterSize 栅格尺寸（像素）
type RasterSize struct {
	Width  int
	Height int
}

// Origin 左上角坐标
func (gt GeoTransform) Origin() (x, y float64) { return gt[0], gt[3] }

// PixelSize 像素大小，Y方向通常为负
func (gt GeoTransform) PixelSize() (dx, dy float64) { return gt[1], gt[5] }

// Apply 像素/行号 -> 坐标
func (gt GeoTransform) Apply(pixel, line float64) (x, y float64) {
	x = gt[0] + pixel*gt[1] + line*gt[2]
	y = gt[3] + pixel*gt[4] + line*gt[5]
	return
}

// Bounds 按栅格尺寸计算外包范围 (minX, minY, maxX, maxY)
func (gt GeoTransform) Bounds(size RasterSize) [4]float64 {
	w, h := float64(size.Width), float64(size.Height)
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = gt.Apply(0, 0)
	xs[1], ys[1] = gt.Apply(w, 0)
	xs[2], ys[2] = gt.Apply(w, h)
	xs[3], ys[3] = gt.Apply(0, h)
	return [4]float64{minOf(xs[:]), minOf(ys[:]), maxOf(xs[:]), maxOf(ys[:])}
}

// MaxRasterSize 宽、高的上限
const MaxRasterSize = math.MaxInt32

// Derive 由范围参数计算仿射变换和栅格尺寸
//
// spec 必须含有 te（lle 需先经 ConvertLonLat 转换）。
func Derive(spec *Spec) (GeoTransform, RasterSize, error) {
	te, ok := spec.values[TE]
	if !ok {
		if spec.bbox == LLE {
			return GeoTransform{}, RasterSize{}, invalidf(LLE, "lle must be converted to te before deriving the geotransform")
		}
		return GeoTransform{}, RasterSize{}, invalidf(TE, "te is required")
	}

	width := te[2] - te[0]
	height := te[3] - te[1]
	if width <= 0 || height <= 0 {
		return GeoTransform{}, RasterSize{}, invalidf(TE, `the extent is illegal "-te xMin yMin xMax yMax" (width %g, height %g)`, width, height)
	}

	var resX, resY, rasterW, rasterH float64
	if tr, ok := spec.values[TR]; ok {
		resX = tr[0]
		resY = -tr[1]
		// height 与取反后的 resY 比较，保持原有判断
		if width < resX || height < resY {
			return GeoTransform{}, RasterSize{}, invalidf(TR, "tr is too large: width is %g, height is %g", width, height)
		}
		rasterW = width / resX
		rasterH = math.Abs(height / resY)
	} else {
		ts := spec.values[TS]
		rasterW, rasterH = ts[0], ts[1]
		resX = width / rasterW
		resY = -math.Abs(height / rasterH)
	}

	if !finite(rasterW) || !finite(rasterH) {
		return GeoTransform{}, RasterSize{}, invalidf(spec.size, "raster size must be positive (%g x %g given)", rasterW, rasterH)
	}
	// GDAL的栅格尺寸为 int32
	if rasterW > MaxRasterSize || rasterH > MaxRasterSize {
		return GeoTransform{}, RasterSize{}, invalidf(spec.size, "raster size exceeds %d (%g x %g given)", MaxRasterSize, rasterW, rasterH)
	}
	// 截断取整，不四舍五入
	size := RasterSize{Width: int(rasterW), Height: int(rasterH)}
	if size.Width <= 0 || size.Height <= 0 {
		return GeoTransform{}, RasterSize{}, invalidf(spec.size, "raster size must be positive (%g x %g given)", rasterW, rasterH)
	}

	gt := GeoTransform{te[0], resX, 0.0, te[3], 0.0, resY}
	return gt, size, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
